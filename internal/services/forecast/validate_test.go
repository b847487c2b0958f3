package forecast

import (
	"strings"
	"testing"
)

func TestValidateShortHistory(t *testing.T) {
	err := validateRequest(makeSeries(constantCloses(9, 10)), 5)
	if err == nil {
		t.Fatal("expected error for 9 points")
	}
	msg := err.Error()
	if !strings.Contains(msg, "at least 10") {
		t.Errorf("message should name the minimum: %q", msg)
	}
	if !strings.Contains(msg, "got 9") {
		t.Errorf("message should name the actual count: %q", msg)
	}
}

func TestValidateAcceptsMinimumHistory(t *testing.T) {
	if err := validateRequest(makeSeries(constantCloses(10, 10)), 5); err != nil {
		t.Fatalf("10 points must validate, got: %v", err)
	}
}

func TestValidateHorizon(t *testing.T) {
	series := makeSeries(constantCloses(15, 10))

	for _, h := range []int{0, -1, -30} {
		if err := validateRequest(series, h); err == nil {
			t.Errorf("horizon %d: expected error", h)
		}
	}
	if err := validateRequest(series, 1); err != nil {
		t.Errorf("horizon 1 must validate, got: %v", err)
	}
}
