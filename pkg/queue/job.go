package queue

import "context"

// Job is a registered consumer for one message type. The queue routes
// each dequeued message to the job whose Type matches.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload. An error triggers a retry until
	// the configured limit is reached.
	Handle(ctx context.Context, payload interface{}) error
}
