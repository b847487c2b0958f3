package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	"PriceCast/pkg/util"

	"github.com/gorilla/websocket"
)

// Client streams live trades from the Finnhub WebSocket API.
type Client struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New builds a MarketStream for the given symbols. Nothing connects
// until Connect is called.
func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.MarketStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect dials the WebSocket endpoint.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("finnhub connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("finnhub: connected")
	return nil
}

// Subscribe registers every configured symbol on the open connection.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("finnhub not connected")
	}
	for _, s := range c.symbols {
		sym := util.NormalizeSymbol(s)
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
		log.Printf("finnhub: subscribed %s", sym)
	}
	return nil
}

// Finnhub trade frames use single-letter field names.
type trade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type frame struct {
	Type string  `json:"type"`
	Data []trade `json:"data"`
}

// Read fans incoming trades out as Quote events. The quotes channel is
// buffered and lossy: when the downstream pipeline falls behind, new
// trades are dropped rather than blocking the read loop.
func (c *Client) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	quotes := make(chan *models.Quote, 1024)
	errs := make(chan error, 1)

	// keepalive pings
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	go func() {
		defer close(quotes)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if c.conn == nil {
				errs <- fmt.Errorf("finnhub conn nil")
				return
			}
			_, raw, err := c.conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("finnhub read: %w", err)
				return
			}
			var fr frame
			if err := json.Unmarshal(raw, &fr); err != nil {
				// non-JSON frames (pings, acks) are not trades
				continue
			}
			if fr.Type != "trade" {
				continue
			}
			for _, t := range fr.Data {
				quote := &models.Quote{
					Symbol:    util.NormalizeSymbol(t.S),
					Timestamp: t.T / 1000,
					Price:     t.P,
					Volume:    t.V,
				}
				select {
				case quotes <- quote:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return quotes, errs
}

// Reconnect tears the connection down, waits, and dials again with a
// fresh subscription.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close shuts the WebSocket connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) IsConnected() bool { return c.connected }
