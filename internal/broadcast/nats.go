package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"player-auction/internal/models"

	"github.com/nats-io/nats.go"
)

// NATSPublisher streams events to NATS, e.g. for an archival consumer
// subscribed to auction.events.*
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("player-auction"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// NATSSubject is the subject an event is published on
func NATSSubject(name models.EventName) string {
	return fmt.Sprintf("auction.events.%s", name)
}

// Publish sends the JSON encoded event; delivery is best effort
func (p *NATSPublisher) Publish(_ context.Context, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(NATSSubject(event.Name), data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
