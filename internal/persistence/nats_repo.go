package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/felixbrock/ideaspark/internal/domain"
)

const SubjectPrefix = "ideaspark"

// NATSRepo publishes domain events on ideaspark.<event type>.
type NATSRepo struct {
	conn *nats.Conn
}

func NewNATSRepo(url string) (*NATSRepo, error) {
	conn, err := nats.Connect(url, nats.Name("ideaspark"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSRepo{conn: conn}, nil
}

func Subject(eventType string) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}

func (r *NATSRepo) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.conn.Publish(Subject(event.Type), data)
}

func (r *NATSRepo) Close() error {
	return r.conn.Drain()
}
