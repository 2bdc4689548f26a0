package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

// Subscriber follows board-served events from the JetStream stream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for consuming board events.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeBoardServed delivers new events for stopID, or for every stop when
// stopID is empty. Undecodable messages are skipped.
func (s *Subscriber) SubscribeBoardServed(ctx context.Context, stopID string, handler func(ctx context.Context, event *domain.BoardServed) error) error {
	subject := SubjectBoardServedAll
	if stopID != "" {
		subject = BoardSubject(stopID)
	}
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		var event domain.BoardServed
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.BindStream(StreamBoards),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains the connection.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
