// Package events publishes session lifecycle notifications to NATS.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects events are published on.
const (
	SubjectSessionCreated    = "gophsession.sessions.created"
	SubjectSessionTerminated = "gophsession.sessions.terminated"
)

// SessionEvent is the JSON payload of both session subjects.
type SessionEvent struct {
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id,omitempty"`
	Terminated int64     `json:"terminated,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, subj string, v any) error
}

// Nop drops every event. Used when no NATS url is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
	Close()
}

// Bus wraps a core NATS connection.
type Bus struct {
	conn conn
}

// New creates a Bus connected to the provided NATS endpoint.
func New(url string, opts ...nats.Option) (*Bus, error) {
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Bus{conn: nc}, nil
}

// Close drains the connection, falling back to a hard close.
func (b *Bus) Close() {
	if b == nil || b.conn == nil {
		return
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}

// Publish encodes v as JSON and publishes it to subj.
func (b *Bus) Publish(ctx context.Context, subj string, v any) error {
	if b == nil || b.conn == nil {
		return errors.New("nil bus")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return b.conn.Publish(subj, data)
}
