// Package natsbus publishes accepted table actions to a NATS subject tree so that
// spectators, replays and analytics can follow tables without joining a match.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"cribbage/internal/ports"
)

// DefaultPrefix is the subject root when none is configured.
const DefaultPrefix = "cribbage"

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// Publisher implements ports.EventPublisher over NATS.
type Publisher struct {
	conn   Conn
	prefix string
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Connect dials url and returns a publisher rooted at prefix.
func Connect(url, prefix string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("cribbage-nakama"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return NewPublisher(nc, prefix), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, prefix string) *Publisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{conn: conn, prefix: prefix}
}

// Subject returns the subject for one event kind of one table.
func (p *Publisher) Subject(tableID, kind string) string {
	return p.prefix + ".table." + token(tableID) + "." + token(kind)
}

// Publish encodes ev as JSON and publishes it. The context is checked before sending;
// core NATS publishes are fire-and-forget.
func (p *Publisher) Publish(ctx context.Context, ev ports.TableEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Kind, err)
	}
	if err := p.conn.Publish(p.Subject(ev.TableID, ev.Kind), data); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Kind, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// token makes s safe as a single subject token.
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}
