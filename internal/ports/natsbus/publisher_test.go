package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cribbage/internal/ports"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs    []published
	err     error
	drained bool
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subj, data: data})
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix, table, kind, want string
	}{
		{"cribbage", "t1", "card_played", "cribbage.table.t1.card_played"},
		{"", "t1", "go_called", "cribbage.table.t1.go_called"},
		{"prod.cribbage.", "a.b", "x", "prod.cribbage.table.a_b.x"},
		{"c", "wild*card>", "k", "c.table.wild_card_.k"},
		{"c", "", "k", "c.table._.k"},
	}
	for _, tt := range tests {
		p := NewPublisher(&fakeConn{}, tt.prefix)
		if got := p.Subject(tt.table, tt.kind); got != tt.want {
			t.Errorf("Subject(%q,%q) with prefix %q = %q, want %q", tt.table, tt.kind, tt.prefix, got, tt.want)
		}
	}
}

func TestPublishEncodesEvent(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, "cribbage")

	ev := ports.TableEvent{TableID: "t1", MatchID: "m1", Kind: "go_called", Tick: 7, Payload: map[string]int{"seat": 1}}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if len(conn.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(conn.msgs))
	}
	if conn.msgs[0].subject != "cribbage.table.t1.go_called" {
		t.Fatalf("unexpected subject %q", conn.msgs[0].subject)
	}

	var decoded map[string]any
	if err := json.Unmarshal(conn.msgs[0].data, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["match_id"] != "m1" || decoded["tick"].(float64) != 7 {
		t.Fatalf("unexpected payload %v", decoded)
	}
}

func TestPublishErrors(t *testing.T) {
	conn := &fakeConn{err: errors.New("closed")}
	p := NewPublisher(conn, "")
	if err := p.Publish(context.Background(), ports.TableEvent{TableID: "t", Kind: "k"}); err == nil {
		t.Fatal("expected connection error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := NewPublisher(&fakeConn{}, "")
	if err := ok.Publish(ctx, ports.TableEvent{TableID: "t", Kind: "k"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCloseDrains(t *testing.T) {
	conn := &fakeConn{}
	NewPublisher(conn, "").Close()
	if !conn.drained {
		t.Fatal("expected Drain on Close")
	}
}
