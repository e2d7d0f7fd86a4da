package domain

import (
	"reflect"
	"testing"
)

func TestLowestAvailableSeat(t *testing.T) {
	tests := []struct {
		name  string
		seats [2]SeatInfo
		want  Seat
	}{
		{name: "all empty", seats: [2]SeatInfo{}, want: SeatA},
		{name: "first taken", seats: [2]SeatInfo{{UserID: "u1"}, {}}, want: SeatB},
		{name: "second taken", seats: [2]SeatInfo{{}, {UserID: "u2"}}, want: SeatA},
		{name: "full", seats: [2]SeatInfo{{UserID: "u1"}, {UserID: "u2"}}, want: SeatNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LowestAvailableSeat(&tt.seats); got != tt.want {
				t.Fatalf("LowestAvailableSeat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveCardsByID(t *testing.T) {
	hand := []Card{
		{ID: "c0", Rank: Ace, Suit: SuitSpades},
		{ID: "c1", Rank: 2, Suit: SuitSpades},
		{ID: "c14", Rank: 2, Suit: SuitHearts},
		{ID: "c3", Rank: 4, Suit: SuitSpades},
	}

	got := RemoveCardsByID(hand, "c1", "c3")
	want := []Card{{ID: "c0", Rank: Ace, Suit: SuitSpades}, {ID: "c14", Rank: 2, Suit: SuitHearts}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RemoveCardsByID() = %v, want %v", got, want)
	}
	if len(hand) != 4 {
		t.Fatalf("input hand was modified: %v", hand)
	}
}

func TestFindCard(t *testing.T) {
	hand := []Card{{ID: "c7"}, {ID: "c9"}}
	if got := FindCard(hand, "c9"); got != 1 {
		t.Fatalf("FindCard(c9) = %d, want 1", got)
	}
	if got := FindCard(hand, "c1"); got != -1 {
		t.Fatalf("FindCard(c1) = %d, want -1", got)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "  Jim  ", want: "Jim"},
		{in: "", want: "Seat A"},
		{in: "   ", want: "Seat A"},
		{in: "Abcdefghijklmnopqrstu", want: "Abcdefghijklmnop"},
		{in: "♠♠♠♠♠♠♠♠♠♠♠♠♠♠♠♠♠♠", want: "♠♠♠♠♠♠♠♠♠♠♠♠♠♠♠♠"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in, "Seat A"); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableSetNoticeBoundsLog(t *testing.T) {
	table := NewTable("t1", 0, 0)
	for i := 0; i < maxLogLines+25; i++ {
		table.SetNotice("line %d", i)
	}
	if len(table.Log) != maxLogLines {
		t.Fatalf("log length = %d, want %d", len(table.Log), maxLogLines)
	}
	if table.Log[len(table.Log)-1] != table.Notice {
		t.Fatalf("last log line %q != notice %q", table.Log[len(table.Log)-1], table.Notice)
	}
	if table.NoticeSeq != maxLogLines+25 {
		t.Fatalf("notice seq = %d", table.NoticeSeq)
	}
	if table.GameTarget != DefaultGameTarget || table.MatchTarget != DefaultMatchTarget {
		t.Fatalf("targets = %d/%d", table.GameTarget, table.MatchTarget)
	}
}
