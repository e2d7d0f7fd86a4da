package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxDisplayNameRunes bounds display names.
const MaxDisplayNameRunes = 16

// LowestAvailableSeat returns the first unoccupied seat, or SeatNone when full.
func LowestAvailableSeat(seats *[2]SeatInfo) Seat {
	for _, s := range Seats {
		if !seats[s].Occupied() {
			return s
		}
	}
	return SeatNone
}

// FindCard returns the index of the card with id in hand, or -1.
func FindCard(hand []Card, id string) int {
	for i, c := range hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// RemoveCardsByID returns hand without the cards whose ids are listed, preserving order.
func RemoveCardsByID(hand []Card, ids ...string) []Card {
	if len(ids) == 0 || len(hand) == 0 {
		return hand
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	updated := make([]Card, 0, len(hand))
	for _, c := range hand {
		if _, ok := drop[c.ID]; ok {
			continue
		}
		updated = append(updated, c)
	}
	return updated
}

// SanitizeName trims a display name to MaxDisplayNameRunes, falling back when empty.
func SanitizeName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxDisplayNameRunes {
		name = string([]rune(name)[:MaxDisplayNameRunes])
	}
	if name == "" {
		return fallback
	}
	return name
}
