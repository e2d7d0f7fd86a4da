package domain

import (
	"fmt"
	"strconv"
)

// Suit is one of the four French suits.
type Suit int8

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
)

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

func (s Suit) String() string {
	if s < SuitSpades || s > SuitClubs {
		return "?"
	}
	return suitSymbols[s]
}

// MarshalText encodes the suit as its symbol.
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts a suit symbol or its initial letter.
func (s *Suit) UnmarshalText(b []byte) error {
	switch string(b) {
	case "♠", "S":
		*s = SuitSpades
	case "♥", "H":
		*s = SuitHearts
	case "♦", "D":
		*s = SuitDiamonds
	case "♣", "C":
		*s = SuitClubs
	default:
		return fmt.Errorf("unknown suit %q", string(b))
	}
	return nil
}

// Rank is the card rank, Ace=1 through King=13.
type Rank int8

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r < Ace || r > King {
		return "?"
	}
	return strconv.Itoa(int(r))
}

// MarshalText encodes the rank as "A", "2".."10", "J", "Q" or "K".
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (r *Rank) UnmarshalText(b []byte) error {
	switch s := string(b); s {
	case "A":
		*r = Ace
	case "J":
		*r = Jack
	case "Q":
		*r = Queen
	case "K":
		*r = King
	default:
		n, err := strconv.Atoi(s)
		if err != nil || n < 2 || n > 10 {
			return fmt.Errorf("unknown rank %q", s)
		}
		*r = Rank(n)
	}
	return nil
}

// Value is the counting value: Ace is 1, face cards are 10.
func (r Rank) Value() int {
	if r >= 10 {
		return 10
	}
	return int(r)
}

// Card is an immutable playing card. Identity within a hand is the ID, not rank+suit.
type Card struct {
	ID   string `json:"id"`
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
}

// Value returns the card's counting value.
func (c Card) Value() int {
	return c.Rank.Value()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}
