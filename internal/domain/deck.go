package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// ErrDeckExhausted is returned when a deal asks for more cards than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// NewDeck returns an ordered 52-card deck with ids c0..c51.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	id := 0
	for s := SuitSpades; s <= SuitClubs; s++ {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{ID: fmt.Sprintf("c%d", id), Rank: r, Suit: s})
			id++
		}
	}
	return deck
}

// Deck holds the undealt cards of a hand.
type Deck struct {
	cards []Card
}

// NewShuffledDeck returns a full deck in uniformly random order.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	cards := NewDeck()
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return &Deck{cards: cards}
}

// Deal removes and returns the first n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("deal %d of %d: %w", n, len(d.cards), ErrDeckExhausted)
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out, nil
}

// Cards returns a copy of the undealt cards.
func (d *Deck) Cards() []Card {
	if d == nil {
		return nil
	}
	return append([]Card(nil), d.cards...)
}
