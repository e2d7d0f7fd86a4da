// Package brain holds what a scripted opponent remembers about the current hand.
package brain

import (
	"cribbage/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // In the opponent's hand or still in the deck
	StatusMine                      // Dealt to the bot, kept or discarded
	StatusPlayed                    // Played to the pile by either seat
	StatusCut                       // The starter card
)

// HandMemory stores the bot's private view of one hand.
type HandMemory struct {
	// DeckStatus tracks all 52 cards. Index = Suit*13 + Rank-1.
	DeckStatus [domain.DeckSize]CardStatus
	// HandNumber is the hand the statuses belong to.
	HandNumber int
}

// NewMemory initializes a fresh memory state.
func NewMemory() *HandMemory {
	return &HandMemory{}
}

// Reset clears the memory.
func (m *HandMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
}

// Sync resets the memory when a new hand has been dealt.
func (m *HandMemory) Sync(handNumber int) {
	if handNumber != m.HandNumber {
		m.Reset()
		m.HandNumber = handNumber
	}
}

// MarkMine records cards dealt to the bot.
func (m *HandMemory) MarkMine(cards []domain.Card) {
	m.mark(cards, StatusMine)
}

// MarkPlayed records cards that have been pegged.
func (m *HandMemory) MarkPlayed(cards []domain.Card) {
	m.mark(cards, StatusPlayed)
}

// MarkCut records the starter card.
func (m *HandMemory) MarkCut(c domain.Card) {
	m.mark([]domain.Card{c}, StatusCut)
}

// Unseen returns every card the bot has not located, in deck order.
func (m *HandMemory) Unseen() []domain.Card {
	out := make([]domain.Card, 0, domain.DeckSize)
	for _, c := range domain.NewDeck() {
		if i, ok := cardToIndex(c); ok && m.DeckStatus[i] == StatusUnknown {
			out = append(out, c)
		}
	}
	return out
}

func (m *HandMemory) mark(cards []domain.Card, status CardStatus) {
	for _, c := range cards {
		if i, ok := cardToIndex(c); ok {
			m.DeckStatus[i] = status
		}
	}
}

func cardToIndex(c domain.Card) (int, bool) {
	i := int(c.Suit)*13 + int(c.Rank) - 1
	if c.Rank < domain.Ace || c.Rank > domain.King || i < 0 || i >= domain.DeckSize {
		return 0, false
	}
	return i, true
}
