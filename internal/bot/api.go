package bot

import (
	"cribbage/internal/domain"
)

// View is the information a strategy may use. It never contains the opponent's cards.
type View struct {
	Seat   domain.Seat
	Dealer bool
	// Hand is the six dealt cards while discarding and the remaining pegging cards after.
	Hand  []domain.Card
	Count int
	Pile  []domain.Card
	Cut   *domain.Card
	// Unseen are the cards the bot has not located this hand.
	Unseen        []domain.Card
	OpponentCards int
	MyScore       int
	OpponentScore int
	GameTarget    int
}

// Move represents a pegging decision.
type Move struct {
	Go   bool
	Card domain.Card
}

// Brain is the interface that all scripted opponent strategies must implement.
type Brain interface {
	ChooseDiscard(v View) ([]domain.Card, error)
	ChoosePlay(v View) (Move, error)
}
