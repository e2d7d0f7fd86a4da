package domain

const (
	// DefaultGameTarget is the score that ends a game.
	DefaultGameTarget = 121
	// DefaultMatchTarget is the number of game wins that ends a match.
	DefaultMatchTarget = 3

	// DealSize is the number of cards dealt to each seat.
	DealSize = 6
	// DiscardSize is the number of cards each seat sends to the crib.
	DiscardSize = 2
	// HandSize is the number of cards kept for pegging and the show.
	HandSize = DealSize - DiscardSize
	// CribSize is the number of cards in a complete crib.
	CribSize = 2 * DiscardSize

	// MaxCount is the pegging count ceiling.
	MaxCount = 31

	// maxLogLines bounds the table log.
	maxLogLines = 200
)
