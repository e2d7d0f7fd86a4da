package internal

// Tuning weights the estimates used by the smart strategy.
type Tuning struct {
	// OwnCribWeight scales the expected crib value credited when the bot deals.
	OwnCribWeight float64
	// OpponentCribWeight scales the expected crib value debited when the opponent deals.
	OpponentCribWeight float64
	// ReplyRiskWeight scales the points the opponent is expected to peg in reply.
	ReplyRiskWeight float64
	// ShedHighBonus favours shedding high cards when other terms tie.
	ShedHighBonus float64
	// EndgameMargin switches pegging to pure immediate points once the bot is
	// this close to the game target.
	EndgameMargin int
}
