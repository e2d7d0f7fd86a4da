package bot

import botinternal "cribbage/internal/bot/internal"

// DefaultTuning values the own crib above the opponent's because the dealer also
// chooses what to keep around it.
var DefaultTuning = botinternal.Tuning{
	OwnCribWeight:      1.0,
	OpponentCribWeight: 0.8,
	ReplyRiskWeight:    0.6,
	ShedHighBonus:      0.05,
	EndgameMargin:      8,
}
