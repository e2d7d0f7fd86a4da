package bot

import (
	"cribbage/internal/bot/internal"
	"cribbage/internal/domain"
)

// SmartBot discards for the best expected hand plus crib over every unseen cut and
// pegs for immediate points minus the opponent's expected reply.
type SmartBot struct {
	Tuning internal.Tuning
}

// NewSmartBot returns a SmartBot using t.
func NewSmartBot(t internal.Tuning) *SmartBot {
	return &SmartBot{Tuning: t}
}

func (b *SmartBot) ChooseDiscard(v View) ([]domain.Card, error) {
	if len(v.Hand) < domain.DiscardSize {
		return nil, errHandTooSmall
	}
	weight := -b.Tuning.OpponentCribWeight
	if v.Dealer {
		weight = b.Tuning.OwnCribWeight
	}
	options := internal.EvaluateDiscards(v.Hand, v.Unseen, weight)
	if len(options) == 0 {
		return nil, errHandTooSmall
	}
	return options[0].Discard, nil
}

func (b *SmartBot) ChoosePlay(v View) (Move, error) {
	tuning := b.Tuning
	// Near the target only points now matter.
	if v.GameTarget-v.MyScore <= tuning.EndgameMargin {
		tuning.ReplyRiskWeight = 0
	}
	options := internal.EvaluatePlays(v.Hand, v.Pile, v.Unseen, v.Count, v.OpponentCards, tuning)
	if len(options) == 0 {
		return Move{Go: true}, nil
	}
	return Move{Card: options[0].Card}, nil
}
