package internal

import (
	"sort"

	"cribbage/internal/domain"
)

// DiscardOption is one way to split a dealt hand into kept cards and a crib discard.
type DiscardOption struct {
	Keep    []domain.Card
	Discard []domain.Card
	// HandEV is the expected show value of Keep averaged over every unseen cut.
	HandEV float64
	// CribEV is the expected value the discards alone contribute to the crib.
	CribEV float64
	Score  float64
}

// EvaluateDiscards scores every two-card discard from hand. cribWeight is positive
// when the crib is the bot's own and negative otherwise. Options are returned best first.
func EvaluateDiscards(hand, unseen []domain.Card, cribWeight float64) []DiscardOption {
	if len(hand) <= domain.DiscardSize {
		return nil
	}
	options := make([]DiscardOption, 0, len(hand)*(len(hand)-1)/2)
	for i := 0; i < len(hand)-1; i++ {
		for j := i + 1; j < len(hand); j++ {
			opt := DiscardOption{Discard: []domain.Card{hand[i], hand[j]}}
			for k, c := range hand {
				if k != i && k != j {
					opt.Keep = append(opt.Keep, c)
				}
			}
			opt.HandEV, opt.CribEV = expectedValues(opt.Keep, opt.Discard, unseen)
			opt.Score = opt.HandEV + cribWeight*opt.CribEV
			options = append(options, opt)
		}
	}
	sort.SliceStable(options, func(a, b int) bool {
		if options[a].Score != options[b].Score {
			return options[a].Score > options[b].Score
		}
		// Keep lower cards for pegging when the estimates tie.
		return sumValues(options[a].Keep) < sumValues(options[b].Keep)
	})
	return options
}

func expectedValues(keep, discard, unseen []domain.Card) (hand, crib float64) {
	if len(unseen) == 0 {
		return 0, float64(domain.ComboPoints(discard))
	}
	withCut := make([]domain.Card, len(discard)+1)
	copy(withCut, discard)
	for _, cut := range unseen {
		hand += float64(domain.ScoreHand(keep, cut, false).Total)
		withCut[len(discard)] = cut
		pts := domain.ComboPoints(withCut)
		for _, c := range discard {
			if c.Rank == domain.Jack && c.Suit == cut.Suit {
				pts++
			}
		}
		crib += float64(pts)
	}
	n := float64(len(unseen))
	return hand / n, crib / n
}

// PegOption is one legal pegging play.
type PegOption struct {
	Card domain.Card
	// Points are scored immediately by the play.
	Points int
	// Risk is the expected number of points the opponent pegs in reply.
	Risk  float64
	Score float64
}

// EvaluatePlays scores each legal card in hand at the current count. opponentCards is
// how many cards the opponent still holds; unseen are the cards the bot cannot locate.
// Options are returned best first.
func EvaluatePlays(hand, pile, unseen []domain.Card, count, opponentCards int, t Tuning) []PegOption {
	playable := domain.PlayableCards(hand, count)
	options := make([]PegOption, 0, len(playable))
	for _, c := range playable {
		next := appendCard(pile, c)
		newCount := count + c.Value()
		opt := PegOption{
			Card:   c,
			Points: domain.SumItems(domain.PegPoints(next, newCount)),
			Risk:   replyRisk(next, newCount, unseen, opponentCards),
		}
		opt.Score = float64(opt.Points) - t.ReplyRiskWeight*opt.Risk + t.ShedHighBonus*float64(c.Value())
		options = append(options, opt)
	}
	sort.SliceStable(options, func(a, b int) bool {
		if options[a].Score != options[b].Score {
			return options[a].Score > options[b].Score
		}
		return options[a].Card.Value() > options[b].Card.Value()
	})
	return options
}

// replyRisk approximates the opponent's expected reply: each unseen card is held with
// probability opponentCards/len(unseen).
func replyRisk(pile []domain.Card, count int, unseen []domain.Card, opponentCards int) float64 {
	if opponentCards == 0 || len(unseen) == 0 || count == domain.MaxCount {
		return 0
	}
	held := float64(opponentCards) / float64(len(unseen))
	if held > 1 {
		held = 1
	}
	total := 0.0
	for _, c := range unseen {
		if !domain.CanPlay(c, count) {
			continue
		}
		pts := domain.SumItems(domain.PegPoints(appendCard(pile, c), count+c.Value()))
		total += float64(pts) * held
	}
	return total
}

func appendCard(pile []domain.Card, c domain.Card) []domain.Card {
	out := make([]domain.Card, len(pile)+1)
	copy(out, pile)
	out[len(pile)] = c
	return out
}

func sumValues(cards []domain.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}
