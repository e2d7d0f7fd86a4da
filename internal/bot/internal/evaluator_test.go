package internal

import (
	"fmt"
	"testing"

	"cribbage/internal/domain"
)

func cd(r domain.Rank, s domain.Suit) domain.Card {
	return domain.Card{ID: fmt.Sprintf("c%d", int(s)*13+int(r)-1), Rank: r, Suit: s}
}

func unseenWithout(cards ...domain.Card) []domain.Card {
	skip := make(map[string]bool, len(cards))
	for _, c := range cards {
		skip[c.ID] = true
	}
	var out []domain.Card
	for _, c := range domain.NewDeck() {
		if !skip[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func TestEvaluateDiscards_PartitionsHand(t *testing.T) {
	hand := []domain.Card{
		cd(2, domain.SuitSpades), cd(7, domain.SuitHearts), cd(9, domain.SuitClubs),
		cd(domain.Queen, domain.SuitDiamonds), cd(domain.Ace, domain.SuitClubs), cd(4, domain.SuitSpades),
	}
	options := EvaluateDiscards(hand, unseenWithout(hand...), 1)
	if len(options) != 15 {
		t.Fatalf("expected 15 discard options, got %d", len(options))
	}
	for i, opt := range options {
		if len(opt.Keep) != domain.HandSize || len(opt.Discard) != domain.DiscardSize {
			t.Fatalf("option %d has %d kept and %d discarded", i, len(opt.Keep), len(opt.Discard))
		}
		seen := map[string]bool{}
		for _, c := range append(append([]domain.Card{}, opt.Keep...), opt.Discard...) {
			if seen[c.ID] {
				t.Fatalf("option %d repeats %s", i, c)
			}
			seen[c.ID] = true
		}
		if i > 0 && options[i-1].Score < opt.Score {
			t.Fatalf("options not sorted best first at %d", i)
		}
	}
}

func TestEvaluateDiscards_KeepsThreeFives(t *testing.T) {
	hand := []domain.Card{
		cd(5, domain.SuitSpades), cd(5, domain.SuitHearts), cd(5, domain.SuitDiamonds),
		cd(domain.Jack, domain.SuitClubs), cd(domain.King, domain.SuitSpades), cd(2, domain.SuitClubs),
	}
	for _, weight := range []float64{1, -1} {
		best := EvaluateDiscards(hand, unseenWithout(hand...), weight)[0]
		fives := 0
		for _, c := range best.Keep {
			if c.Rank == 5 {
				fives++
			}
		}
		if fives != 3 {
			t.Fatalf("crib weight %v: expected to keep three fives, kept %v", weight, best.Keep)
		}
		if best.HandEV < 14 {
			t.Fatalf("crib weight %v: expected hand EV of at least 14, got %.2f", weight, best.HandEV)
		}
	}
}

func TestEvaluateDiscards_NoCutsLeft(t *testing.T) {
	hand := []domain.Card{
		cd(5, domain.SuitSpades), cd(domain.King, domain.SuitHearts), cd(2, domain.SuitDiamonds),
		cd(3, domain.SuitClubs), cd(9, domain.SuitSpades), cd(9, domain.SuitClubs),
	}
	for _, opt := range EvaluateDiscards(hand, nil, 1) {
		if opt.HandEV != 0 {
			t.Fatalf("expected zero hand EV without cuts, got %.2f", opt.HandEV)
		}
	}
	if got := EvaluateDiscards(hand[:2], nil, 1); got != nil {
		t.Fatalf("expected nil for a two-card hand, got %v", got)
	}
}

func TestEvaluatePlays_TakesFifteen(t *testing.T) {
	pile := []domain.Card{cd(domain.King, domain.SuitSpades)}
	hand := []domain.Card{cd(9, domain.SuitHearts), cd(5, domain.SuitClubs)}
	options := EvaluatePlays(hand, pile, nil, 10, 3, Tuning{})
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].Card.Rank != 5 || options[0].Points != 2 {
		t.Fatalf("expected the five for 2, got %+v", options[0])
	}
}

func TestEvaluatePlays_SkipsIllegalCards(t *testing.T) {
	hand := []domain.Card{cd(domain.Queen, domain.SuitHearts), cd(3, domain.SuitClubs)}
	options := EvaluatePlays(hand, nil, nil, 25, 1, Tuning{})
	if len(options) != 1 || options[0].Card.Rank != 3 {
		t.Fatalf("expected only the three to be playable, got %+v", options)
	}
}

func TestReplyRisk(t *testing.T) {
	five := cd(5, domain.SuitSpades)
	four := cd(4, domain.SuitSpades)
	unseen := unseenWithout(five, four)

	riskFive := replyRisk([]domain.Card{five}, 5, unseen, 4)
	riskFour := replyRisk([]domain.Card{four}, 4, unseen, 4)
	if riskFive <= riskFour {
		t.Fatalf("leading a five should be riskier than a four: %.3f vs %.3f", riskFive, riskFour)
	}
	if got := replyRisk([]domain.Card{five}, domain.MaxCount, unseen, 4); got != 0 {
		t.Fatalf("expected no risk at 31, got %.3f", got)
	}
	if got := replyRisk([]domain.Card{five}, 5, unseen, 0); got != 0 {
		t.Fatalf("expected no risk against an empty hand, got %.3f", got)
	}
}

func TestEvaluatePlays_AvoidsRiskWhenWeighted(t *testing.T) {
	hand := []domain.Card{cd(5, domain.SuitHearts), cd(4, domain.SuitClubs)}
	unseen := unseenWithout(hand...)
	options := EvaluatePlays(hand, nil, unseen, 0, 4, Tuning{ReplyRiskWeight: 1})
	if options[0].Card.Rank != 4 {
		t.Fatalf("expected to lead the four, got %+v", options[0])
	}
}
