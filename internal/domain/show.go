package domain

// FrozenHand is a seat's kept hand, fixed when pegging starts and counted at the show.
// It is an array value so pegging can never shrink it.
type FrozenHand [HandSize]Card

// FreezeHand copies a 4-card hand into a FrozenHand.
func FreezeHand(cards []Card) (FrozenHand, bool) {
	var h FrozenHand
	if len(cards) != HandSize {
		return h, false
	}
	copy(h[:], cards)
	return h, true
}

// Cards returns the hand as a fresh slice.
func (h FrozenHand) Cards() []Card {
	out := make([]Card, HandSize)
	copy(out, h[:])
	return out
}

// HandScore is one counted hand in the show.
type HandScore struct {
	Owner     Seat      `json:"owner"`
	Cards     []Card    `json:"cards"`
	Breakdown Breakdown `json:"breakdown"`
}

// Show is the complete end-of-hand count. Hands are listed in counting order.
type Show struct {
	Dealer        Seat      `json:"dealer"`
	NonDealer     Seat      `json:"non_dealer"`
	Cut           Card      `json:"cut"`
	NonDealerHand HandScore `json:"non_dealer_hand"`
	DealerHand    HandScore `json:"dealer_hand"`
	Crib          HandScore `json:"crib"`
}

// ScoreShow counts the non-dealer hand, the dealer hand and the dealer's crib against the cut.
func ScoreShow(dealer Seat, hands [2]FrozenHand, crib []Card, cut Card) Show {
	non := dealer.Other()
	return Show{
		Dealer:        dealer,
		NonDealer:     non,
		Cut:           cut,
		NonDealerHand: scoreHandFor(non, hands[non].Cards(), cut, false),
		DealerHand:    scoreHandFor(dealer, hands[dealer].Cards(), cut, false),
		Crib:          scoreHandFor(dealer, append([]Card(nil), crib...), cut, true),
	}
}

func scoreHandFor(owner Seat, cards []Card, cut Card, isCrib bool) HandScore {
	return HandScore{Owner: owner, Cards: cards, Breakdown: ScoreHand(cards, cut, isCrib)}
}

// InCountingOrder returns the three counted hands in the order they are pegged.
func (s *Show) InCountingOrder() []HandScore {
	return []HandScore{s.NonDealerHand, s.DealerHand, s.Crib}
}

// TotalFor returns everything the show awards to seat.
func (s *Show) TotalFor(seat Seat) int {
	total := 0
	for _, h := range s.InCountingOrder() {
		if h.Owner == seat {
			total += h.Breakdown.Total
		}
	}
	return total
}
