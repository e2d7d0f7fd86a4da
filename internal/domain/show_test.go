package domain

import "testing"

func mustFreeze(t *testing.T, cards ...Card) FrozenHand {
	t.Helper()
	h, ok := FreezeHand(cards)
	if !ok {
		t.Fatalf("FreezeHand(%v) failed", cards)
	}
	return h
}

func TestScoreShow_CountingOrderAndOwners(t *testing.T) {
	var hands [2]FrozenHand
	hands[SeatA] = mustFreeze(t, cd(5, SuitSpades), cd(5, SuitHearts), cd(5, SuitDiamonds), cd(Jack, SuitClubs))
	hands[SeatB] = mustFreeze(t, cd(2, SuitSpades), cd(4, SuitHearts), cd(6, SuitDiamonds), cd(8, SuitClubs))
	crib := []Card{cd(9, SuitSpades), cd(6, SuitHearts), cd(King, SuitDiamonds), cd(Queen, SuitClubs)}
	cut := cd(5, SuitClubs)

	show := ScoreShow(SeatA, hands, crib, cut)

	order := show.InCountingOrder()
	if order[0].Owner != SeatB || order[1].Owner != SeatA || order[2].Owner != SeatA {
		t.Fatalf("counting order owners = %v %v %v", order[0].Owner, order[1].Owner, order[2].Owner)
	}
	if show.DealerHand.Breakdown.Total != 29 {
		t.Fatalf("dealer hand = %d, want 29", show.DealerHand.Breakdown.Total)
	}
	if got := show.TotalFor(SeatA); got != show.DealerHand.Breakdown.Total+show.Crib.Breakdown.Total {
		t.Fatalf("TotalFor(A) = %d", got)
	}
	if got := show.TotalFor(SeatB); got != show.NonDealerHand.Breakdown.Total {
		t.Fatalf("TotalFor(B) = %d", got)
	}
}

func TestFreezeHand_IsIndependentOfSource(t *testing.T) {
	src := []Card{cd(Ace, SuitSpades), cd(2, SuitSpades), cd(3, SuitSpades), cd(4, SuitSpades)}
	h := mustFreeze(t, src...)
	src[0] = cd(King, SuitHearts)
	if h[0].Rank != Ace {
		t.Fatalf("frozen hand changed with its source: %v", h[0])
	}
	if _, ok := FreezeHand(src[:3]); ok {
		t.Fatal("a 3-card hand should not freeze")
	}
}
