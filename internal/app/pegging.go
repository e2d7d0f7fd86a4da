package app

import (
	"fmt"
	"strings"

	"cribbage/internal/domain"
)

// Play adds one card from the seat's pegging hand to the pile and scores it.
func (s *Service) Play(t *domain.Table, seat domain.Seat, cardID string) ([]Event, error) {
	if t.Stage != domain.StagePegging {
		return nil, ErrInvalidStage
	}
	if !seat.Valid() {
		return nil, ErrUnknownPlayer
	}
	if t.Turn != seat {
		return nil, ErrNotYourTurn
	}
	idx := domain.FindCard(t.PegHands[seat], cardID)
	if idx < 0 {
		return nil, ErrCardNotHeld
	}
	card := t.PegHands[seat][idx]
	if !domain.CanPlay(card, t.Peg.Count) {
		return nil, fmt.Errorf("%w: %s at count %d", ErrExceedsThirtyOne, card, t.Peg.Count)
	}

	t.PegHands[seat] = domain.RemoveCardsByID(t.PegHands[seat], cardID)
	items := t.Peg.Play(seat, card)
	t.SetNotice("%s plays %s. Count=%d", t.Name(seat), card, t.Peg.Count)

	events := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{Seat: seat, Card: card, Count: t.Peg.Count},
	}}
	if len(items) > 0 {
		events = append(events, s.award(t, seat, domain.SumItems(items), itemLabels(items))...)
		if t.GameOver {
			return events, nil
		}
	}
	return append(events, s.settle(t, seat)...), nil
}

// Go declares that the seat cannot play at the current count.
func (s *Service) Go(t *domain.Table, seat domain.Seat) ([]Event, error) {
	if t.Stage != domain.StagePegging {
		return nil, ErrInvalidStage
	}
	if !seat.Valid() {
		return nil, ErrUnknownPlayer
	}
	if t.Turn != seat {
		return nil, ErrNotYourTurn
	}
	if domain.CanPlayAny(t.PegHands[seat], t.Peg.Count) {
		return nil, ErrHasLegalPlay
	}

	t.Peg.Go[seat] = true
	t.SetNotice("%s says GO.", t.Name(seat))
	events := []Event{{Kind: EventGoCalled, Payload: GoCalledPayload{Seat: seat}}}
	return append(events, s.settle(t, seat)...), nil
}

// settle resolves the table after actor played or said GO: it finishes pegging,
// resets the count at 31, hands the turn to whoever can act next, or ends the
// sequence when nobody can extend the count. GO flags hold until the count resets.
func (s *Service) settle(t *domain.Table, actor domain.Seat) []Event {
	if t.PeggingDone() {
		events := s.awardLastCard(t)
		if t.GameOver {
			return events
		}
		return append(events, s.finishPegging(t)...)
	}

	if t.Peg.Count == domain.MaxCount {
		lead := actor.Other()
		if len(t.PegHands[lead]) == 0 {
			lead = actor
		}
		return s.resetCount(t, lead)
	}

	next := actor.Other()
	if len(t.PegHands[next]) == 0 || t.Peg.Go[next] {
		next = actor
	}
	if domain.CanPlayAny(t.PegHands[next], t.Peg.Count) {
		t.Turn = next
		return nil
	}
	if next == actor || t.Peg.Go[actor] || len(t.PegHands[actor]) == 0 {
		if next == actor && !t.Peg.Go[actor] {
			t.SetNotice("%s is blocked, ending the sequence.", t.Name(actor))
		}
		return s.endSequence(t)
	}
	// next holds cards but is blocked; they must say GO.
	t.Turn = next
	return nil
}

// endSequence awards the last card and gives the lead to the last player, or the
// non-dealer when nothing was played since the last reset.
func (s *Service) endSequence(t *domain.Table) []Event {
	events := s.awardLastCard(t)
	if t.GameOver {
		return events
	}
	lead := t.Peg.LastPlayer
	if !lead.Valid() {
		lead = t.NonDealer()
	}
	if len(t.PegHands[lead]) == 0 {
		lead = lead.Other()
	}
	return append(events, s.resetCount(t, lead)...)
}

func (s *Service) resetCount(t *domain.Table, lead domain.Seat) []Event {
	t.Peg.Reset()
	t.Turn = lead
	t.SetNotice("Count resets to 0. %s to play.", t.Name(lead))
	return []Event{{Kind: EventCountReset, Payload: CountResetPayload{Lead: lead}}}
}

func (s *Service) awardLastCard(t *domain.Table) []Event {
	seat, ok := t.Peg.LastCard()
	if !ok {
		return nil
	}
	return s.award(t, seat, 1, []string{"last card for 1"})
}

// finishPegging counts the show in order: non-dealer hand, dealer hand, crib.
// Counting stops as soon as a seat reaches the game target.
func (s *Service) finishPegging(t *domain.Table) []Event {
	show := domain.ScoreShow(t.Dealer, t.ShowHands, t.Crib, *t.Cut)
	t.Show = &show
	t.Stage = domain.StageShow
	t.Turn = domain.SeatNone
	t.SetNotice("SHOW: %s +%d, %s +%d, crib +%d.",
		t.Name(show.NonDealer), show.NonDealerHand.Breakdown.Total,
		t.Name(show.Dealer), show.DealerHand.Breakdown.Total,
		show.Crib.Breakdown.Total)

	events := []Event{{Kind: EventShowScored, Payload: ShowScoredPayload{Show: show}}}
	for _, hand := range show.InCountingOrder() {
		events = append(events, s.award(t, hand.Owner, hand.Breakdown.Total, itemLabels(hand.Breakdown.Items))...)
		if t.GameOver {
			break
		}
	}
	return events
}

// award is the only place scores change. Scores are clamped at the game target and
// reaching it ends the game immediately.
func (s *Service) award(t *domain.Table, seat domain.Seat, points int, reasons []string) []Event {
	if points <= 0 || t.GameOver {
		return nil
	}
	t.Scores[seat] = min(t.Scores[seat]+points, t.GameTarget)
	t.LastScore = &domain.ScoreEvent{Seat: seat, Points: points, Reasons: reasons}
	if t.Stage == domain.StagePegging {
		t.SetNotice("%s scores %d (%s).", t.Name(seat), points, strings.Join(reasons, ", "))
	}

	events := []Event{{
		Kind:    EventPointsScored,
		Payload: PointsScoredPayload{Seat: seat, Points: points, Reasons: reasons, Score: t.Scores[seat]},
	}}
	if t.Scores[seat] >= t.GameTarget {
		events = append(events, s.endGame(t, seat)...)
	}
	return events
}

func (s *Service) endGame(t *domain.Table, winner domain.Seat) []Event {
	loser := winner.Other()
	t.GameOver = true
	t.Winner = winner
	t.Stage = domain.StageGameOver
	t.Turn = domain.SeatNone
	t.MatchWins[winner]++
	t.SetNotice("GAME OVER: %s wins (%d-%d).", t.Name(winner), t.Scores[winner], t.Scores[loser])

	events := []Event{{
		Kind: EventGameEnded,
		Payload: GameEndedPayload{
			Winner:       winner,
			WinnerUserID: t.Seats[winner].UserID,
			LoserUserID:  t.Seats[loser].UserID,
			Scores:       t.Scores,
			MatchWins:    t.MatchWins,
		},
	}}
	if t.MatchWins[winner] >= t.MatchTarget {
		t.MatchOver = true
		t.MatchWinner = winner
		t.Stage = domain.StageMatchOver
		t.SetNotice("MATCH OVER: %s wins the match %d-%d.", t.Name(winner), t.MatchWins[winner], t.MatchWins[loser])
		events = append(events, Event{
			Kind: EventMatchEnded,
			Payload: MatchEndedPayload{
				Winner:       winner,
				WinnerUserID: t.Seats[winner].UserID,
				LoserUserID:  t.Seats[loser].UserID,
				MatchWins:    t.MatchWins,
			},
		})
	}
	return events
}

func itemLabels(items []domain.ScoreItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}
