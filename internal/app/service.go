package app

import (
	"fmt"
	"math/rand"
	"time"

	"cribbage/internal/domain"
)

// Service contains cribbage table use-cases operating on domain state.
// It is the only code that mutates a Table; callers serialize access per table.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Join seats userID at the lowest open seat, or reconnects them to the seat they hold.
// A hand starts automatically once both seats are filled in the lobby.
func (s *Service) Join(t *domain.Table, userID, displayName string) (domain.Seat, []Event, error) {
	if userID == "" {
		return domain.SeatNone, nil, ErrUnknownPlayer
	}
	if seat := t.SeatOf(userID); seat != domain.SeatNone {
		info := &t.Seats[seat]
		info.Connected = true
		if displayName != "" {
			info.DisplayName = domain.SanitizeName(displayName, info.DisplayName)
		}
		t.SetNotice("%s reconnected.", t.Name(seat))
		return seat, []Event{{
			Kind:    EventSeatTaken,
			Payload: SeatTakenPayload{UserID: userID, Seat: seat, Rejoined: true},
		}}, nil
	}
	return s.takeSeat(t, domain.SeatInfo{UserID: userID, DisplayName: displayName, Connected: true})
}

// AddScriptedOpponent fills the open seat with a scripted opponent.
func (s *Service) AddScriptedOpponent(t *domain.Table, userID, displayName string) (domain.Seat, []Event, error) {
	if userID == "" {
		return domain.SeatNone, nil, ErrUnknownPlayer
	}
	if displayName == "" {
		displayName = ScriptedOpponentName
	}
	return s.takeSeat(t, domain.SeatInfo{UserID: userID, DisplayName: displayName, Scripted: true})
}

func (s *Service) takeSeat(t *domain.Table, info domain.SeatInfo) (domain.Seat, []Event, error) {
	seat := domain.LowestAvailableSeat(&t.Seats)
	if seat == domain.SeatNone {
		return domain.SeatNone, nil, ErrTableFull
	}
	info.DisplayName = domain.SanitizeName(info.DisplayName, "Seat "+seat.String())
	t.Seats[seat] = info
	t.SetNotice("%s joined as seat %s.", info.DisplayName, seat)

	events := []Event{{
		Kind:    EventSeatTaken,
		Payload: SeatTakenPayload{UserID: info.UserID, Seat: seat, Scripted: info.Scripted},
	}}

	if t.Stage == domain.StageLobby && t.BothSeated() && !t.MatchOver {
		evs, err := s.startHand(t)
		if err != nil {
			return seat, events, err
		}
		events = append(events, evs...)
	}
	return seat, events, nil
}

// Disconnect clears the seat's connection. In the lobby the seat is released instead,
// otherwise game state is kept for reconnection.
func (s *Service) Disconnect(t *domain.Table, userID string) ([]Event, error) {
	seat := t.SeatOf(userID)
	if seat == domain.SeatNone {
		return nil, ErrUnknownPlayer
	}
	name := t.Name(seat)
	freed := t.Stage == domain.StageLobby
	if freed {
		t.Seats[seat] = domain.SeatInfo{}
		t.SetNotice("%s left the table.", name)
	} else {
		t.Seats[seat].Connected = false
		t.SetNotice("%s disconnected.", name)
	}
	return []Event{{
		Kind:    EventSeatLeft,
		Payload: SeatLeftPayload{UserID: userID, Seat: seat, Freed: freed},
	}}, nil
}

// SetName changes a seat's display name.
func (s *Service) SetName(t *domain.Table, seat domain.Seat, displayName string) ([]Event, error) {
	if !seat.Valid() || !t.Seats[seat].Occupied() {
		return nil, ErrUnknownPlayer
	}
	old := t.Name(seat)
	name := domain.SanitizeName(displayName, old)
	t.Seats[seat].DisplayName = name
	if name != old {
		t.SetNotice("%s is now %s.", old, name)
	}
	return []Event{{
		Kind:    EventNameChanged,
		Payload: NameChangedPayload{Seat: seat, DisplayName: name},
	}}, nil
}

// StartHand deals the first hand of a seated lobby.
func (s *Service) StartHand(t *domain.Table) ([]Event, error) {
	if t.Stage != domain.StageLobby || t.MatchOver {
		return nil, ErrInvalidStage
	}
	return s.startHand(t)
}

// startHand shuffles a fresh deck and deals six cards to each seat.
func (s *Service) startHand(t *domain.Table) ([]Event, error) {
	if !t.BothSeated() {
		return nil, ErrSeatsNotFilled
	}
	deck := domain.NewShuffledDeck(s.rng)
	var dealt [2][]domain.Card
	// Non-dealer is dealt first.
	for _, seat := range []domain.Seat{t.NonDealer(), t.Dealer} {
		cards, err := deck.Deal(domain.DealSize)
		if err != nil {
			return nil, fmt.Errorf("deal to seat %s: %w", seat, err)
		}
		dealt[seat] = cards
	}

	t.Deck = deck
	t.Hands = dealt
	t.ShowHands = [2]domain.FrozenHand{}
	t.PegHands = [2][]domain.Card{}
	t.Discards = [2][]domain.Card{}
	t.Crib = nil
	t.Cut = nil
	t.Show = nil
	t.LastScore = nil
	t.Peg = domain.NewPegState()
	t.Stage = domain.StageDiscard
	t.Turn = t.Dealer
	t.HandNumber++
	t.SetNotice("New hand. Dealer: %s.", t.Name(t.Dealer))

	events := make([]Event, 0, len(domain.Seats))
	for _, seat := range domain.Seats {
		info := t.Seats[seat]
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID:     info.UserID,
				Seat:       seat,
				Dealer:     t.Dealer,
				HandNumber: t.HandNumber,
				Hand:       append([]domain.Card(nil), dealt[seat]...),
			},
			Recipients: []string{info.UserID},
		})
	}
	return events, nil
}

// Discard sends two of the seat's cards to the dealer's crib. Once both seats have
// discarded the cut is revealed and pegging begins with the non-dealer.
func (s *Service) Discard(t *domain.Table, seat domain.Seat, cardIDs []string) ([]Event, error) {
	if t.Stage != domain.StageDiscard {
		return nil, ErrInvalidStage
	}
	if !seat.Valid() {
		return nil, ErrUnknownPlayer
	}
	if len(t.Discards[seat]) > 0 {
		return nil, fmt.Errorf("%w: seat %s already discarded", ErrInvalidCardSelection, seat)
	}
	if len(cardIDs) != domain.DiscardSize {
		return nil, fmt.Errorf("%w: need %d cards, got %d", ErrInvalidCardSelection, domain.DiscardSize, len(cardIDs))
	}
	if cardIDs[0] == cardIDs[1] {
		return nil, fmt.Errorf("%w: duplicate card %s", ErrInvalidCardSelection, cardIDs[0])
	}

	hand := t.Hands[seat]
	chosen := make([]domain.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		idx := domain.FindCard(hand, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s not in hand", ErrInvalidCardSelection, id)
		}
		chosen = append(chosen, hand[idx])
	}

	t.Hands[seat] = domain.RemoveCardsByID(hand, cardIDs...)
	t.Discards[seat] = chosen
	t.Crib = append(t.Crib, chosen...)
	t.SetNotice("%s discards 2 to %s's crib.", t.Name(seat), t.Name(t.Dealer))

	events := []Event{{
		Kind:    EventCardsDiscarded,
		Payload: CardsDiscardedPayload{Seat: seat, CribSize: len(t.Crib)},
	}}

	if len(t.Discards[domain.SeatA]) == domain.DiscardSize &&
		len(t.Discards[domain.SeatB]) == domain.DiscardSize &&
		len(t.Crib) == domain.CribSize {
		evs, err := s.enterPegging(t)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

func (s *Service) enterPegging(t *domain.Table) ([]Event, error) {
	cut, err := t.Deck.Deal(1)
	if err != nil {
		return nil, fmt.Errorf("reveal cut: %w", err)
	}
	for _, seat := range domain.Seats {
		frozen, ok := domain.FreezeHand(t.Hands[seat])
		if !ok {
			return nil, fmt.Errorf("seat %s holds %d cards after discard", seat, len(t.Hands[seat]))
		}
		t.ShowHands[seat] = frozen
		t.PegHands[seat] = frozen.Cards()
	}
	t.Cut = &cut[0]
	t.Peg = domain.NewPegState()
	t.Stage = domain.StagePegging
	t.Turn = t.NonDealer()
	t.SetNotice("Cut: %s. Pegging starts, %s leads.", t.Cut, t.Name(t.Turn))

	return []Event{{
		Kind:    EventPeggingStarted,
		Payload: PeggingStartedPayload{Cut: *t.Cut, Lead: t.Turn},
	}}, nil
}

// NextHand rotates the dealer and deals again after a show that did not end the game.
func (s *Service) NextHand(t *domain.Table) ([]Event, error) {
	if t.Stage != domain.StageShow || t.GameOver || t.MatchOver {
		return nil, ErrInvalidStage
	}
	if !t.BothSeated() {
		return nil, ErrSeatsNotFilled
	}
	t.Dealer = t.Dealer.Other()
	return s.startHand(t)
}

// NextGame clears the game score after a won game and deals the next game.
func (s *Service) NextGame(t *domain.Table) ([]Event, error) {
	if t.Stage != domain.StageGameOver || t.MatchOver {
		return nil, ErrInvalidStage
	}
	s.resetGame(t)
	t.SetNotice("New game. First to %d.", t.GameTarget)
	return s.dealIfSeated(t)
}

// NewMatch clears game and match tallies and starts over. It is valid in any stage.
func (s *Service) NewMatch(t *domain.Table) ([]Event, error) {
	s.resetGame(t)
	t.MatchWins = [2]int{}
	t.MatchOver = false
	t.MatchWinner = domain.SeatNone
	t.SetNotice("New match. First to %d games.", t.MatchTarget)
	return s.dealIfSeated(t)
}

func (s *Service) resetGame(t *domain.Table) {
	t.Scores = [2]int{}
	t.GameOver = false
	t.Winner = domain.SeatNone
	t.Show = nil
	t.LastScore = nil
	t.Dealer = t.Dealer.Other()
}

func (s *Service) dealIfSeated(t *domain.Table) ([]Event, error) {
	if !t.BothSeated() {
		t.Stage = domain.StageLobby
		t.Hands = [2][]domain.Card{}
		t.PegHands = [2][]domain.Card{}
		t.Discards = [2][]domain.Card{}
		t.Crib = nil
		t.Cut = nil
		t.Peg = domain.NewPegState()
		return nil, nil
	}
	return s.startHand(t)
}
