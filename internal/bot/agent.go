package bot

import (
	"errors"
	"fmt"
	"io"

	"cribbage/internal/app"
	"cribbage/internal/bot/brain"
	"cribbage/internal/domain"
)

// ActionKind is the table operation an agent wants to perform.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionDiscard
	ActionPlay
	ActionGo
)

// Action is an agent decision ready to be applied through app.Service.
type Action struct {
	Kind    ActionKind
	CardIDs []string
	// Fallback is set when the strategy failed and the greedy choice was used instead.
	Fallback error
}

// Apply performs the action for seat through svc.
func (a Action) Apply(svc *app.Service, t *domain.Table, seat domain.Seat) ([]app.Event, error) {
	switch a.Kind {
	case ActionDiscard:
		return svc.Discard(t, seat, a.CardIDs)
	case ActionPlay:
		if len(a.CardIDs) != 1 {
			return nil, app.ErrInvalidCardSelection
		}
		return svc.Play(t, seat, a.CardIDs[0])
	case ActionGo:
		return svc.Go(t, seat)
	}
	return nil, nil
}

var errIllegalChoice = errors.New("strategy chose an illegal move")

// Agent represents a scripted opponent seated at a table.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
	memory   *brain.HandMemory
	fallback GreedyBot
}

// NewAgent builds an agent with an empty hand memory.
func NewAgent(id, name string, strategy Brain) *Agent {
	if strategy == nil {
		strategy = &GreedyBot{}
	}
	return &Agent{ID: id, Name: name, Strategy: strategy, memory: brain.NewMemory()}
}

// ShouldAct reports whether the agent owes the table a discard or a pegging action.
func (a *Agent) ShouldAct(t *domain.Table) bool {
	seat := t.SeatOf(a.ID)
	if seat == domain.SeatNone || t.GameOver {
		return false
	}
	switch t.Stage {
	case domain.StageDiscard:
		return len(t.Discards[seat]) == 0 && len(t.Hands[seat]) == domain.DealSize
	case domain.StagePegging:
		return t.Turn == seat && len(t.PegHands[seat]) > 0
	}
	return false
}

// Decide returns the agent's next action at t, or ActionNone when it has nothing to do.
func (a *Agent) Decide(t *domain.Table) Action {
	if !a.ShouldAct(t) {
		return Action{}
	}
	seat := t.SeatOf(a.ID)
	a.memory.Sync(t.HandNumber)

	if t.Stage == domain.StageDiscard {
		return a.decideDiscard(a.view(t, seat, t.Hands[seat]))
	}
	return a.decidePlay(a.view(t, seat, t.PegHands[seat]))
}

func (a *Agent) decideDiscard(v View) Action {
	cards, err := a.Strategy.ChooseDiscard(v)
	if err == nil && !validDiscard(v.Hand, cards) {
		err = fmt.Errorf("%w: discard %v", errIllegalChoice, cards)
	}
	if err != nil {
		cards, _ = a.fallback.ChooseDiscard(v)
	}
	return Action{Kind: ActionDiscard, CardIDs: cardIDs(cards), Fallback: err}
}

func (a *Agent) decidePlay(v View) Action {
	if !domain.CanPlayAny(v.Hand, v.Count) {
		return Action{Kind: ActionGo}
	}
	move, err := a.Strategy.ChoosePlay(v)
	if err == nil && (move.Go || domain.FindCard(v.Hand, move.Card.ID) < 0 || !domain.CanPlay(move.Card, v.Count)) {
		err = fmt.Errorf("%w: play %+v at count %d", errIllegalChoice, move, v.Count)
	}
	if err != nil {
		move, _ = a.fallback.ChoosePlay(v)
	}
	return Action{Kind: ActionPlay, CardIDs: []string{move.Card.ID}, Fallback: err}
}

// view builds the strategy input from public table state and the seat's own cards.
func (a *Agent) view(t *domain.Table, seat domain.Seat, hand []domain.Card) View {
	a.memory.MarkMine(t.Hands[seat])
	a.memory.MarkMine(t.Discards[seat])
	a.memory.MarkPlayed(t.Peg.Pile)
	if t.Cut != nil {
		a.memory.MarkCut(*t.Cut)
	}

	opp := seat.Other()
	opponentCards := len(t.PegHands[opp])
	if t.Stage == domain.StageDiscard {
		opponentCards = len(t.Hands[opp])
	}
	v := View{
		Seat:          seat,
		Dealer:        t.Dealer == seat,
		Hand:          append([]domain.Card(nil), hand...),
		Count:         t.Peg.Count,
		Pile:          append([]domain.Card(nil), t.Peg.Pile...),
		Unseen:        a.memory.Unseen(),
		OpponentCards: opponentCards,
		MyScore:       t.Scores[seat],
		OpponentScore: t.Scores[opp],
		GameTarget:    t.GameTarget,
	}
	if t.Cut != nil {
		cut := *t.Cut
		v.Cut = &cut
	}
	return v
}

// OnGameEvent notifies the agent of a table event so that cards pegged between its
// turns are remembered after the pile resets.
func (a *Agent) OnGameEvent(ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.HandDealtPayload:
		a.memory.Sync(p.HandNumber)
	case app.CardPlayedPayload:
		a.memory.MarkPlayed([]domain.Card{p.Card})
	}
}

// Close releases strategy resources.
func (a *Agent) Close() error {
	if c, ok := a.Strategy.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func validDiscard(hand, cards []domain.Card) bool {
	if len(cards) != domain.DiscardSize || cards[0].ID == cards[1].ID {
		return false
	}
	for _, c := range cards {
		if domain.FindCard(hand, c.ID) < 0 {
			return false
		}
	}
	return true
}

func cardIDs(cards []domain.Card) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}
