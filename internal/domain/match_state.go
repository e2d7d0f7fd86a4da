package domain

import "fmt"

// ScoreEvent records the most recent points pegged at the table.
type ScoreEvent struct {
	Seat    Seat     `json:"seat"`
	Points  int      `json:"points"`
	Reasons []string `json:"reasons"`
}

// Table is the aggregate root for one cribbage table. Only the table state machine mutates it.
type Table struct {
	ID      string
	Private bool

	Seats [2]SeatInfo

	Stage  Stage
	Dealer Seat
	Turn   Seat // meaningful only while pegging

	Deck *Deck
	Cut  *Card
	Crib []Card

	// Hands holds the dealt cards during discard (6 shrinking to 4).
	Hands [2][]Card
	// ShowHands is frozen when pegging starts and counted at the show.
	ShowHands [2]FrozenHand
	// PegHands is consumed during pegging.
	PegHands [2][]Card
	Discards [2][]Card

	Peg PegState

	Scores      [2]int
	MatchWins   [2]int
	GameTarget  int
	MatchTarget int

	GameOver    bool
	MatchOver   bool
	Winner      Seat
	MatchWinner Seat

	Show       *Show
	LastScore  *ScoreEvent
	HandNumber int

	Notice    string
	NoticeSeq int
	Log       []string
}

// NewTable returns an empty lobby table.
func NewTable(id string, gameTarget, matchTarget int) *Table {
	if gameTarget <= 0 {
		gameTarget = DefaultGameTarget
	}
	if matchTarget <= 0 {
		matchTarget = DefaultMatchTarget
	}
	return &Table{
		ID:          id,
		Stage:       StageLobby,
		Dealer:      SeatA,
		Turn:        SeatA,
		Peg:         NewPegState(),
		GameTarget:  gameTarget,
		MatchTarget: matchTarget,
		Winner:      SeatNone,
		MatchWinner: SeatNone,
	}
}

// SeatOf returns the seat held by userID, or SeatNone.
func (t *Table) SeatOf(userID string) Seat {
	if userID == "" {
		return SeatNone
	}
	for _, s := range Seats {
		if t.Seats[s].UserID == userID {
			return s
		}
	}
	return SeatNone
}

// BothSeated reports whether both seats are occupied.
func (t *Table) BothSeated() bool {
	return t.Seats[SeatA].Occupied() && t.Seats[SeatB].Occupied()
}

// NonDealer returns the seat opposite the dealer.
func (t *Table) NonDealer() Seat {
	return t.Dealer.Other()
}

// Name returns the display name for seat with a positional fallback.
func (t *Table) Name(s Seat) string {
	if !s.Valid() {
		return "nobody"
	}
	if n := t.Seats[s].DisplayName; n != "" {
		return n
	}
	return "Seat " + s.String()
}

// PeggingDone reports whether both pegging hands are empty.
func (t *Table) PeggingDone() bool {
	return len(t.PegHands[SeatA]) == 0 && len(t.PegHands[SeatB]) == 0
}

// SetNotice records a user-visible notice and appends it to the bounded log.
func (t *Table) SetNotice(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.Notice = msg
	t.NoticeSeq++
	t.Log = append(t.Log, msg)
	if len(t.Log) > maxLogLines {
		t.Log = append([]string(nil), t.Log[len(t.Log)-maxLogLines:]...)
	}
}
