package domain

// Stage represents the lifecycle stage of a cribbage table.
type Stage string

const (
	// StageLobby is the pre-hand state where seats fill.
	StageLobby Stage = "lobby"
	// StageDiscard is the state where each seat sends two cards to the crib.
	StageDiscard Stage = "discard"
	// StagePegging is the card-by-card play phase.
	StagePegging Stage = "pegging"
	// StageShow is the end-of-hand counting phase.
	StageShow Stage = "show"
	// StageGameOver is reached when a seat pegs out.
	StageGameOver Stage = "game_over"
	// StageMatchOver is reached when a seat wins enough games.
	StageMatchOver Stage = "match_over"
)

// Seat identifies one of the two fixed seats at a table.
type Seat int8

const (
	SeatNone Seat = -1
	SeatA    Seat = 0
	SeatB    Seat = 1
)

// Seats lists both seats in index order.
var Seats = [2]Seat{SeatA, SeatB}

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case SeatA:
		return SeatB
	case SeatB:
		return SeatA
	}
	return SeatNone
}

// Valid reports whether s names a real seat.
func (s Seat) Valid() bool {
	return s == SeatA || s == SeatB
}

func (s Seat) String() string {
	switch s {
	case SeatA:
		return "A"
	case SeatB:
		return "B"
	}
	return "none"
}

// SeatInfo holds who occupies a seat.
type SeatInfo struct {
	UserID      string
	DisplayName string
	Connected   bool // false while the occupant is disconnected
	Scripted    bool // true for a scripted opponent
}

// Occupied reports whether anyone holds the seat.
func (si SeatInfo) Occupied() bool {
	return si.UserID != ""
}

// Present reports whether the seat can act: a connected human or a scripted opponent.
func (si SeatInfo) Present() bool {
	return si.Occupied() && (si.Connected || si.Scripted)
}

// MarshalText encodes the seat as "A", "B" or "none".
func (s Seat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Seat) UnmarshalText(b []byte) error {
	switch string(b) {
	case "A":
		*s = SeatA
	case "B":
		*s = SeatB
	default:
		*s = SeatNone
	}
	return nil
}
