package app

import "cribbage/internal/domain"

// EventKind identifies emitted table events for Nakama dispatch.
type EventKind string

const (
	EventSeatTaken      EventKind = "seat_taken"
	EventSeatLeft       EventKind = "seat_left"
	EventNameChanged    EventKind = "name_changed"
	EventHandDealt      EventKind = "hand_dealt"
	EventCardsDiscarded EventKind = "cards_discarded"
	EventPeggingStarted EventKind = "pegging_started"
	EventCardPlayed     EventKind = "card_played"
	EventGoCalled       EventKind = "go_called"
	EventCountReset     EventKind = "count_reset"
	EventPointsScored   EventKind = "points_scored"
	EventShowScored     EventKind = "show_scored"
	EventGameEnded      EventKind = "game_ended"
	EventMatchEnded     EventKind = "match_ended"
)

// Event is a table event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type SeatTakenPayload struct {
	UserID   string      `json:"user_id"`
	Seat     domain.Seat `json:"seat"`
	Scripted bool        `json:"scripted"`
	Rejoined bool        `json:"rejoined"`
}

type SeatLeftPayload struct {
	UserID string      `json:"user_id"`
	Seat   domain.Seat `json:"seat"`
	// Freed is true when the seat was released rather than held for reconnection.
	Freed bool `json:"freed"`
}

type NameChangedPayload struct {
	Seat        domain.Seat `json:"seat"`
	DisplayName string      `json:"display_name"`
}

type HandDealtPayload struct {
	UserID     string        `json:"user_id"`
	Seat       domain.Seat   `json:"seat"`
	Dealer     domain.Seat   `json:"dealer"`
	HandNumber int           `json:"hand_number"`
	Hand       []domain.Card `json:"hand"`
}

type CardsDiscardedPayload struct {
	Seat     domain.Seat `json:"seat"`
	CribSize int         `json:"crib_size"`
}

type PeggingStartedPayload struct {
	Cut  domain.Card `json:"cut"`
	Lead domain.Seat `json:"lead"`
}

type CardPlayedPayload struct {
	Seat  domain.Seat `json:"seat"`
	Card  domain.Card `json:"card"`
	Count int         `json:"count"`
}

type GoCalledPayload struct {
	Seat domain.Seat `json:"seat"`
}

type CountResetPayload struct {
	Lead domain.Seat `json:"lead"`
}

type PointsScoredPayload struct {
	Seat    domain.Seat `json:"seat"`
	Points  int         `json:"points"`
	Reasons []string    `json:"reasons"`
	Score   int         `json:"score"`
}

type ShowScoredPayload struct {
	Show domain.Show `json:"show"`
}

type GameEndedPayload struct {
	Winner       domain.Seat `json:"winner"`
	WinnerUserID string      `json:"winner_user_id"`
	LoserUserID  string      `json:"loser_user_id"`
	Scores       [2]int      `json:"scores"`
	MatchWins    [2]int      `json:"match_wins"`
}

type MatchEndedPayload struct {
	Winner       domain.Seat `json:"winner"`
	WinnerUserID string      `json:"winner_user_id"`
	LoserUserID  string      `json:"loser_user_id"`
	MatchWins    [2]int      `json:"match_wins"`
}
