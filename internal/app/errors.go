package app

import (
	"errors"

	"cribbage/internal/domain"
)

var (
	ErrInvalidStage         = errors.New("action not valid in current stage")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrCardNotHeld          = errors.New("card not held")
	ErrInvalidCardSelection = errors.New("invalid card selection")
	ErrExceedsThirtyOne     = errors.New("play would exceed 31")
	ErrTableFull            = errors.New("table is full")
	ErrHasLegalPlay         = errors.New("cannot say go with a legal play")
	ErrSeatsNotFilled       = errors.New("both seats must be filled")
	ErrUnknownPlayer        = errors.New("player not seated")
)

// Rejection codes sent to clients.
const (
	CodeInvalidStage         = "invalid_stage"
	CodeNotYourTurn          = "not_your_turn"
	CodeCardNotHeld          = "card_not_held"
	CodeInvalidCardSelection = "invalid_card_selection"
	CodeExceedsThirtyOne     = "exceeds_thirty_one"
	CodeTableFull            = "table_full"
	CodeDeckExhausted        = "deck_exhausted"
	CodeHasLegalPlay         = "has_legal_play"
	CodeSeatsNotFilled       = "seats_not_filled"
	CodeUnknownPlayer        = "unknown_player"
	CodeInternal             = "internal"
)

var rejectionCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidStage, CodeInvalidStage},
	{ErrNotYourTurn, CodeNotYourTurn},
	{ErrCardNotHeld, CodeCardNotHeld},
	{ErrInvalidCardSelection, CodeInvalidCardSelection},
	{ErrExceedsThirtyOne, CodeExceedsThirtyOne},
	{ErrTableFull, CodeTableFull},
	{domain.ErrDeckExhausted, CodeDeckExhausted},
	{ErrHasLegalPlay, CodeHasLegalPlay},
	{ErrSeatsNotFilled, CodeSeatsNotFilled},
	{ErrUnknownPlayer, CodeUnknownPlayer},
}

// RejectionCode maps an action error to its stable wire code.
func RejectionCode(err error) string {
	for _, rc := range rejectionCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return CodeInternal
}
