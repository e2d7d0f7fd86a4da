package nakama

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cribbage/internal/app"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// payloadFormat selects how a presence exchanges match data.
type payloadFormat int

const (
	formatJSON payloadFormat = iota
	// formatProto carries the same document as a binary google.protobuf.Struct.
	formatProto
)

func parseFormat(s string) payloadFormat {
	if strings.EqualFold(strings.TrimSpace(s), "proto") {
		return formatProto
	}
	return formatJSON
}

func (f payloadFormat) String() string {
	if f == formatProto {
		return "proto"
	}
	return "json"
}

// Adapter-level rejections that do not come from the table state machine.
var (
	errBadPayload    = errors.New("malformed payload")
	errBotsDisabled  = errors.New("scripted opponents are disabled")
	errUnknownOpCode = errors.New("unknown op code")
)

const (
	codeBadPayload    = "bad_payload"
	codeBotsDisabled  = "bots_disabled"
	codeUnknownOpCode = "unknown_op_code"
)

// rejectionCode maps adapter errors first, then table errors.
func rejectionCode(err error) string {
	switch {
	case errors.Is(err, errBadPayload):
		return codeBadPayload
	case errors.Is(err, errBotsDisabled):
		return codeBotsDisabled
	case errors.Is(err, errUnknownOpCode):
		return codeUnknownOpCode
	}
	return app.RejectionCode(err)
}

type discardRequest struct {
	CardIDs []string `json:"card_ids"`
}

type playRequest struct {
	CardID string `json:"card_id"`
}

type addOpponentRequest struct {
	Strategy string `json:"strategy"`
}

type setNameRequest struct {
	DisplayName string `json:"display_name"`
}

// Rejection is sent privately to the sender of a refused action.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// encodePayload renders v as JSON, or as a binary Struct holding the same JSON document.
func encodePayload(v any, format payloadFormat) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if format != formatProto {
		return data, nil
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to convert payload to struct: %w", err)
	}
	out, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal struct: %w", err)
	}
	return out, nil
}

// decodePayload fills v from a client message. An empty payload leaves v untouched.
func decodePayload(data []byte, format payloadFormat, v any) error {
	if len(data) == 0 {
		return nil
	}
	if format == formatProto {
		st := &structpb.Struct{}
		if err := proto.Unmarshal(data, st); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		converted, err := protojson.Marshal(st)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		data = converted
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}
