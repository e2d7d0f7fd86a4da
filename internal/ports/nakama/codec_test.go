package nakama

import (
	"errors"
	"testing"

	"cribbage/internal/app"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want payloadFormat
	}{
		{in: "", want: formatJSON},
		{in: "json", want: formatJSON},
		{in: " PROTO ", want: formatProto},
		{in: "xml", want: formatJSON},
	}
	for _, test := range tests {
		if got := parseFormat(test.in); got != test.want {
			t.Errorf("parseFormat(%q) = %s, want %s", test.in, got, test.want)
		}
	}
}

func TestEncodePayload_ProtoCarriesSameDocument(t *testing.T) {
	data, err := encodePayload(Rejection{Code: app.CodeNotYourTurn, Message: "not your turn"}, formatProto)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		t.Fatalf("proto.Unmarshal: %v", err)
	}
	if got := st.GetFields()["code"].GetStringValue(); got != app.CodeNotYourTurn {
		t.Fatalf("code = %q", got)
	}
}

func TestDecodePayload(t *testing.T) {
	protoDiscard, err := structpb.NewStruct(map[string]interface{}{"card_ids": []interface{}{"c1", "c2"}})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	protoData, err := proto.Marshal(protoDiscard)
	if err != nil {
		t.Fatalf("proto.Marshal: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		format  payloadFormat
		want    int
		wantErr bool
	}{
		{name: "JSON", data: []byte(`{"card_ids":["c1","c2"]}`), format: formatJSON, want: 2},
		{name: "Proto", data: protoData, format: formatProto, want: 2},
		{name: "Empty", data: nil, format: formatJSON, want: 0},
		{name: "BadJSON", data: []byte(`[`), format: formatJSON, wantErr: true},
		{name: "BadProto", data: []byte{0xff, 0xff}, format: formatProto, wantErr: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var req discardRequest
			err := decodePayload(test.data, test.format, &req)
			if test.wantErr {
				if !errors.Is(err, errBadPayload) {
					t.Fatalf("err = %v, want errBadPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodePayload: %v", err)
			}
			if len(req.CardIDs) != test.want {
				t.Fatalf("card ids = %v", req.CardIDs)
			}
		})
	}
}

func TestRejectionCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: errBadPayload, want: codeBadPayload},
		{err: errBotsDisabled, want: codeBotsDisabled},
		{err: errUnknownOpCode, want: codeUnknownOpCode},
		{err: app.ErrTableFull, want: app.CodeTableFull},
		{err: errors.New("boom"), want: app.CodeInternal},
	}
	for _, test := range tests {
		if got := rejectionCode(test.err); got != test.want {
			t.Errorf("rejectionCode(%v) = %q, want %q", test.err, got, test.want)
		}
	}
}
