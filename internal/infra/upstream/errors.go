package upstream

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The backend reports errors as {"detail": ...} where detail is one of a
// closed set of shapes. Each body is classified into exactly one variant
// before a message is produced, so every shape is handled deliberately
// rather than duck-typed.

type errKind int

const (
	errUnparseable errKind = iota // body is not JSON, or detail is absent
	errMessage                    // detail is a plain string
	errFields                     // detail is a list of field validation errors
	errOpaque                     // detail is some other JSON value
)

// fieldError mirrors one entry of a FastAPI-style validation error list.
// Loc elements may be strings or integers (array indices).
type fieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

type errBody struct {
	kind   errKind
	detail string       // errMessage: the string; errOpaque: detail re-serialized verbatim
	fields []fieldError // errFields only
}

// classifyErrorBody parses a non-2xx response body into its variant.
func classifyErrorBody(raw []byte) errBody {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return errBody{kind: errUnparseable}
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return errBody{kind: errMessage, detail: s}
	}

	var fields []fieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		return errBody{kind: errFields, fields: fields}
	}

	return errBody{kind: errOpaque, detail: string(envelope.Detail)}
}

// normalizeErrorBody flattens an error body into one human-readable
// message. Field errors become "path.to.field: message" joined with
// commas; an unparseable body falls back to the generic per-operation
// message.
func normalizeErrorBody(op string, raw []byte) string {
	body := classifyErrorBody(raw)
	switch body.kind {
	case errMessage:
		return body.detail
	case errFields:
		parts := make([]string, 0, len(body.fields))
		for _, fe := range body.fields {
			parts = append(parts, fe.String())
		}
		return strings.Join(parts, ", ")
	case errOpaque:
		return body.detail
	default:
		return genericMessage(op)
	}
}

// String renders one field error as "loc.joined.with.dots: msg", falling
// back to the error type when msg is empty.
func (fe fieldError) String() string {
	locs := make([]string, 0, len(fe.Loc))
	for _, l := range fe.Loc {
		switch v := l.(type) {
		case string:
			locs = append(locs, v)
		case float64:
			locs = append(locs, fmt.Sprintf("%d", int(v)))
		default:
			locs = append(locs, fmt.Sprint(v))
		}
	}
	msg := fe.Msg
	if msg == "" {
		msg = fe.Type
	}
	return strings.Join(locs, ".") + ": " + msg
}
