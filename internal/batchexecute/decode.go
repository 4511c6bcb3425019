package batchexecute

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// antiHijackPrefix is prepended by the service so the body cannot be
	// evaluated as a script directly. It must be stripped before parsing.
	antiHijackPrefix = ")]}'"

	// fragmentTag marks a tuple as a complete response fragment. Tuples with
	// any other tag are partial or progress records and are dropped.
	fragmentTag = "wrb.fr"

	// tupleMinFields is the minimum positional width of a usable tuple:
	// tag, id, payload, three opaque fields, index.
	tupleMinFields = 7
)

// tuple wraps one positional, loosely typed wire record and gives it
// bounds-checked accessors.
type tuple []any

func (t tuple) at(i int) (any, bool) {
	if i < 0 || i >= len(t) {
		return nil, false
	}
	return t[i], true
}

func (t tuple) str(i int) (string, bool) {
	v, ok := t.at(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// parseLoose parses raw as JSON, retrying once with raw treated as an escaped
// JSON string literal whose unescaped value is then parsed. The retry recovers
// the double-encoded payloads this protocol produces. ok reports whether
// either stage yielded a value.
func parseLoose(raw string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, true
	}
	var unescaped string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &unescaped); err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(unescaped), &v); err != nil {
		return nil, false
	}
	return v, true
}

func stripPrefix(body string) string {
	return strings.TrimSpace(strings.TrimLeft(body, antiHijackPrefix))
}

// DecodeChunked decodes the compact (rt=c) response format: alternating lines
// of a decimal chunk length and a JSON array of response tuples. A malformed
// length line is fatal; a malformed chunk line is skipped so one bad chunk
// cannot poison the rest of the stream.
func DecodeChunked(body string) ([]ResponseRecord, error) {
	raw := stripPrefix(body)
	if raw == "" {
		return nil, fmt.Errorf("batchexecute: empty body after prefix strip: %w", ErrEmptyResponse)
	}

	var records []ResponseRecord
	lines := strings.Split(raw, "\n")
	for i := 0; i < len(lines); {
		length := strings.TrimSpace(lines[i])
		i++
		if length == "" {
			// Keep-alive padding between chunks.
			continue
		}
		if _, err := strconv.Atoi(length); err != nil {
			return nil, &FramingError{Line: i, Reason: "invalid chunk length", Snippet: snippet(length)}
		}
		if i >= len(lines) {
			return nil, &FramingError{Line: i, Reason: "chunk length without chunk body"}
		}
		chunk := lines[i]
		i++

		parsed, ok := parseLoose(chunk)
		if !ok {
			continue
		}
		batch, ok := parsed.([]any)
		if !ok {
			continue
		}
		for _, raw := range batch {
			if rec, ok := recordFromTuple(raw, true); ok {
				records = append(records, rec)
			}
		}
	}

	if len(records) == 0 {
		return nil, ErrEmptyResponse
	}
	return records, nil
}

// DecodePlain decodes the non-chunked format: the stripped body is one JSON
// array of response tuples. Payloads are passed through untouched since they
// are not expected to be double-encoded in this mode.
func DecodePlain(body string) ([]ResponseRecord, error) {
	raw := stripPrefix(body)
	if raw == "" {
		return nil, fmt.Errorf("batchexecute: empty body after prefix strip: %w", ErrEmptyResponse)
	}

	var batch []any
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, fmt.Errorf("batchexecute: invalid response body: %w", err)
	}

	var records []ResponseRecord
	for _, raw := range batch {
		if rec, ok := recordFromTuple(raw, false); ok {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyResponse
	}
	return records, nil
}

// recordFromTuple extracts one ResponseRecord from a raw wire value. ok is
// false for tuples that are too short or carry a tag other than wrb.fr; those
// are dropped without aborting the stream. When canonical is set, string
// payloads are re-parsed and re-serialized so callers always receive a JSON
// string they can parse again (or the untouched raw string on total failure).
func recordFromTuple(v any, canonical bool) (ResponseRecord, bool) {
	t, ok := v.([]any)
	if !ok || len(t) < tupleMinFields {
		return ResponseRecord{}, false
	}
	wire := tuple(t)

	tag, ok := wire.str(0)
	if !ok || tag != fragmentTag {
		return ResponseRecord{}, false
	}

	id, _ := wire.str(1)
	rec := ResponseRecord{ID: id}

	payload, _ := wire.at(2)
	switch data := payload.(type) {
	case nil:
	case string:
		if !canonical {
			rec.Data = data
			break
		}
		parsed, ok := parseLoose(data)
		if !ok {
			rec.Data = data
			break
		}
		encoded, err := json.Marshal(parsed)
		if err != nil {
			rec.Data = data
			break
		}
		rec.Data = string(encoded)
	default:
		if !canonical {
			rec.Data = data
		}
	}

	// Fields 3-5 are undocumented upstream and intentionally ignored.
	if index, ok := wire.str(6); ok && index != DefaultIndex {
		if n, err := strconv.Atoi(index); err == nil {
			rec.Index = n
		}
	}
	return rec, true
}

func snippet(s string) string {
	const max = 48
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
