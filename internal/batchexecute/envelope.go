package batchexecute

import (
	"encoding/json"
	"fmt"
)

// DefaultIndex is the index tag used when a Call does not set one.
const DefaultIndex = "generic"

// callTuple converts one Call to its wire shape: [id, json(args), null, index].
// The arguments are serialized to a JSON *string* here because the whole
// envelope is serialized again before transmission; the service expects the
// inner level to arrive double-encoded.
func callTuple(c Call) ([]any, error) {
	args, err := json.Marshal(c.Args)
	if err != nil {
		return nil, fmt.Errorf("batchexecute: marshal args for rpc %q: %w", c.ID, err)
	}
	index := c.Index
	if index == "" {
		index = DefaultIndex
	}
	return []any{c.ID, string(args), nil, index}, nil
}

// encodeEnvelope builds the f.req form value for an ordered batch of calls.
// The batch is wrapped as [[tuple, tuple, ...]] and serialized once more.
func encodeEnvelope(calls []Call) (string, error) {
	batch := make([]any, 0, len(calls))
	for _, c := range calls {
		tuple, err := callTuple(c)
		if err != nil {
			return "", err
		}
		batch = append(batch, tuple)
	}
	payload, err := json.Marshal([]any{batch})
	if err != nil {
		return "", fmt.Errorf("batchexecute: marshal envelope: %w", err)
	}
	return string(payload), nil
}
