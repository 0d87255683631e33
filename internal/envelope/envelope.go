// Package envelope implements the wire document exchanged with the central
// database routine: a JSON object carrying the query name and its parameters.
package envelope

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Envelope is the document passed to the central routine as its single input
// parameter. The routine dispatches on QueryName and binds Params to the
// registered statement.
type Envelope struct {
	QueryName string                 `json:"queryName"`
	Params    map[string]interface{} `json:"params"`
}

// Encode serializes a query name and parameter set into the canonical JSON
// form. Both fields are always emitted: a nil parameter set encodes as an
// empty object, never as null or a missing key. The query name is treated as
// opaque and is never validated.
func Encode(queryName string, params map[string]interface{}) (string, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	data, err := json.Marshal(Envelope{QueryName: queryName, Params: params})
	if err != nil {
		return "", errors.Wrapf(err, "encode envelope for query %q", queryName)
	}
	return string(data), nil
}

// Decode parses an encoded envelope. It is the inverse of Encode and is used
// by in-process routine implementations and round-trip tests; the core
// library itself only produces envelopes.
func Decode(data string) (*Envelope, error) {
	e := &Envelope{}
	if err := json.Unmarshal([]byte(data), e); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if e.Params == nil {
		e.Params = map[string]interface{}{}
	}
	return e, nil
}
