package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind tells which top-level JSON shape a response body had.
type PayloadKind int

const (
	// PayloadEmpty: no body, null, or an empty array.
	PayloadEmpty PayloadKind = iota
	// PayloadObject: a single resume resource.
	PayloadObject
	// PayloadArray: a list of resources.
	PayloadArray
)

// Payload is a decoded response body of either shape.
type Payload struct {
	Kind PayloadKind
	Docs []ResumeDoc
}

// DecodePayload decodes a body that may hold one resource or a list of them.
func DecodePayload(raw []byte) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Payload{Kind: PayloadEmpty}, nil
	}

	switch raw[0] {
	case '[':
		var docs []ResumeDoc
		if err := json.Unmarshal(raw, &docs); err != nil {
			return Payload{}, fmt.Errorf("wire: decoding resume list: %w", err)
		}
		if len(docs) == 0 {
			return Payload{Kind: PayloadEmpty}, nil
		}
		return Payload{Kind: PayloadArray, Docs: docs}, nil

	case '{':
		var doc ResumeDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Payload{}, fmt.Errorf("wire: decoding resume: %w", err)
		}
		return Payload{Kind: PayloadObject, Docs: []ResumeDoc{doc}}, nil
	}

	return Payload{}, fmt.Errorf("wire: unexpected payload starting with %q", raw[0])
}

// First returns the single resource of an object payload or the first
// element of an array payload. For single-resource endpoints the backend has
// answered with a one-element list; the rest of such a list is ignored.
func (p Payload) First() (*ResumeDoc, bool) {
	switch p.Kind {
	case PayloadObject, PayloadArray:
		return &p.Docs[0], true
	case PayloadEmpty:
		return nil, false
	}
	return nil, false
}
