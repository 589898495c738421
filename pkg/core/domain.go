// Package core holds the domain of the document client: documents, option
// sets, result shapes, errors and the session port the client talks through.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// System attribute names the server places at the top level of every document.
const (
	AttrID  = "_id"
	AttrKey = "_key"
	AttrRev = "_rev"
)

// DocumentHeader is the identifying triple of a stored document.
type DocumentHeader struct {
	// ID is the global identifier: collection name + "/" + key.
	ID string `json:"_id,omitempty"`
	// Key is unique within the collection and never changes once assigned.
	Key string `json:"_key,omitempty"`
	// Rev is the opaque revision token. Every mutation replaces it.
	Rev string `json:"_rev,omitempty"`
}

// IsZero reports whether none of the three attributes is set.
func (h DocumentHeader) IsZero() bool {
	return h.ID == "" && h.Key == "" && h.Rev == ""
}

// Document wraps a user payload together with its system attributes.
// On the wire the attributes sit next to the payload fields.
type Document[T any] struct {
	DocumentHeader
	Data T
}

// NewDocument wraps data in a document without system attributes; the
// server assigns key and revision on create.
func NewDocument[T any](data T) Document[T] {
	return Document[T]{Data: data}
}

// NewDocumentWithKey wraps data and pins the key the document is created under.
func NewDocumentWithKey[T any](key string, data T) Document[T] {
	return Document[T]{DocumentHeader: DocumentHeader{Key: key}, Data: data}
}

// MarshalJSON flattens the payload and the non-empty system attributes into
// one JSON object. Data must encode as an object (or null).
func (d Document[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("document payload %T must encode as a JSON object: %w", d.Data, err)
		}
	}

	for name, value := range map[string]string{AttrID: d.ID, AttrKey: d.Key, AttrRev: d.Rev} {
		if value == "" {
			continue
		}
		encoded, _ := json.Marshal(value)
		fields[name] = encoded
	}

	return json.Marshal(fields)
}

// UnmarshalJSON splits a flat document object into its system attributes and
// the payload. The attributes are removed before the rest is decoded into T.
func (d *Document[T]) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("document is null")
	}

	var header DocumentHeader
	for name, dst := range map[string]*string{AttrID: &header.ID, AttrKey: &header.Key, AttrRev: &header.Rev} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("system attribute %s: %w", name, err)
		}
		delete(fields, name)
	}

	rest, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	// Untyped payloads keep numbers as json.Number.
	dec := json.NewDecoder(bytes.NewReader(rest))
	dec.UseNumber()

	var data T
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("unmarshal into type %T: %w", data, err)
	}

	d.DocumentHeader = header
	d.Data = data
	return nil
}
