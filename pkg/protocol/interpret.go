package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/arangodoc/pkg/core"
)

const (
	attrOldRev = "_oldRev"
	attrOld    = "old"
	attrNew    = "new"

	maxBodyInError = 256
)

// errorEnvelope is the body the server sends with every failure status.
type errorEnvelope struct {
	Error        bool   `json:"error"`
	Code         *int   `json:"code"`
	ErrorNum     *int   `json:"errorNum"`
	ErrorMessage string `json:"errorMessage"`
}

// CheckStatus classifies the status code. It returns nil for 2xx, a
// *core.ServerError for structured failures and ErrNotModified for 304.
func CheckStatus(resp *core.Response) error {
	switch {
	case resp == nil:
		return fmt.Errorf("%w: no response", core.ErrMalformedResponse)
	case resp.StatusCode >= http.StatusBadRequest:
		return decodeFailure(resp)
	case resp.StatusCode == http.StatusNotModified:
		return core.ErrNotModified
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return malformed(resp, "unexpected status")
	}
	return nil
}

func decodeFailure(resp *core.Response) error {
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return malformed(resp, "unparseable error body")
	}
	if env.Code == nil && env.ErrorNum == nil {
		return malformed(resp, "error body is not an error envelope")
	}

	serverErr := &core.ServerError{
		StatusCode: resp.StatusCode,
		Message:    env.ErrorMessage,
	}
	if env.Code != nil {
		serverErr.Code = *env.Code
	}
	if env.ErrorNum != nil {
		serverErr.ErrorNum = *env.ErrorNum
	}
	return serverErr
}

// DecodeWrite interprets the answer to create, update, replace or remove.
// With silent set the body is not looked at.
func DecodeWrite[T any](resp *core.Response, silent bool) (core.DocumentResponse[T], error) {
	if err := CheckStatus(resp); err != nil {
		return nil, err
	}
	if silent {
		return core.Silent[T]{}, nil
	}

	fields, err := decodeObject(resp)
	if err != nil {
		return nil, err
	}

	var out core.Verbose[T]

	header, err := decodeHeader(resp, fields)
	if err != nil {
		return nil, err
	}
	if !header.IsZero() {
		out.Header = &header
	}

	if raw, ok := fields[attrOldRev]; ok {
		if err := json.Unmarshal(raw, &out.OldRev); err != nil {
			return nil, malformed(resp, "_oldRev is not a string")
		}
	}

	if out.Old, err = decodeSnapshot[T](resp, fields, attrOld); err != nil {
		return nil, err
	}
	if out.New, err = decodeSnapshot[T](resp, fields, attrNew); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeDocument interprets the answer to a read.
func DecodeDocument[T any](resp *core.Response) (core.Document[T], error) {
	if err := CheckStatus(resp); err != nil {
		return core.Document[T]{}, err
	}
	if _, err := decodeObject(resp); err != nil {
		return core.Document[T]{}, err
	}

	var doc core.Document[T]
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return core.Document[T]{}, fmt.Errorf("%w: %w", core.ErrSerialization, err)
	}
	return doc, nil
}

// DecodeHeader interprets the answer to a read, keeping only the system attributes.
func DecodeHeader(resp *core.Response) (core.DocumentHeader, error) {
	if err := CheckStatus(resp); err != nil {
		return core.DocumentHeader{}, err
	}
	fields, err := decodeObject(resp)
	if err != nil {
		return core.DocumentHeader{}, err
	}
	return decodeHeader(resp, fields)
}

func decodeObject(resp *core.Response) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &fields); err != nil || fields == nil {
		return nil, malformed(resp, "body is not a JSON object")
	}
	return fields, nil
}

func decodeHeader(resp *core.Response, fields map[string]json.RawMessage) (core.DocumentHeader, error) {
	var h core.DocumentHeader
	for name, dst := range map[string]*string{core.AttrID: &h.ID, core.AttrKey: &h.Key, core.AttrRev: &h.Rev} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return core.DocumentHeader{}, malformed(resp, name+" is not a string")
		}
	}
	return h, nil
}

// decodeSnapshot decodes the old or new document. Absence (or null) means
// it was not requested.
func decodeSnapshot[T any](resp *core.Response, fields map[string]json.RawMessage, name string) (*core.Document[T], error) {
	raw, ok := fields[name]
	if !ok {
		return nil, nil
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, malformed(resp, fmt.Sprintf("%q is not a document", name))
	}

	var doc core.Document[T]
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", core.ErrSerialization, name, err)
	}
	return &doc, nil
}

func malformed(resp *core.Response, reason string) error {
	body := resp.Body
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return fmt.Errorf("%w: status %d: %s: %q", core.ErrMalformedResponse, resp.StatusCode, reason, body)
}
