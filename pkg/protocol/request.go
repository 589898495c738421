// Package protocol translates document operations to wire requests and wire
// responses back to typed results. It performs no I/O.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/aretw0/arangodoc/pkg/core"
)

// ErrMissingKey is returned when an operation on an existing document gets no key.
var ErrMissingKey = errors.New("document key is required")

const contentTypeJSON = "application/json"

// DocumentURL joins the collection's document base URL and a document key.
// An empty key yields the base itself with a trailing slash (the create target).
func DocumentURL(base, key string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid document base url %q: %w", base, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("document base url %q is not absolute", base)
	}

	escaped := strings.TrimSuffix(u.EscapedPath(), "/") + "/" + url.PathEscape(key)
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("invalid document path %q: %w", escaped, err)
	}
	u.Path = unescaped
	u.RawPath = escaped
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Query encodes an option struct into query parameters. Fields left at the
// server default are omitted.
func Query(opts any) (url.Values, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("encode options %T: %w", opts, err)
	}
	return v, nil
}

// EncodeBody serializes a payload for the wire.
func EncodeBody(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSerialization, err)
	}
	return body, nil
}

// CreateRequest builds POST <base>/?<query> carrying doc.
func CreateRequest(base string, doc any, opts core.InsertOptions) (*core.Request, error) {
	body, err := EncodeBody(doc)
	if err != nil {
		return nil, err
	}
	return newRequest(http.MethodPost, base, "", opts, body)
}

// ReadRequest builds GET <base>/<key> with the conditional header opts implies.
// It serves both full reads and header-only reads.
func ReadRequest(base, key string, opts core.ReadOptions) (*core.Request, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	req, err := newRequest(http.MethodGet, base, key, nil, nil)
	if err != nil {
		return nil, err
	}
	if name, value, ok := core.ConditionalHeader(opts); ok {
		req.Header.Set(name, value)
	}
	return req, nil
}

// UpdateRequest builds PATCH <base>/<key>?<query> carrying only the patch.
func UpdateRequest(base, key string, patch any, opts core.UpdateOptions) (*core.Request, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	body, err := EncodeBody(patch)
	if err != nil {
		return nil, err
	}
	return newRequest(http.MethodPatch, base, key, opts, body)
}

// ReplaceRequest builds PUT <base>/<key>?<query> carrying doc. A non-empty
// ifMatch is sent as If-Match; a _rev inside doc is left as it is.
func ReplaceRequest(base, key string, doc any, opts core.ReplaceOptions, ifMatch string) (*core.Request, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	body, err := EncodeBody(doc)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(http.MethodPut, base, key, opts, body)
	if err != nil {
		return nil, err
	}
	setIfMatch(req, ifMatch)
	return req, nil
}

// RemoveRequest builds DELETE <base>/<key>?<query>, with If-Match when ifMatch is set.
func RemoveRequest(base, key string, opts core.RemoveOptions, ifMatch string) (*core.Request, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	req, err := newRequest(http.MethodDelete, base, key, opts, nil)
	if err != nil {
		return nil, err
	}
	setIfMatch(req, ifMatch)
	return req, nil
}

func newRequest(method, base, key string, opts any, body []byte) (*core.Request, error) {
	target, err := DocumentURL(base, key)
	if err != nil {
		return nil, err
	}

	if opts != nil {
		values, err := Query(opts)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			target += "?" + values.Encode()
		}
	}

	header := make(http.Header)
	header.Set("Accept", contentTypeJSON)
	if body != nil {
		header.Set("Content-Type", contentTypeJSON)
	}

	return &core.Request{
		Method: method,
		URL:    target,
		Header: header,
		Body:   body,
	}, nil
}

func setIfMatch(req *core.Request, rev string) {
	if rev != "" {
		req.Header.Set(core.HeaderIfMatch, rev)
	}
}
