// Package collection exposes the document operations of one collection.
package collection

import (
	"context"
	"fmt"

	"github.com/aretw0/arangodoc/pkg/core"
	"github.com/aretw0/arangodoc/pkg/protocol"
)

// Collection gives type-safe access to the documents of one collection.
// T is the payload type stored next to the system attributes.
//
// A Collection is immutable and holds no per-call state, so it may be used
// from any number of goroutines. Every operation performs exactly one round
// trip through the session and never retries.
type Collection[T any] struct {
	name    string
	baseURL string
	session core.Session
}

// New binds a collection to a session. baseURL is the collection's document
// endpoint, e.g. http://localhost:8529/_db/mydb/_api/document/users/.
func New[T any](session core.Session, name, baseURL string) (*Collection[T], error) {
	if session == nil {
		return nil, fmt.Errorf("collection %q: session is required", name)
	}
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if _, err := protocol.DocumentURL(baseURL, ""); err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, err)
	}
	return &Collection[T]{name: name, baseURL: baseURL, session: session}, nil
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// BaseURL returns the document endpoint of the collection.
func (c *Collection[T]) BaseURL() string {
	return c.baseURL
}

// DocumentID returns the global identifier a document with key has in this collection.
func (c *Collection[T]) DocumentID(key string) string {
	return c.name + "/" + key
}

// Create stores doc. If doc.Key is empty the server assigns one; _id and
// _rev in doc are ignored by the server. opts.OverwriteMode decides what
// happens when the key already exists.
func (c *Collection[T]) Create(ctx context.Context, doc core.Document[T], opts core.InsertOptions) (core.DocumentResponse[T], error) {
	req, err := protocol.CreateRequest(c.baseURL, doc, opts)
	if err != nil {
		return nil, c.wrap("create", doc.Key, err)
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, c.wrap("create", doc.Key, err)
	}
	out, err := protocol.DecodeWrite[T](resp, opts.Silent)
	if err != nil {
		return nil, c.wrap("create", doc.Key, err)
	}
	return out, nil
}

// Read fetches the document stored under key. With core.IfMatch a different
// stored revision fails with core.ErrPreconditionFailed; with
// core.IfNoneMatch an equal one fails with core.ErrNotModified.
func (c *Collection[T]) Read(ctx context.Context, key string, opts core.ReadOptions) (core.Document[T], error) {
	req, err := protocol.ReadRequest(c.baseURL, key, opts)
	if err != nil {
		return core.Document[T]{}, c.wrap("read", key, err)
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return core.Document[T]{}, c.wrap("read", key, err)
	}
	doc, err := protocol.DecodeDocument[T](resp)
	if err != nil {
		return core.Document[T]{}, c.wrap("read", key, err)
	}
	return doc, nil
}

// ReadHeader fetches only the system attributes of the document stored
// under key. It accepts the same conditions as Read. Use it to learn the
// current revision or to check that a document exists.
func (c *Collection[T]) ReadHeader(ctx context.Context, key string, opts core.ReadOptions) (core.DocumentHeader, error) {
	req, err := protocol.ReadRequest(c.baseURL, key, opts)
	if err != nil {
		return core.DocumentHeader{}, c.wrap("read header", key, err)
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return core.DocumentHeader{}, c.wrap("read header", key, err)
	}
	h, err := protocol.DecodeHeader(resp)
	if err != nil {
		return core.DocumentHeader{}, c.wrap("read header", key, err)
	}
	return h, nil
}

// Update merges patch into the document stored under key. Only patch is
// sent; it may be any value that encodes as a JSON object. With
// opts.IgnoreRevs set to core.ToggleOff a _rev inside patch must match the
// stored revision.
func (c *Collection[T]) Update(ctx context.Context, key string, patch any, opts core.UpdateOptions) (core.DocumentResponse[T], error) {
	req, err := protocol.UpdateRequest(c.baseURL, key, patch, opts)
	if err != nil {
		return nil, c.wrap("update", key, err)
	}
	return c.write(ctx, "update", key, req, opts.Silent)
}

// Replace overwrites the document stored under key with doc.
//
// A non-empty ifMatch is sent as If-Match and the write fails with
// core.ErrPreconditionFailed unless it equals the stored revision. A _rev
// inside doc is sent as it is and only checked when opts.IgnoreRevs is
// core.ToggleOff. When both are present the server honours the header.
func (c *Collection[T]) Replace(ctx context.Context, key string, doc core.Document[T], opts core.ReplaceOptions, ifMatch string) (core.DocumentResponse[T], error) {
	req, err := protocol.ReplaceRequest(c.baseURL, key, doc, opts, ifMatch)
	if err != nil {
		return nil, c.wrap("replace", key, err)
	}
	return c.write(ctx, "replace", key, req, opts.Silent)
}

// Remove deletes the document stored under key. A non-empty ifMatch makes
// the removal conditional on the stored revision. Removing a missing
// document fails with core.ErrNotFound.
func (c *Collection[T]) Remove(ctx context.Context, key string, opts core.RemoveOptions, ifMatch string) (core.DocumentResponse[T], error) {
	req, err := protocol.RemoveRequest(c.baseURL, key, opts, ifMatch)
	if err != nil {
		return nil, c.wrap("remove", key, err)
	}
	return c.write(ctx, "remove", key, req, opts.Silent)
}

func (c *Collection[T]) write(ctx context.Context, op, key string, req *core.Request, silent bool) (core.DocumentResponse[T], error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, c.wrap(op, key, err)
	}
	out, err := protocol.DecodeWrite[T](resp, silent)
	if err != nil {
		return nil, c.wrap(op, key, err)
	}
	return out, nil
}

// do performs the round trip. Session failures always surface as
// core.ErrCanceled or core.ErrTransport.
func (c *Collection[T]) do(ctx context.Context, req *core.Request) (*core.Response, error) {
	resp, err := c.session.Do(ctx, req)
	if err != nil {
		return nil, core.TransportError(ctx, err)
	}
	return resp, nil
}

func (c *Collection[T]) wrap(op, key string, err error) error {
	if key == "" {
		return fmt.Errorf("%s %s: %w", op, c.name, err)
	}
	return fmt.Errorf("%s %s: %w", op, c.DocumentID(key), err)
}
