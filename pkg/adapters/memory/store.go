package memory

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/arangodoc/pkg/core"
)

// Server error numbers carried in the error envelope.
const (
	ErrNumInternal            = 4
	ErrNumBadParameter        = 10
	ErrNumCorruptedJSON       = 600
	ErrNumConflict            = 1200
	ErrNumDocumentNotFound    = 1202
	ErrNumUniqueConstraint    = 1210
	ErrNumDocumentKeyBad      = 1221
	ErrNumDocumentTypeInvalid = 1227
)

const maxKeyLength = 254

var validKey = regexp.MustCompile(`^[a-zA-Z0-9_\-:.@()+,=;$!*'%]+$`)

// Error is a failure the server reports with an error envelope.
type Error struct {
	Status   int
	ErrorNum int
	Message  string
	// Current is the stored document a revision conflict was checked against.
	Current map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d/%d: %s", e.Status, e.ErrorNum, e.Message)
}

func errNotFound() *Error {
	return &Error{Status: http.StatusNotFound, ErrorNum: ErrNumDocumentNotFound, Message: "document not found"}
}

func errConflict(current map[string]any) *Error {
	return &Error{Status: http.StatusPreconditionFailed, ErrorNum: ErrNumConflict, Message: "conflict, _rev values do not match", Current: current}
}

func errUnique() *Error {
	return &Error{Status: http.StatusConflict, ErrorNum: ErrNumUniqueConstraint, Message: "unique constraint violated - in index primary of type primary over '_key'"}
}

func errBadKey() *Error {
	return &Error{Status: http.StatusBadRequest, ErrorNum: ErrNumDocumentKeyBad, Message: "illegal document key"}
}

// Result describes the effect of a write.
type Result struct {
	Old map[string]any
	New map[string]any
	// Skipped is set when an insert left an existing document untouched.
	Skipped bool
}

// Condition restricts a write to a stored revision.
type Condition struct {
	// IfMatch is the revision from the If-Match header. It wins over the body.
	IfMatch string
	// CheckBodyRev compares a _rev in the body with the stored revision.
	CheckBodyRev bool
}

// Merge controls how a patch is applied.
type Merge struct {
	KeepNull     bool
	MergeObjects bool
}

// DefaultMerge is the server default for updates.
var DefaultMerge = Merge{KeepNull: true, MergeObjects: true}

type collectionID struct {
	db   string
	name string
}

// Store holds documents per database and collection.
// Collections are created on first insert. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[collectionID]map[string]map[string]any
	lastKey     uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[collectionID]map[string]map[string]any)}
}

// Count returns the number of documents in a collection.
func (s *Store) Count(db, collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collectionID{db, collection}])
}

// Get returns a copy of the stored document.
func (s *Store) Get(db, collection, key string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collectionID{db, collection}][key]
	if !ok {
		return nil, errNotFound()
	}
	return deepCopy(doc), nil
}

// Insert stores body as a new document. mode decides what happens when
// the key is taken; merge only applies to OverwriteUpdate.
func (s *Store) Insert(db, collection string, body map[string]any, mode core.OverwriteMode, merge Merge) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collectionID{db, collection}]
	if docs == nil {
		docs = make(map[string]map[string]any)
		s.collections[collectionID{db, collection}] = docs
	}

	key, err := s.keyFor(body, docs)
	if err != nil {
		return Result{}, err
	}

	existing, taken := docs[key]
	if !taken {
		doc := stamp(withoutSystem(body), collection, key)
		docs[key] = doc
		return Result{New: deepCopy(doc)}, nil
	}

	var doc map[string]any
	switch mode {
	case core.OverwriteIgnore:
		return Result{Skipped: true}, nil
	case core.OverwriteReplace:
		doc = withoutSystem(body)
	case core.OverwriteUpdate:
		doc = apply(withoutSystem(existing), withoutSystem(body), merge)
	default:
		return Result{}, errUnique()
	}

	doc = stamp(doc, collection, key)
	docs[key] = doc
	return Result{Old: deepCopy(existing), New: deepCopy(doc)}, nil
}

// Update merges patch into the stored document.
func (s *Store) Update(db, collection, key string, patch map[string]any, cond Condition, merge Merge) (Result, error) {
	return s.rewrite(db, collection, key, patch, cond, func(current map[string]any) map[string]any {
		return apply(withoutSystem(current), withoutSystem(patch), merge)
	})
}

// Replace swaps the stored document for body.
func (s *Store) Replace(db, collection, key string, body map[string]any, cond Condition) (Result, error) {
	return s.rewrite(db, collection, key, body, cond, func(map[string]any) map[string]any {
		return withoutSystem(body)
	})
}

// Remove deletes the stored document.
func (s *Store) Remove(db, collection, key string, cond Condition) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collectionID{db, collection}]
	current, ok := docs[key]
	if !ok {
		return Result{}, errNotFound()
	}
	if err := check(current, nil, cond); err != nil {
		return Result{}, err
	}
	delete(docs, key)
	return Result{Old: current}, nil
}

func (s *Store) rewrite(db, collection, key string, body map[string]any, cond Condition, next func(map[string]any) map[string]any) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collectionID{db, collection}]
	current, ok := docs[key]
	if !ok {
		return Result{}, errNotFound()
	}
	if err := check(current, body, cond); err != nil {
		return Result{}, err
	}

	doc := stamp(next(current), collection, key)
	docs[key] = doc
	return Result{Old: deepCopy(current), New: deepCopy(doc)}, nil
}

func (s *Store) keyFor(body map[string]any, docs map[string]map[string]any) (string, error) {
	if raw, ok := body[core.AttrKey]; ok {
		key, isString := raw.(string)
		if !isString || key == "" || len(key) > maxKeyLength || !validKey.MatchString(key) {
			return "", errBadKey()
		}
		return key, nil
	}
	for {
		s.lastKey++
		key := strconv.FormatUint(s.lastKey, 10)
		if _, taken := docs[key]; !taken {
			return key, nil
		}
	}
}

func check(current, body map[string]any, cond Condition) error {
	rev, _ := current[core.AttrRev].(string)
	if cond.IfMatch != "" {
		if cond.IfMatch != rev {
			return errConflict(header(current))
		}
		return nil
	}
	if cond.CheckBodyRev && body != nil {
		if want, ok := body[core.AttrRev].(string); ok && want != "" && want != rev {
			return errConflict(header(current))
		}
	}
	return nil
}

func stamp(doc map[string]any, collection, key string) map[string]any {
	doc[core.AttrKey] = key
	doc[core.AttrID] = collection + "/" + key
	doc[core.AttrRev] = newRevision()
	return doc
}

func newRevision() string {
	return "_" + uuid.NewString()
}

func header(doc map[string]any) map[string]any {
	h := make(map[string]any, 3)
	for _, attr := range []string{core.AttrID, core.AttrKey, core.AttrRev} {
		if v, ok := doc[attr]; ok {
			h[attr] = v
		}
	}
	return h
}

func withoutSystem(doc map[string]any) map[string]any {
	out := deepCopy(doc)
	delete(out, core.AttrID)
	delete(out, core.AttrKey)
	delete(out, core.AttrRev)
	return out
}

// apply merges patch into base. Nested objects merge recursively unless
// MergeObjects is off; nulls remove attributes when KeepNull is off.
func apply(base, patch map[string]any, m Merge) map[string]any {
	for k, v := range patch {
		if v == nil && !m.KeepNull {
			delete(base, k)
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			if m.MergeObjects {
				if cur, ok := base[k].(map[string]any); ok {
					base[k] = apply(cur, sub, m)
					continue
				}
			}
			if !m.KeepNull {
				base[k] = apply(map[string]any{}, sub, m)
				continue
			}
		}
		base[k] = v
	}
	return base
}

func deepCopy(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
