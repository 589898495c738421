package core

// DocumentResponse is the result of a write. It is either Silent or Verbose;
// callers switch on the concrete type:
//
//	switch r := resp.(type) {
//	case core.Silent[T]:
//	case core.Verbose[T]:
//		_ = r.Header
//	}
type DocumentResponse[T any] interface {
	// IsSilent reports whether the caller asked for no response body.
	IsSilent() bool
	sealed()
}

// Silent acknowledges a write performed with the silent option. It carries no data.
type Silent[T any] struct{}

func (Silent[T]) IsSilent() bool { return true }
func (Silent[T]) sealed()        {}

// Verbose carries what the server reported about a write. Every field is
// optional: Old and New are present only when requested, and Header is nil
// when the write was a no-op (create with OverwriteIgnore on an existing key).
type Verbose[T any] struct {
	Header *DocumentHeader
	// OldRev is the revision the write replaced, when the server reports it.
	OldRev string
	Old    *Document[T]
	New    *Document[T]
}

func (Verbose[T]) IsSilent() bool { return false }
func (Verbose[T]) sealed()        {}

var (
	_ DocumentResponse[any] = Silent[any]{}
	_ DocumentResponse[any] = Verbose[any]{}
)
