package core

// Conditional request header names.
const (
	HeaderIfMatch     = "If-Match"
	HeaderIfNoneMatch = "If-None-Match"
)

// ReadOptions makes a read conditional on the stored revision.
// It is one of IfMatch or IfNoneMatch; nil means an unconditional read.
type ReadOptions interface {
	conditionalHeader() (name, value string)
}

// IfMatch succeeds only when the stored revision equals the value.
// A mismatch fails with ErrPreconditionFailed.
type IfMatch string

// IfNoneMatch succeeds only when the stored revision differs from the value.
// A match fails with ErrNotModified.
type IfNoneMatch string

func (r IfMatch) conditionalHeader() (string, string)     { return HeaderIfMatch, string(r) }
func (r IfNoneMatch) conditionalHeader() (string, string) { return HeaderIfNoneMatch, string(r) }

// ConditionalHeader resolves read options into the single header they imply.
// The revision is passed through verbatim.
func ConditionalHeader(opts ReadOptions) (name, value string, ok bool) {
	if opts == nil {
		return "", "", false
	}
	name, value = opts.conditionalHeader()
	return name, value, true
}
