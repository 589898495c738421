package core

import (
	"fmt"
	"net/url"
)

// OverwriteMode decides what a create does when the key already exists.
type OverwriteMode int

const (
	// OverwriteConflict fails the create with a unique constraint error. Server default.
	OverwriteConflict OverwriteMode = iota
	// OverwriteIgnore leaves the stored document untouched and reports nothing.
	OverwriteIgnore
	// OverwriteReplace replaces the stored document with the new one.
	OverwriteReplace
	// OverwriteUpdate merges the new document into the stored one.
	OverwriteUpdate
)

func (m OverwriteMode) String() string {
	switch m {
	case OverwriteConflict:
		return "conflict"
	case OverwriteIgnore:
		return "ignore"
	case OverwriteReplace:
		return "replace"
	case OverwriteUpdate:
		return "update"
	default:
		return fmt.Sprintf("OverwriteMode(%d)", int(m))
	}
}

// ParseOverwriteMode maps the wire name of a mode back to its value.
func ParseOverwriteMode(s string) (OverwriteMode, error) {
	switch s {
	case "", "conflict":
		return OverwriteConflict, nil
	case "ignore":
		return OverwriteIgnore, nil
	case "replace":
		return OverwriteReplace, nil
	case "update":
		return OverwriteUpdate, nil
	}
	return OverwriteConflict, fmt.Errorf("unknown overwrite mode %q", s)
}

// EncodeValues implements query.Encoder. The default mode is never sent.
func (m OverwriteMode) EncodeValues(key string, v *url.Values) error {
	switch m {
	case OverwriteConflict:
		return nil
	case OverwriteIgnore, OverwriteReplace, OverwriteUpdate:
		v.Set(key, m.String())
		return nil
	}
	return fmt.Errorf("invalid overwrite mode %d", int(m))
}

// Toggle is a flag whose server default is true. The zero value keeps the
// server default; only ToggleOff changes behaviour and reaches the wire.
type Toggle int8

const (
	ToggleDefault Toggle = iota
	ToggleOn
	ToggleOff
)

// Enabled reports the effective value of the flag.
func (t Toggle) Enabled() bool {
	return t != ToggleOff
}

// EncodeValues implements query.Encoder.
func (t Toggle) EncodeValues(key string, v *url.Values) error {
	if t == ToggleOff {
		v.Set(key, "false")
	}
	return nil
}

// ToggleOf converts a plain bool into an explicit Toggle.
func ToggleOf(enabled bool) Toggle {
	if enabled {
		return ToggleOn
	}
	return ToggleOff
}

// InsertOptions configures a create.
type InsertOptions struct {
	// WaitForSync forces the write to disk before the server answers.
	WaitForSync bool `url:"waitForSync,omitempty"`
	// ReturnNew asks for the stored document under "new".
	ReturnNew bool `url:"returnNew,omitempty"`
	// ReturnOld asks for the overwritten document under "old". Only meaningful with an overwrite.
	ReturnOld bool `url:"returnOld,omitempty"`
	// Silent suppresses the response body.
	Silent bool `url:"silent,omitempty"`
	// Overwrite replaces an existing document with the same key.
	Overwrite bool `url:"overwrite,omitempty"`
	// OverwriteMode selects the behaviour on key collision.
	OverwriteMode OverwriteMode `url:"overwriteMode,omitempty"`
}

// UpdateOptions configures a partial update.
type UpdateOptions struct {
	WaitForSync bool `url:"waitForSync,omitempty"`
	ReturnNew   bool `url:"returnNew,omitempty"`
	ReturnOld   bool `url:"returnOld,omitempty"`
	Silent      bool `url:"silent,omitempty"`
	// IgnoreRevs set to ToggleOff makes the server check a _rev in the patch.
	IgnoreRevs Toggle `url:"ignoreRevs,omitempty"`
	// KeepNull set to ToggleOff removes attributes the patch sets to null.
	KeepNull Toggle `url:"keepNull,omitempty"`
	// MergeObjects set to ToggleOff replaces nested objects instead of merging them.
	MergeObjects Toggle `url:"mergeObjects,omitempty"`
}

// ReplaceOptions configures a full replace.
type ReplaceOptions struct {
	WaitForSync bool `url:"waitForSync,omitempty"`
	ReturnNew   bool `url:"returnNew,omitempty"`
	ReturnOld   bool `url:"returnOld,omitempty"`
	Silent      bool `url:"silent,omitempty"`
	// IgnoreRevs set to ToggleOff makes the server check a _rev in the body.
	IgnoreRevs Toggle `url:"ignoreRevs,omitempty"`
}

// RemoveOptions configures a remove.
type RemoveOptions struct {
	WaitForSync bool `url:"waitForSync,omitempty"`
	ReturnOld   bool `url:"returnOld,omitempty"`
	Silent      bool `url:"silent,omitempty"`
}
