package arangodoc

import _ "embed"

// Version is the library version.
//
//go:embed version.txt
var Version string
