// Package arangodoc is the Composition Root for the document client.
//
// It connects the typed collection API (pkg/collection) with the HTTP
// transport (pkg/adapters/rest) using functional options.
//
// The client covers the single-document data plane of an ArangoDB-style
// server: create, read, read header, update, replace and remove. Each call
// performs exactly one round trip and returns either a typed result or an
// error matching one of the Err* kinds through errors.Is.
//
// Features:
//
//   - **Typed Documents**: `Document[T]` flattens `_id`, `_key` and `_rev` next to your own fields.
//   - **Optimistic Concurrency**: `IfMatch` / `IfNoneMatch` on reads, an explicit If-Match on replace and remove.
//   - **Overwrite Modes**: conflict, ignore, replace or update on key collision.
//   - **Silent Writes**: `Silent[T]` when no body is wanted, `Verbose[T]` otherwise.
//   - **Pluggable Transport**: any `Session` (see `WithSession`); pkg/adapters/memory serves the same protocol for tests.
//
// Usage:
//
//	users, err := arangodoc.Open[User]("http://localhost:8529", "users",
//		arangodoc.WithDatabase("app"),
//		arangodoc.WithBasicAuth("root", ""),
//	)
//
//	resp, err := users.Create(ctx, arangodoc.NewDocument(User{Name: "Ada"}), arangodoc.InsertOptions{ReturnNew: true})
//	if v, ok := resp.(arangodoc.Verbose[User]); ok {
//		fmt.Println(v.Header.Key)
//	}
package arangodoc
