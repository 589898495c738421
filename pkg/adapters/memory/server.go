// Package memory serves the document API from memory.
//
// The handler speaks the same wire protocol as an ArangoDB server for the
// single-document endpoints under /_db/{db}/_api/document/{collection}. It
// backs the tests and the `arangodoc serve` command; nothing is persisted.
package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/arangodoc/pkg/core"
)

const (
	documentPrefix = "/_db/{db}/_api/document/{collection}"
	attrOldRev     = "_oldRev"
)

// Server is an http.Handler for the document API.
type Server struct {
	store  *Store
	mux    *http.ServeMux
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore serves an existing store.
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger logs every handled request at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server and registers its routes.
func NewServer(opts ...Option) *Server {
	s := &Server{mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewStore()
	}
	s.routes()
	return s
}

// Store returns the documents behind the server.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST "+documentPrefix, s.create)
	s.mux.HandleFunc("POST "+documentPrefix+"/{$}", s.create)
	s.mux.HandleFunc("GET "+documentPrefix+"/{key}", s.read)
	s.mux.HandleFunc("PATCH "+documentPrefix+"/{key}", s.update)
	s.mux.HandleFunc("PUT "+documentPrefix+"/{key}", s.replace)
	s.mux.HandleFunc("DELETE "+documentPrefix+"/{key}", s.remove)
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.logger == nil {
		s.mux.ServeHTTP(w, r)
		return
	}
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	s.mux.ServeHTTP(rec, r)
	s.logger.Debug("document request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

// ---------- handlers ----------

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := readObject(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := overwriteMode(q)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.store.Insert(r.PathValue("db"), r.PathValue("collection"), body, mode, mergeFlags(q))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, q, res, http.StatusCreated)
}

func (s *Server) read(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.PathValue("db"), r.PathValue("collection"), r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}

	rev, _ := doc[core.AttrRev].(string)
	w.Header().Set("Etag", `"`+rev+`"`)
	if want := r.Header.Get(core.HeaderIfMatch); want != "" && want != rev {
		writeError(w, errConflict(header(doc)))
		return
	}
	if notWant := r.Header.Get(core.HeaderIfNoneMatch); notWant != "" && notWant == rev {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	patch, err := readObject(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.store.Update(r.PathValue("db"), r.PathValue("collection"), r.PathValue("key"), patch, condition(r, q), mergeFlags(q))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, q, res, http.StatusCreated)
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := readObject(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.store.Replace(r.PathValue("db"), r.PathValue("collection"), r.PathValue("key"), body, condition(r, q))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, q, res, http.StatusCreated)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.store.Remove(r.PathValue("db"), r.PathValue("collection"), r.PathValue("key"), condition(r, q))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, q, res, http.StatusOK)
}

// ---------- helpers ----------

func writeResult(w http.ResponseWriter, q url.Values, res Result, syncedStatus int) {
	status := http.StatusAccepted
	if flag(q, "waitForSync", false) {
		status = syncedStatus
	}
	if res.Skipped || flag(q, "silent", false) {
		writeJSON(w, status, map[string]any{})
		return
	}

	current := res.New
	if current == nil {
		current = res.Old
	}
	out := header(current)
	if res.Old != nil && res.New != nil {
		out[attrOldRev] = res.Old[core.AttrRev]
	}
	if res.New != nil && flag(q, "returnNew", false) {
		out["new"] = res.New
	}
	if res.Old != nil && flag(q, "returnOld", false) {
		out["old"] = res.Old
	}
	writeJSON(w, status, out)
}

func condition(r *http.Request, q url.Values) Condition {
	return Condition{
		IfMatch:      r.Header.Get(core.HeaderIfMatch),
		CheckBodyRev: !flag(q, "ignoreRevs", true),
	}
}

func mergeFlags(q url.Values) Merge {
	return Merge{
		KeepNull:     flag(q, "keepNull", true),
		MergeObjects: flag(q, "mergeObjects", true),
	}
}

// overwriteMode resolves overwriteMode and the older overwrite flag.
func overwriteMode(q url.Values) (core.OverwriteMode, error) {
	if raw := q.Get("overwriteMode"); raw != "" {
		mode, err := core.ParseOverwriteMode(raw)
		if err != nil {
			return core.OverwriteConflict, &Error{Status: http.StatusBadRequest, ErrorNum: ErrNumBadParameter, Message: err.Error()}
		}
		return mode, nil
	}
	if flag(q, "overwrite", false) {
		return core.OverwriteReplace, nil
	}
	return core.OverwriteConflict, nil
}

func flag(q url.Values, name string, def bool) bool {
	switch q.Get(name) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

func readObject(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &Error{Status: http.StatusBadRequest, ErrorNum: ErrNumCorruptedJSON, Message: err.Error()}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &Error{Status: http.StatusBadRequest, ErrorNum: ErrNumCorruptedJSON, Message: "VPack error: " + err.Error()}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &Error{Status: http.StatusBadRequest, ErrorNum: ErrNumDocumentTypeInvalid, Message: "invalid document type"}
	}
	return obj, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Status: http.StatusInternalServerError, ErrorNum: ErrNumInternal, Message: err.Error()}
	}
	body := map[string]any{
		"error":        true,
		"code":         e.Status,
		"errorNum":     e.ErrorNum,
		"errorMessage": e.Message,
	}
	for k, v := range e.Current {
		body[k] = v
	}
	writeJSON(w, e.Status, body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
