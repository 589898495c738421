package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/arangodoc"
)

var (
	importConcurrency   int
	importRate          float64
	importOverwriteMode string
	importKeyFromName   bool
	importWaitForSync   bool
	importWatch         bool
)

var importCmd = &cobra.Command{
	Use:   "import <collection> <pattern>...",
	Short: "Create documents from files",
	Long: `Create one document per JSON or YAML object found in the files matching
the patterns. Patterns support ** (e.g. data/**/*.json). A file may hold a
single object or an array of objects.

With --watch the command keeps running and imports files as they are
created or changed.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := arangodoc.ParseOverwriteMode(importOverwriteMode)
		if err != nil {
			return err
		}
		if importWatch && mode == arangodoc.OverwriteConflict {
			// Changed files would otherwise collide with their first import.
			mode = arangodoc.OverwriteReplace
		}

		coll, err := openCollection(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		im := newImporter(coll, importConcurrency, importRate, slog.Default())
		im.keyFromName = importKeyFromName
		im.opts = arangodoc.InsertOptions{
			WaitForSync:   importWaitForSync,
			Silent:        true,
			OverwriteMode: mode,
		}

		patterns := args[1:]
		files, err := expandPatterns(patterns)
		if err != nil {
			return err
		}

		n, err := im.Run(ctx, files)
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents from %d files\n", n, len(files))
		if err != nil {
			return err
		}

		if importWatch {
			return im.Watch(ctx, patterns)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().IntVarP(&importConcurrency, "concurrency", "c", 4, "Number of parallel uploads")
	importCmd.Flags().Float64Var(&importRate, "rate", 0, "Maximum documents per second (0 for no limit)")
	importCmd.Flags().StringVar(&importOverwriteMode, "overwrite-mode", "", "On key collision: conflict, ignore, replace or update")
	importCmd.Flags().BoolVar(&importKeyFromName, "key-from-filename", false, "Use the file name as _key for single-object files")
	importCmd.Flags().BoolVar(&importWaitForSync, "wait-for-sync", false, "Wait until each write is on disk")
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "Keep importing files as they change")
}

// expandPatterns resolves glob patterns into a sorted, de-duplicated file list.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

type importer struct {
	coll        *arangodoc.Collection[map[string]any]
	opts        arangodoc.InsertOptions
	concurrency int
	limiter     *rate.Limiter
	keyFromName bool
	logger      *slog.Logger
}

func newImporter(coll *arangodoc.Collection[map[string]any], concurrency int, perSecond float64, logger *slog.Logger) *importer {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	im := &importer{
		coll:        coll,
		opts:        arangodoc.InsertOptions{Silent: true},
		concurrency: concurrency,
		logger:      logger,
	}
	if perSecond > 0 {
		im.limiter = rate.NewLimiter(rate.Limit(perSecond), concurrency)
	}
	return im
}

// Run imports files with a pool of workers. Failures of single files do not
// stop the others; they are returned together.
func (im *importer) Run(ctx context.Context, files []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		result   *multierror.Error
		imported atomic.Int64
	)
	fail := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}

	jobs := make(chan string)
	for i := 0; i < im.concurrency; i++ {
		wg.Add(1)
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer wg.Done()
			for path := range jobs {
				n, err := im.importFile(ctx, path)
				imported.Add(int64(n))
				if err != nil {
					fail(err)
				}
			}
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			fail(fmt.Errorf("import worker: %w", err))
		}))
	}

feed:
	for _, path := range files {
		select {
		case jobs <- path:
		case <-ctx.Done():
			fail(ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return int(imported.Load()), result.ErrorOrNil()
}

// importFile creates every object of one file and reports how many succeeded.
func (im *importer) importFile(ctx context.Context, path string) (int, error) {
	objects, err := loadObjects(path)
	if err != nil {
		return 0, err
	}

	var errs *multierror.Error
	created := 0
	for i, obj := range objects {
		if im.limiter != nil {
			if err := im.limiter.Wait(ctx); err != nil {
				return created, fmt.Errorf("%s: %w", path, err)
			}
		}

		doc := arangodoc.NewDocument(obj)
		if im.keyFromName && len(objects) == 1 {
			if _, ok := obj["_key"]; !ok {
				doc.Key = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
		}

		if _, err := im.coll.Create(ctx, doc, im.opts); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s[%d]: %w", path, i, err))
			continue
		}
		created++
	}

	im.logger.Debug("file imported", "path", path, "documents", created)
	return created, errs.ErrorOrNil()
}

// loadObjects decodes a JSON or YAML file holding an object or an array of objects.
func loadObjects(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &v)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&v)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}, nil
	case []any:
		out := make([]map[string]any, 0, len(t))
		for i, e := range t {
			obj, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: not an object", path, i)
			}
			out = append(out, obj)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected an object or an array of objects", path)
	}
}

// Watch imports files matching patterns whenever they are written, until ctx ends.
func (im *importer) Watch(ctx context.Context, patterns []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		if err := addTree(watcher, filepath.FromSlash(base)); err != nil {
			return err
		}
	}

	im.logger.Info("watching for changes", "patterns", patterns)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						im.logger.Error("failed to watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !matchesAny(patterns, event.Name) {
				continue
			}
			if n, err := im.importFile(ctx, event.Name); err != nil {
				im.logger.Error("import failed", "path", event.Name, "error", err)
			} else {
				im.logger.Info("imported", "path", event.Name, "documents", n)
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			im.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
	}
	return false
}
