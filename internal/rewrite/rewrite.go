// Package rewrite re-renders duration fields inside YAML and JSON files.
package rewrite

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jparise/flexdur/duration"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"
)

// Rewriter orchestrates the rewriting of duration fields across files.
type Rewriter struct {
	output *Output
	log    zerolog.Logger
}

// New creates a new Rewriter.
func New(stdout, stderr io.Writer, colorize bool, log zerolog.Logger) *Rewriter {
	return &Rewriter{
		output: NewOutput(stdout, stderr, colorize),
		log:    log,
	}
}

// Rewrite converts the selected fields of every file in opts.Paths.
func (r *Rewriter) Rewrite(ctx context.Context, opts *Options) error {
	if len(opts.Paths) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, field := range fields {
		if !doublestar.ValidatePattern(field) {
			return fmt.Errorf("invalid field pattern %q", field)
		}
	}

	// Documents are printed after all files are processed so that the
	// output follows argument order.
	results := make([][]byte, len(opts.Paths))

	var wg sync.WaitGroup
	var errorCount atomic.Int32
	sem := semaphore.NewWeighted(int64(max(opts.Jobs, 1)))

	for i, path := range opts.Paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := r.rewriteFile(path, fields, opts)
			if err != nil {
				errorCount.Add(1)
				r.output.Warningf("%s: %v", path, err)
				return
			}
			results[i] = out
		}(i, path)
	}

	wg.Wait()

	if !opts.InPlace {
		for i, path := range opts.Paths {
			if results[i] == nil {
				continue
			}
			var header string
			if len(opts.Paths) > 1 {
				header = path
			}
			r.output.Document(header, results[i])
		}
	}

	if int(errorCount.Load()) == len(opts.Paths) {
		return fmt.Errorf("failed to rewrite all %d files", len(opts.Paths))
	}

	return nil
}

// rewriteFile returns the rewritten contents of path, or nil after writing
// them back when opts.InPlace is set.
func (r *Rewriter) rewriteFile(path string, fields []string, opts *Options) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	docs, err := decodeDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	w := &walker{
		file:   path,
		fields: fields,
		mode:   opts.Mode,
		output: r.output,
		log:    r.log,
	}
	for _, doc := range docs {
		w.walk(doc, nil)
	}

	var out []byte
	if isJSON(path) {
		out, err = encodeJSON(docs)
	} else {
		out, err = encodeYAML(docs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}

	r.log.Debug().
		Str("file", path).
		Int("converted", len(w.converted)).
		Msg("rewrote file")

	if !opts.InPlace {
		return out, nil
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return nil, err
	}
	for _, c := range w.converted {
		r.output.Conversion(path, c.path, c.from, c.to)
	}
	r.output.Infof("%s: converted %d fields", path, len(w.converted))
	return nil, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

type conversion struct {
	path string
	from string
	to   string
}

// walker visits every scalar of a document tree, converting those whose
// slash-joined key path matches one of the field globs.
type walker struct {
	file   string
	fields []string
	mode   duration.Mode
	output *Output
	log    zerolog.Logger

	converted []conversion
}

func (w *walker) walk(n *yaml.Node, keys []string) {
	// Cap the slice so sibling appends never share a backing array.
	keys = keys[:len(keys):len(keys)]

	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			w.walk(child, keys)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			w.walk(n.Content[i+1], append(keys, n.Content[i].Value))
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			w.walk(child, append(keys, strconv.Itoa(i)))
		}
	case yaml.ScalarNode:
		path := strings.Join(keys, "/")
		if w.match(path) {
			w.convert(n, path)
		}
	}
	// Aliases are converted where their anchor is defined.
}

func (w *walker) match(path string) bool {
	if path == "" {
		return false
	}
	for _, field := range w.fields {
		if doublestar.MatchUnvalidated(field, path) {
			return true
		}
	}
	return false
}

func (w *walker) convert(n *yaml.Node, path string) {
	d, ok, err := duration.ParseNode(n)
	if err != nil {
		w.output.Warningf("%s:%s: %v", w.file, path, err)
		return
	}
	if !ok {
		return
	}

	repl, err := w.mode.Node(d)
	if err != nil {
		w.output.Warningf("%s:%s: %v", w.file, path, err)
		return
	}

	from := n.Value
	repl.Anchor = n.Anchor
	repl.HeadComment = n.HeadComment
	repl.LineComment = n.LineComment
	repl.FootComment = n.FootComment
	repl.Line, repl.Column = n.Line, n.Column
	*n = *repl

	w.converted = append(w.converted, conversion{path: path, from: from, to: n.Value})
	w.log.Debug().
		Str("file", w.file).
		Str("field", path).
		Str("from", from).
		Str("to", n.Value).
		Dur("duration", d).
		Msg("converted duration")
}
