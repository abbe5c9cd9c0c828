package rewrite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jparise/flexdur/duration"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func newTestRewriter() (*Rewriter, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return New(stdout, stderr, false, zerolog.Nop()), stdout, stderr
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		input   string
		fields  []string
		mode    duration.Mode
		want    string
		wantErr string
	}{
		{
			name:  "yaml default field to millis",
			file:  "config.yaml",
			input: "name: api\ntimeout: 90s\nretry:\n  timeout: 1.5\n  count: 3\n",
			mode:  duration.ModeMillis,
			want:  "name: api\ntimeout: 90000\nretry:\n  timeout: 1500\n  count: 3\n",
		},
		{
			name:  "yaml to human",
			file:  "config.yaml",
			input: "timeout: 90\n",
			mode:  duration.ModeHuman,
			want:  "timeout: 1m 30s\n",
		},
		{
			name:  "yaml to float seconds",
			file:  "config.yml",
			input: "timeout: 1m 250ms\n",
			mode:  duration.ModeSecsF64Ms,
			want:  "timeout: 60.25\n",
		},
		{
			name:   "custom field pattern",
			file:   "config.yaml",
			input:  "timeout: 5\ngrace: 2m\n",
			fields: []string{"grace"},
			mode:   duration.ModeSecs,
			want:   "timeout: 5\ngrace: 120\n",
		},
		{
			name:  "null is left alone",
			file:  "config.yaml",
			input: "timeout: null\n",
			mode:  duration.ModeSecs,
			want:  "timeout: null\n",
		},
		{
			name:  "non-matching scalars are untouched",
			file:  "config.yaml",
			input: "timeouts: 5q\n",
			mode:  duration.ModeSecs,
			want:  "timeouts: 5q\n",
		},
		{
			name:  "multiple documents",
			file:  "config.yaml",
			input: "timeout: 1\n---\ntimeout: 2\n",
			mode:  duration.ModeMillis,
			want:  "timeout: 1000\n---\ntimeout: 2000\n",
		},
		{
			name:  "json keeps key order",
			file:  "config.json",
			input: `{"name": "api", "timeout": "90s", "retries": 3, "ratio": 1.50}`,
			mode:  duration.ModeSecs,
			want:  "{\n  \"name\": \"api\",\n  \"timeout\": 90,\n  \"retries\": 3,\n  \"ratio\": 1.50\n}\n",
		},
		{
			name:    "invalid field pattern",
			file:    "config.yaml",
			input:   "timeout: 5\n",
			fields:  []string{"[timeout"},
			wantErr: `invalid field pattern "[timeout"`,
		},
		{
			name:    "unparseable file",
			file:    "config.yaml",
			input:   "timeout: [5\n",
			wantErr: "failed to rewrite all 1 files",
		},
		{
			name:    "multiple json documents",
			file:    "config.json",
			input:   "{}\n---\n{}\n",
			wantErr: "failed to rewrite all 1 files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.input)
			r, stdout, _ := newTestRewriter()

			err := r.Rewrite(context.Background(), &Options{
				Paths:  []string{path},
				Fields: tt.fields,
				Mode:   tt.mode,
				Jobs:   1,
			})

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Rewrite() error = %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Rewrite() unexpected error: %v", err)
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("Rewrite() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteSequenceIndexes(t *testing.T) {
	input := "servers:\n  - timeout: 5\n  - timeout: 10s\nclient:\n  timeout: 7\n"
	path := writeFile(t, t.TempDir(), "config.yaml", input)
	r, stdout, _ := newTestRewriter()

	err := r.Rewrite(context.Background(), &Options{
		Paths:  []string{path},
		Fields: []string{"servers/*/timeout"},
		Mode:   duration.ModeMillis,
		Jobs:   1,
	})
	if err != nil {
		t.Fatalf("Rewrite() unexpected error: %v", err)
	}

	got := stdout.String()
	for _, want := range []string{"timeout: 5000", "timeout: 10000", "timeout: 7\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Rewrite() output = %q, want to contain %q", got, want)
		}
	}
}

func TestRewriteKeepsComments(t *testing.T) {
	input := "# service settings\ntimeout: 90s # per request\n"
	path := writeFile(t, t.TempDir(), "config.yaml", input)
	r, stdout, _ := newTestRewriter()

	err := r.Rewrite(context.Background(), &Options{
		Paths: []string{path},
		Mode:  duration.ModeSecs,
		Jobs:  1,
	})
	if err != nil {
		t.Fatalf("Rewrite() unexpected error: %v", err)
	}

	got := stdout.String()
	for _, want := range []string{"# service settings", "# per request", "timeout: 90"} {
		if !strings.Contains(got, want) {
			t.Errorf("Rewrite() output = %q, want to contain %q", got, want)
		}
	}
}

func TestRewriteFieldWarnings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "timeout: 5q\nretry:\n  timeout: -1\n")
	r, stdout, stderr := newTestRewriter()

	err := r.Rewrite(context.Background(), &Options{
		Paths: []string{path},
		Mode:  duration.ModeSecs,
		Jobs:  1,
	})
	if err != nil {
		t.Fatalf("Rewrite() unexpected error: %v", err)
	}

	warnings := stderr.String()
	for _, want := range []string{
		"config.yaml:timeout: unknown unit 'q'",
		"config.yaml:retry/timeout: negative duration not allowed",
	} {
		if !strings.Contains(warnings, want) {
			t.Errorf("Rewrite() warnings = %q, want to contain %q", warnings, want)
		}
	}

	// Fields that fail to parse are written back unchanged.
	if got, want := stdout.String(), "timeout: 5q\nretry:\n  timeout: -1\n"; got != want {
		t.Errorf("Rewrite() output = %q, want %q", got, want)
	}
}

func TestRewriteMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "timeout: 1\n")
	b := writeFile(t, dir, "b.yaml", "timeout: 2\n")
	missing := filepath.Join(dir, "missing.yaml")

	r, stdout, stderr := newTestRewriter()
	err := r.Rewrite(context.Background(), &Options{
		Paths: []string{a, missing, b},
		Mode:  duration.ModeHuman,
		Jobs:  3,
	})
	if err != nil {
		t.Fatalf("Rewrite() unexpected error: %v", err)
	}

	want := "==> " + a + " <==\ntimeout: 1s\n" +
		"==> " + b + " <==\ntimeout: 2s\n"
	if got := stdout.String(); got != want {
		t.Errorf("Rewrite() output = %q, want %q", got, want)
	}
	if !strings.Contains(stderr.String(), "Warning: "+missing) {
		t.Errorf("Rewrite() warnings = %q, want warning for %s", stderr.String(), missing)
	}
}

func TestRewriteAllFilesFail(t *testing.T) {
	dir := t.TempDir()
	r, _, _ := newTestRewriter()

	err := r.Rewrite(context.Background(), &Options{
		Paths: []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")},
		Jobs:  2,
	})
	if err == nil || err.Error() != "failed to rewrite all 2 files" {
		t.Errorf("Rewrite() error = %v, want %q", err, "failed to rewrite all 2 files")
	}
}

func TestRewriteNoFiles(t *testing.T) {
	r, _, _ := newTestRewriter()
	if err := r.Rewrite(context.Background(), &Options{Jobs: 1}); err == nil {
		t.Error("Rewrite() with no files expected an error")
	}
}

func TestRewriteInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "timeout: 90s\nother: 1\n")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}

	r, stdout, stderr := newTestRewriter()
	err := r.Rewrite(context.Background(), &Options{
		Paths:   []string{path},
		Mode:    duration.ModeMillis,
		InPlace: true,
		Jobs:    1,
	})
	if err != nil {
		t.Fatalf("Rewrite() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "timeout: 90000\nother: 1\n"; got != want {
		t.Errorf("rewritten file = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("rewritten file mode = %v, want %v", perm, os.FileMode(0o600))
	}

	if got, want := stdout.String(), path+":timeout: 90s => 90000\n"; got != want {
		t.Errorf("Rewrite() output = %q, want %q", got, want)
	}
	if got, want := stderr.String(), path+": converted 1 fields\n"; got != want {
		t.Errorf("Rewrite() stderr = %q, want %q", got, want)
	}
}

func TestRewriteCanceled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "timeout: 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _, _ := newTestRewriter()
	err := r.Rewrite(ctx, &Options{Paths: []string{path}, Jobs: 1})
	if err != context.Canceled {
		t.Errorf("Rewrite() error = %v, want %v", err, context.Canceled)
	}
}

func TestWalkerMatch(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		path   string
		want   bool
	}{
		{"default top level", DefaultFields, "timeout", true},
		{"default nested", DefaultFields, "http/client/timeout", true},
		{"default sequence", DefaultFields, "servers/0/timeout", true},
		{"default other key", DefaultFields, "timeouts", false},
		{"root document", DefaultFields, "", false},
		{"alternatives", []string{"*/{read,write}_timeout"}, "db/write_timeout", true},
		{"single level wildcard", []string{"*/timeout"}, "a/b/timeout", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &walker{fields: tt.fields}
			if got := w.match(tt.path); got != tt.want {
				t.Errorf("match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
