package rewrite

import (
	"fmt"
	"io"
	"sync"

	"github.com/mgutz/ansi"
)

// Output handles all terminal output with optional color support.
type Output struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer

	cyan   func(string) string
	green  func(string) string
	white  func(string) string
	yellow func(string) string
}

// NewOutput creates a new Output with optional color support.
func NewOutput(stdout, stderr io.Writer, colorize bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout: stdout,
		stderr: stderr,
		cyan:   color("cyan"),
		green:  color("green+b"),
		white:  color("white"),
		yellow: color("yellow"),
	}
}

// Value writes a single rendered duration value on its own line.
func (o *Output) Value(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s\n", o.green(s))
}

// Conversion writes a field conversion in the format: file:path: from => to.
func (o *Output) Conversion(file, path, from, to string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s:%s: %s => %s\n",
		o.cyan(file),
		o.white(path),
		from,
		o.green(to))
}

// Document writes a rewritten document. A non-empty name is written first
// as a header line.
func (o *Output) Document(name string, data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if name != "" {
		fmt.Fprintf(o.stdout, "%s\n", o.cyan("==> "+name+" <=="))
	}
	o.stdout.Write(data)
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}

// Infof writes a formatted informational message to stderr.
func (o *Output) Infof(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, format+"\n", args...)
}
