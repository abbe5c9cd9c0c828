package rewrite

import "github.com/jparise/flexdur/duration"

// DefaultFields selects every mapping key named "timeout".
var DefaultFields = []string{"**/timeout"}

// Options contains all rewrite parameters.
type Options struct {
	Paths   []string      // Files to rewrite, in output order
	Fields  []string      // Key path globs selecting duration fields
	Mode    duration.Mode // Target rendering
	InPlace bool          // Write files back instead of printing them
	Jobs    int           // Maximum concurrent files
}
