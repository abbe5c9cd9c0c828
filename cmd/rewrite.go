package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/jparise/flexdur/internal/rewrite"
	"github.com/spf13/cobra"
)

var (
	fields  []string
	inPlace bool
	jobs    int
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [flags] <file>...",
	Short: "Rewrite duration fields in YAML and JSON files",
	Long: `Rewrite the duration fields of each YAML or JSON <file> in the form
selected by --mode.

Fields are selected by matching --field glob patterns against each
value's key path, the keys from the document root joined by "/".
Sequence items use their index:
  timeout              Top-level "timeout" key
  **/timeout           "timeout" at any depth (default)
  servers/*/timeout    "timeout" of every item in the "servers" list
  **/*_{timeout,ttl}   Alternatives, e.g. "read_timeout" or "cache_ttl"

Null values are left as they are. Values that are not durations are
reported and left unchanged.

Examples:
  flexdur rewrite --mode millis config.yaml
  flexdur rewrite -i -f "**/timeout" -f "**/interval" deploy/*.yaml
  flexdur rewrite --mode secs_f64_ms settings.json`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if jobs < 1 || jobs > 100 {
			return fmt.Errorf("--jobs must be between 1 and 100, got %d", jobs)
		}
		return nil
	},
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().StringArrayVarP(&fields, "field", "f", slices.Clone(rewrite.DefaultFields),
		"key path glob selecting duration fields (can be specified multiple times)")
	rewriteCmd.Flags().BoolVarP(&inPlace, "in-place", "i", false,
		"write files back instead of printing them")
	rewriteCmd.Flags().IntVarP(&jobs, "jobs", "j", 10,
		"maximum files processed concurrently")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	colorize := colorEnabled()
	log := newLogger(cmd.ErrOrStderr(), verbose, colorize)

	opts := &rewrite.Options{
		Paths:   args,
		Fields:  fields,
		Mode:    mode,
		InPlace: inPlace,
		Jobs:    jobs,
	}

	r := rewrite.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize, log)
	return r.Rewrite(ctx, opts)
}
