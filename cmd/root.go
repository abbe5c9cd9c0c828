package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/jparise/flexdur/duration"
	"github.com/jparise/flexdur/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

var (
	version = "dev"

	// Flags shared by all commands.
	color   = colorAuto
	mode    = duration.ModeHuman
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flexdur",
	Short: "Convert durations between human and numeric forms",
	Long: `flexdur converts time spans between a human-readable form and
numeric seconds or milliseconds.

Durations are read from any of these forms:
  90             Integer seconds
  1.5            Float seconds, rounded to the nearest millisecond
  1h 23m 45s     Unit string using d, h, m, s, ms (case-insensitive)
  250ms          Units may repeat and appear in any order

--mode selects the output form:
  human          "1m 30s"
  secs           90 (sub-second part truncated)
  millis         90000
  secs_f64_ms    90.25 (seconds with millisecond precision)

Defaults are read from FLEXDUR_MODE, FLEXDUR_COLOR, FLEXDUR_JOBS and
FLEXDUR_VERBOSE. Flags take precedence.`,
	Version:           version,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().Var(&color, "color",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().VarP(&mode, "mode", "m",
		"output mode: human, secs, millis, secs_f64_ms")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log debug details to stderr")

	rootCmd.AddCommand(convertCmd, rewriteCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return applyConfig(cmd.Flags(), cfg)
}

// applyConfig sets every flag the user did not pass on the command line
// from the environment configuration.
func applyConfig(flags *pflag.FlagSet, cfg config.Config) error {
	if !flags.Changed("color") {
		if err := color.Set(cfg.Color); err != nil {
			return fmt.Errorf("invalid %sCOLOR %q: %w", config.EnvPrefix, cfg.Color, err)
		}
	}
	if !flags.Changed("mode") {
		mode = cfg.Mode
	}
	if !flags.Changed("verbose") {
		verbose = cfg.Verbose
	}
	if flags.Lookup("jobs") != nil && !flags.Changed("jobs") {
		jobs = cfg.Jobs
	}
	return nil
}

func colorEnabled() bool {
	switch color {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		return term.FromEnv().IsColorEnabled()
	}
}

// newLogger returns the diagnostic logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose, colorize bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !colorize,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
}
