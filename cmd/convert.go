package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jparise/flexdur/duration"
	"github.com/jparise/flexdur/internal/rewrite"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// outputFormat selects how converted values are encoded.
type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func (f *outputFormat) String() string {
	return string(*f)
}

func (f *outputFormat) Set(v string) error {
	switch v {
	case "text", "json", "yaml":
		*f = outputFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"text\", \"json\", or \"yaml\"")
	}
}

func (f *outputFormat) Type() string {
	return "outputFormat"
}

var format = formatText

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <value>...",
	Short: "Convert duration values to the selected mode",
	Long: `Convert each <value> to the form selected by --mode and print one
result per line.

Examples:
  flexdur convert 90
  flexdur convert --mode millis "1h 30m" 1.25
  flexdur convert --mode secs_f64_ms --output json 1m250ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().VarP(&format, "output", "o",
		"value encoding: text, json, yaml")
}

// renderValue encodes d in mode m using the given output format.
func renderValue(m duration.Mode, d time.Duration, f outputFormat) (string, error) {
	switch f {
	case formatJSON:
		v, err := m.Format(d)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case formatYAML:
		n, err := m.Node(d)
		if err != nil {
			return "", err
		}
		b, err := yaml.Marshal(n)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	default:
		b, err := m.AppendText(nil, d)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	colorize := colorEnabled()
	log := newLogger(cmd.ErrOrStderr(), verbose, colorize)
	output := rewrite.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize)

	var failed int
	for _, arg := range args {
		d, err := duration.ParseText(arg)
		if err != nil {
			failed++
			output.Warningf("%q: %v", arg, err)
			continue
		}

		s, err := renderValue(mode, d, format)
		if err != nil {
			failed++
			output.Warningf("%q: %v", arg, err)
			continue
		}

		log.Debug().
			Str("input", arg).
			Dur("duration", d).
			Stringer("mode", mode).
			Msg("converted value")
		output.Value(s)
	}

	if failed == len(args) {
		return fmt.Errorf("failed to convert all %d values", len(args))
	}

	return nil
}
