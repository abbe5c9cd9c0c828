package duration

import (
	"strings"
	"time"
)

type modeTag interface {
	mode() Mode
}

type (
	humanTag     struct{}
	secsTag      struct{}
	millisTag    struct{}
	secsF64MsTag struct{}
)

func (humanTag) mode() Mode     { return ModeHuman }
func (secsTag) mode() Mode      { return ModeSecs }
func (millisTag) mode() Mode    { return ModeMillis }
func (secsF64MsTag) mode() Mode { return ModeSecsF64Ms }

func modeOf[M modeTag]() Mode {
	var m M
	return m.mode()
}

// Field is a time.Duration bound to an output Mode. It decodes every
// supported input shape and encodes the mode's canonical shape. Use one
// of the aliases below as a struct field type.
type Field[M modeTag] time.Duration

type (
	// Duration encodes as a human string. It is the default binding.
	Duration = Field[humanTag]
	// Human encodes as a human string such as "1m 5s".
	Human = Field[humanTag]
	// Secs encodes as integer seconds.
	Secs = Field[secsTag]
	// Millis encodes as integer milliseconds.
	Millis = Field[millisTag]
	// SecsF64Ms encodes as fractional seconds with millisecond precision.
	SecsF64Ms = Field[secsF64MsTag]
)

// Mode returns the output mode bound to f.
func (f Field[M]) Mode() Mode {
	return modeOf[M]()
}

// Duration returns f as a time.Duration.
func (f Field[M]) Duration() time.Duration {
	return time.Duration(f)
}

// String returns the textual form of f in its mode.
func (f Field[M]) String() string {
	b, err := f.Mode().AppendText(nil, time.Duration(f))
	if err != nil {
		return time.Duration(f).String()
	}
	return string(b)
}

// Set parses s with ParseText. Together with String and Type it lets a
// Field back a command-line flag.
func (f *Field[M]) Set(s string) error {
	d, err := ParseText(s)
	if err != nil {
		return err
	}
	*f = Field[M](d)
	return nil
}

// Type is only used in help text.
func (f *Field[M]) Type() string {
	return "duration"
}

// MarshalText implements encoding.TextMarshaler.
func (f Field[M]) MarshalText() ([]byte, error) {
	return f.Mode().AppendText(nil, time.Duration(f))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field[M]) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}

func (f *Field[M]) decode(v any) error {
	d, ok, err := ParseOptional(v)
	if err != nil {
		return err
	}
	if ok {
		*f = Field[M](d)
	}
	return nil
}

// Optional is a duration that may be absent. Absent values encode as null
// (or an empty string in text form) and are never confused with a zero
// duration.
type Optional[M modeTag] struct {
	Duration time.Duration
	Valid    bool // Valid is true if Duration is present
}

type (
	OptDuration  = Optional[humanTag]
	OptHuman     = Optional[humanTag]
	OptSecs      = Optional[secsTag]
	OptMillis    = Optional[millisTag]
	OptSecsF64Ms = Optional[secsF64MsTag]
)

// Mode returns the output mode bound to o.
func (o Optional[M]) Mode() Mode {
	return modeOf[M]()
}

// IsZero reports whether o is absent. It lets encoders drop absent fields
// tagged omitzero (JSON) or omitempty (YAML).
func (o Optional[M]) IsZero() bool {
	return !o.Valid
}

// Ptr returns a pointer to the duration, or nil if absent.
func (o Optional[M]) Ptr() *time.Duration {
	if !o.Valid {
		return nil
	}
	d := o.Duration
	return &d
}

func (o Optional[M]) format() (any, error) {
	return o.Mode().FormatOptional(o.Ptr())
}

func (o *Optional[M]) decode(v any) error {
	d, ok, err := ParseOptional(v)
	if err != nil {
		return err
	}
	o.Duration, o.Valid = d, ok
	return nil
}

// String returns the textual form of o in its mode, or "" if absent.
func (o Optional[M]) String() string {
	b, err := o.MarshalText()
	if err != nil {
		return o.Duration.String()
	}
	return string(b)
}

// Set parses s with ParseText. A blank string marks o as absent.
func (o *Optional[M]) Set(s string) error {
	if strings.TrimSpace(s) == "" {
		*o = Optional[M]{}
		return nil
	}
	d, err := ParseText(s)
	if err != nil {
		return err
	}
	o.Duration, o.Valid = d, true
	return nil
}

// Type is only used in help text.
func (o *Optional[M]) Type() string {
	return "duration"
}

// MarshalText implements encoding.TextMarshaler.
func (o Optional[M]) MarshalText() ([]byte, error) {
	if !o.Valid {
		return []byte{}, nil
	}
	return o.Mode().AppendText(nil, o.Duration)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Optional[M]) UnmarshalText(text []byte) error {
	return o.Set(string(text))
}
