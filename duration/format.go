package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects the canonical output shape of a duration.
type Mode int

const (
	// ModeHuman renders a unit string such as "1h 2m 3s 250ms".
	ModeHuman Mode = iota
	// ModeSecs renders whole seconds as a uint64, truncating any fraction.
	ModeSecs
	// ModeMillis renders milliseconds as a uint64, rounded half up.
	ModeMillis
	// ModeSecsF64Ms renders seconds as a float64 with millisecond precision.
	ModeSecsF64Ms
)

var modeNames = [...]string{
	ModeHuman:     "human",
	ModeSecs:      "secs",
	ModeMillis:    "millis",
	ModeSecsF64Ms: "secs_f64_ms",
}

var formatters = [...]func(time.Duration) any{
	ModeHuman:     func(d time.Duration) any { return FormatHuman(d) },
	ModeSecs:      func(d time.Duration) any { return FormatSecs(d) },
	ModeMillis:    func(d time.Duration) any { return FormatMillis(d) },
	ModeSecsF64Ms: func(d time.Duration) any { return FormatSecsF64Ms(d) },
}

// ParseMode returns the Mode with the given name.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if s == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown duration mode %q: must be one of human, secs, millis, or secs_f64_ms", s)
}

func (m Mode) valid() bool {
	return m >= 0 && int(m) < len(modeNames)
}

// String is used both by fmt.Print and by Cobra in help text.
func (m Mode) String() string {
	if !m.valid() {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// Set must have pointer receiver to validate and set the value.
func (m *Mode) Set(v string) error {
	mode, err := ParseMode(v)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Type is only used in help text.
func (m *Mode) Type() string {
	return "mode"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("unknown duration mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

// Format renders d in the mode's output shape: a string for ModeHuman,
// a uint64 for ModeSecs and ModeMillis, and a float64 for ModeSecsF64Ms.
func (m Mode) Format(d time.Duration) (any, error) {
	if !m.valid() {
		return nil, fmt.Errorf("unknown duration mode %d", int(m))
	}
	if d < 0 {
		return nil, ErrNegative
	}
	return formatters[m](d), nil
}

// FormatOptional is Format for fields that may be absent. A nil duration
// formats as nil.
func (m Mode) FormatOptional(d *time.Duration) (any, error) {
	if d == nil {
		return nil, nil
	}
	return m.Format(*d)
}

// AppendText appends the textual form of the mode's output to b.
func (m Mode) AppendText(b []byte, d time.Duration) ([]byte, error) {
	v, err := m.Format(d)
	if err != nil {
		return b, err
	}
	switch v := v.(type) {
	case string:
		return append(b, v...), nil
	case uint64:
		return strconv.AppendUint(b, v, 10), nil
	case float64:
		return strconv.AppendFloat(b, v, 'f', -1, 64), nil
	}
	return b, fmt.Errorf("unexpected %T from %s formatter", v, m)
}

var humanUnits = []struct {
	name   string
	millis uint64
}{
	{"d", 86_400_000},
	{"h", 3_600_000},
	{"m", 60_000},
	{"s", 1_000},
	{"ms", 1},
}

// FormatHuman renders d as non-zero d/h/m/s/ms components, largest first,
// separated by single spaces. A zero duration renders as "0s".
func FormatHuman(d time.Duration) string {
	ms := roundedMillis(d)
	if ms == 0 {
		return "0s"
	}

	parts := make([]string, 0, len(humanUnits))
	for _, u := range humanUnits {
		if n := ms / u.millis; n > 0 {
			parts = append(parts, strconv.FormatUint(n, 10)+u.name)
			ms %= u.millis
		}
	}
	return strings.Join(parts, " ")
}

// FormatSecs returns the whole seconds of d. The sub-second remainder is
// discarded, not rounded.
func FormatSecs(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Second)
}

// FormatMillis returns d rounded to the nearest millisecond.
func FormatMillis(d time.Duration) uint64 {
	return roundedMillis(d)
}

// FormatSecsF64Ms returns d in seconds rounded to three decimal places.
func FormatSecsF64Ms(d time.Duration) float64 {
	return float64(roundedMillis(d)) / 1000
}

// Unsigned is the set of integer types SecsAs and MillisAs can produce.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// SecsAs returns FormatSecs(d) as a T, or ErrTooLarge if it does not fit.
func SecsAs[T Unsigned](d time.Duration) (T, error) {
	if d < 0 {
		return 0, ErrNegative
	}
	return narrow[T](FormatSecs(d))
}

// MillisAs returns FormatMillis(d) as a T, or ErrTooLarge if it does not fit.
func MillisAs[T Unsigned](d time.Duration) (T, error) {
	if d < 0 {
		return 0, ErrNegative
	}
	return narrow[T](FormatMillis(d))
}

func narrow[T Unsigned](v uint64) (T, error) {
	t := T(v)
	if uint64(t) != v {
		return 0, ErrTooLarge
	}
	return t, nil
}

// roundedMillis rounds half up. Negative durations count as zero.
func roundedMillis(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	ms := uint64(d / time.Millisecond)
	if d%time.Millisecond >= time.Millisecond/2 {
		ms++
	}
	return ms
}
