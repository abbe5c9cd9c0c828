// Package duration converts time spans to and from the shapes commonly
// found in configuration files and wire formats: integer seconds,
// fractional seconds, and unit-suffixed strings such as "1h 23m 45s".
//
// Decoding is permissive and identical for every Mode. Encoding emits the
// single canonical shape of the Mode bound to a field.
package duration

import (
	"encoding/json"
	"errors"
	"math"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

const (
	maxSeconds = math.MaxInt64 / int64(time.Second)
	maxMillis  = math.MaxInt64 / int64(time.Millisecond)
)

// Milliseconds per unit. Units are matched case-insensitively.
var units = map[string]uint64{
	"d":  86_400_000,
	"h":  3_600_000,
	"m":  60_000,
	"s":  1_000,
	"ms": 1,
}

// Parse converts a decoded scalar into a duration.
//
// Integers are whole seconds. Floats are seconds with a fractional part
// rounded to the nearest millisecond. Strings are sequences of
// number/unit pairs (see ParseString). json.Number values follow the
// integer or float rule depending on their literal form.
func Parse(v any) (time.Duration, error) {
	switch v := v.(type) {
	case string:
		return ParseString(v)
	case json.Number:
		return parseNumber(v.String())
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return fromInt(int64(v))
	case int8:
		return fromInt(int64(v))
	case int16:
		return fromInt(int64(v))
	case int32:
		return fromInt(int64(v))
	case int64:
		return fromInt(v)
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return fromUint(uint64(v))
	case uint16:
		return fromUint(uint64(v))
	case uint32:
		return fromUint(uint64(v))
	case uint64:
		return fromUint(v)
	default:
		return 0, ErrInvalidType
	}
}

// ParseOptional is Parse for fields that may be absent. A nil value
// reports ok == false and no error.
func ParseOptional(v any) (d time.Duration, ok bool, err error) {
	if v == nil {
		return 0, false, nil
	}
	d, err = Parse(v)
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

// ParseString parses a sequence of number/unit pairs such as "1h 23m 45s",
// "250ms" or "1m250ms". Supported units are d, h, m, s and ms. Pairs may
// appear in any order and repeated units accumulate.
func ParseString(s string) (time.Duration, error) {
	var total uint64
	pairs := 0

	i := 0
	for i < len(s) {
		i = skipSpace(s, i)
		if i == len(s) {
			break
		}

		numStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == numStart {
			return 0, &SyntaxError{Offset: numStart, Err: ErrExpectedNumber}
		}
		numEnd := i
		num, err := strconv.ParseUint(s[numStart:numEnd], 10, 64)
		if err != nil {
			// Only a digit run wider than 64 bits gets here.
			return 0, ErrOverflow
		}

		i = skipSpace(s, i)
		unitStart := i
		for i < len(s) && isAlpha(s[i]) {
			i++
		}
		if i == unitStart {
			return 0, &SyntaxError{Offset: numEnd, Err: ErrExpectedUnit}
		}
		unit := s[unitStart:i]
		perUnit, ok := units[strings.ToLower(unit)]
		if !ok {
			return 0, &SyntaxError{Offset: unitStart, Unit: unit, Err: ErrUnknownUnit}
		}

		hi, inc := bits.Mul64(num, perUnit)
		if hi != 0 {
			return 0, ErrOverflow
		}
		var carry uint64
		total, carry = bits.Add64(total, inc, 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
		pairs++
	}

	if pairs == 0 {
		return 0, ErrEmpty
	}
	if total > uint64(maxMillis) {
		return 0, ErrOverflow
	}
	return time.Duration(total) * time.Millisecond, nil
}

// ParseText parses input from text-only sources such as environment
// variables and command-line flags, where numbers arrive as strings.
// A numeric literal ("90", "1.5") follows the integer or float rule of
// Parse; anything else is handed to ParseString.
func ParseText(s string) (time.Duration, error) {
	t := strings.TrimSpace(s)
	if isNumeric(t) {
		return parseNumber(t)
	}
	return ParseString(s)
}

func parseNumber(s string) (time.Duration, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return fromInt(n)
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(s, "-") {
			return 0, ErrNegative
		}
		return 0, ErrOverflow
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if f < 0 {
				return 0, ErrNegative
			}
			return 0, ErrOverflow
		}
		return 0, ErrInvalidType
	}
	return fromFloat(f)
}

// isNumeric reports whether s is a signed decimal literal ("90", "1.5",
// ".25", "1e3") or a NaN/infinity spelling. Hex literals and a dangling
// decimal point are not numbers here.
func isNumeric(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	switch strings.ToLower(s[i:]) {
	case "nan", "inf", "infinity":
		return true
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			frac++
		}
		if frac == 0 {
			return false
		}
		digits += frac
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func fromInt(n int64) (time.Duration, error) {
	if n < 0 {
		return 0, ErrNegative
	}
	return fromUint(uint64(n))
}

func fromUint(n uint64) (time.Duration, error) {
	if n > uint64(maxSeconds) {
		return 0, ErrOverflow
	}
	return time.Duration(n) * time.Second, nil
}

func fromFloat(f float64) (time.Duration, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	if f < 0 {
		return 0, ErrNegative
	}

	secs := math.Trunc(f)
	millis := math.Round((f - secs) * 1000)
	if millis == 1000 {
		secs++
		millis = 0
	}
	if secs > float64(maxSeconds) {
		return 0, ErrOverflow
	}

	whole := time.Duration(secs) * time.Second
	frac := time.Duration(millis) * time.Millisecond
	if whole > math.MaxInt64-frac {
		return 0, ErrOverflow
	}
	return whole + frac, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f':
			i++
		default:
			return i
		}
	}
	return i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
