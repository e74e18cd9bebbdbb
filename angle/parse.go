// Package angle parses and renders the sexagesimal and decimal angle text
// an operator types for sites, targets and plate solutions.
//
// Every parser returns an error instead of a value when the text is
// unusable. Callers re-validate on every edit, so none of these functions
// panic or log.
package angle

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMalformed  = errors.New("malformed angle text")
	ErrOutOfRange = errors.New("angle out of range")
)

// Role selects the unit and the valid range of a parsed angle.
type Role int

const (
	Longitude Role = iota
	Latitude
	Declination
	RightAscension
)

func (r Role) String() string {
	switch r {
	case Longitude:
		return "longitude"
	case Latitude:
		return "latitude"
	case Declination:
		return "declination"
	case RightAscension:
		return "right_ascension"
	default:
		return "unknown"
	}
}

// Contains reports whether deg lies inside the role's domain. Right
// ascension is [0, 360); the other roles include both bounds.
func (r Role) Contains(deg float64) bool {
	switch r {
	case Longitude:
		return deg >= -180 && deg <= 180
	case Latitude, Declination:
		return deg >= -90 && deg <= 90
	case RightAscension:
		return deg >= 0 && deg < 360
	default:
		return false
	}
}

// Fields splits sexagesimal text into its numeric fields. Colons win when
// splitting on them yields at least as many pieces as splitting on
// whitespace; otherwise runs of whitespace separate the fields. The fields
// are not validated.
func Fields(text string) []string {
	colon := strings.Split(text, ":")
	space := strings.Fields(text)
	if len(colon) >= len(space) {
		for i := range colon {
			colon[i] = strings.TrimSpace(colon[i])
		}
		return colon
	}
	return space
}

// Parse converts text to degrees for the given role.
//
// Longitude, latitude and declination take degrees, degrees:minutes or
// degrees:minutes:seconds. Right ascension takes hours:minutes or
// hours:minutes:seconds and never a bare single field. Only the first field
// carries the sign.
func Parse(text string, role Role) (float64, error) {
	fields := Fields(text)
	if role == RightAscension && len(fields) == 1 {
		return 0, fmt.Errorf("%w: %s %q needs hours and minutes", ErrMalformed, role, text)
	}

	v, err := resolve(fields)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", err, role, text)
	}
	if role == RightAscension {
		v *= 15
	}
	if !role.Contains(v) {
		return 0, fmt.Errorf("%w: %s %q resolves to %g deg", ErrOutOfRange, role, text, v)
	}
	return v, nil
}

// Valid reports whether text parses for role.
func Valid(text string, role Role) bool {
	_, err := Parse(text, role)
	return err == nil
}

// resolve folds 1 to 3 fields into a single signed value in the unit of the
// first field.
func resolve(fields []string) (float64, error) {
	if len(fields) == 0 || len(fields) > 3 {
		return 0, ErrMalformed
	}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := ParseNumber(f)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}
	if len(values) == 1 {
		return values[0], nil
	}

	total := math.Abs(values[0])
	scale := 60.0
	for _, v := range values[1:] {
		if v < 0 || v >= 60 {
			return 0, ErrOutOfRange
		}
		total += v / scale
		scale *= 60
	}
	if strings.HasPrefix(fields[0], "-") {
		total = -total
	}
	return total, nil
}

// decimalNumber is plain signed decimal notation with an optional exponent.
// It keeps out the hex, underscore and inf/nan spellings ParseFloat takes.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber parses one decimal number field.
func ParseNumber(field string) (float64, error) {
	if !decimalNumber.MatchString(field) {
		return 0, ErrMalformed
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, ErrMalformed
	}
	return v, nil
}
