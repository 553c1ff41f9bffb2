package utils

import (
	"math"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownUnit is returned when a unit string names no supported unit.
var ErrUnknownUnit = errors.New("unknown unit")

// AngularUnit is the unit joint angles are expressed in.
type AngularUnit int

// Supported angular units. Degrees is the canonical boundary unit.
const (
	Degrees AngularUnit = iota
	Radians
)

func (u AngularUnit) String() string {
	if u == Radians {
		return "rad"
	}
	return "deg"
}

// ToDegrees converts v, expressed in u, to degrees.
func (u AngularUnit) ToDegrees(v float64) float64 {
	if u == Radians {
		return RadToDeg(v)
	}
	return v
}

// LengthUnit is the unit cartesian positions are expressed in.
type LengthUnit int

// Supported length units. Millimeters is the canonical unit.
const (
	Millimeters LengthUnit = iota
	Centimeters
	Meters
)

func (u LengthUnit) String() string {
	switch u {
	case Centimeters:
		return "cm"
	case Meters:
		return "m"
	default:
		return "mm"
	}
}

// ToMillimeters converts v, expressed in u, to millimeters.
func (u LengthUnit) ToMillimeters(v float64) float64 {
	switch u {
	case Centimeters:
		return v * 10
	case Meters:
		return v * 1000
	default:
		return v
	}
}

// AngularVelocityUnit is the unit joint velocities are expressed in.
type AngularVelocityUnit int

// Supported joint velocity units. RadiansPerSecond is the canonical unit.
const (
	RadiansPerSecond AngularVelocityUnit = iota
	DegreesPerSecond
)

func (u AngularVelocityUnit) String() string {
	if u == DegreesPerSecond {
		return "deg/s"
	}
	return "rad/s"
}

// ToRadiansPerSecond converts v, expressed in u, to rad/s.
func (u AngularVelocityUnit) ToRadiansPerSecond(v float64) float64 {
	if u == DegreesPerSecond {
		return DegToRad(v)
	}
	return v
}

var (
	angularUnits = map[string]AngularUnit{
		"grados": Degrees, "grado": Degrees, "degrees": Degrees, "degree": Degrees, "deg": Degrees, "°": Degrees,
		"radianes": Radians, "radian": Radians, "radians": Radians, "rad": Radians,
	}
	lengthUnits = map[string]LengthUnit{
		"mm": Millimeters, "milimetros": Millimeters, "millimeters": Millimeters, "millimetres": Millimeters,
		"cm": Centimeters, "centimetros": Centimeters, "centimeters": Centimeters, "centimetres": Centimeters,
		"m": Meters, "metros": Meters, "meters": Meters, "metres": Meters,
	}
	angularVelocityUnits = map[string]AngularVelocityUnit{
		"rad/s": RadiansPerSecond, "radianes/s": RadiansPerSecond, "radians/s": RadiansPerSecond,
		"radians per second": RadiansPerSecond, "radianes por segundo": RadiansPerSecond,
		"deg/s": DegreesPerSecond, "°/s": DegreesPerSecond, "grados/s": DegreesPerSecond,
		"degrees/s": DegreesPerSecond, "degrees per second": DegreesPerSecond, "grados por segundo": DegreesPerSecond,
	}
)

// normalizeUnit lowercases, trims and strips diacritics so "Métros" and "metros" match.
func normalizeUnit(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ParseAngularUnit parses an angular unit name. An empty string means degrees.
func ParseAngularUnit(s string) (AngularUnit, error) {
	n := normalizeUnit(s)
	if n == "" {
		return Degrees, nil
	}
	if u, ok := angularUnits[n]; ok {
		return u, nil
	}
	return Degrees, errors.Wrapf(ErrUnknownUnit, "angular unit %q", s)
}

// ParseLengthUnit parses a length unit name. An empty string means millimeters.
func ParseLengthUnit(s string) (LengthUnit, error) {
	n := normalizeUnit(s)
	if n == "" {
		return Millimeters, nil
	}
	if u, ok := lengthUnits[n]; ok {
		return u, nil
	}
	return Millimeters, errors.Wrapf(ErrUnknownUnit, "length unit %q", s)
}

// ParseAngularVelocityUnit parses a joint velocity unit name. An empty string means rad/s.
func ParseAngularVelocityUnit(s string) (AngularVelocityUnit, error) {
	n := normalizeUnit(s)
	if n == "" {
		return RadiansPerSecond, nil
	}
	if u, ok := angularVelocityUnits[n]; ok {
		return u, nil
	}
	return RadiansPerSecond, errors.Wrapf(ErrUnknownUnit, "angular velocity unit %q", s)
}

// ParseNumber converts a loosely typed parameter into a float64. The second return value is
// false when the parameter is absent (nil or blank string). Strings may be plain numbers or
// products/quotients involving pi, e.g. "-pi/2", "0.5*pi" or "2*np.pi/3".
func ParseNumber(v interface{}) (float64, bool, error) {
	if v == nil {
		return 0, false, nil
	}
	s, isString := v.(string)
	if !isString {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, false, errors.Wrapf(err, "cannot convert %v to a number", v)
		}
		return f, true, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	if f, err := cast.ToFloat64E(s); err == nil {
		return f, true, nil
	}
	f, err := evalPiExpression(s)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// evalPiExpression evaluates a left-to-right chain of '*' and '/' over numbers and pi.
func evalPiExpression(expr string) (float64, error) {
	s := strings.ReplaceAll(expr, " ", "")
	sign := 1.0
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, errors.Errorf("cannot parse %q as a number", expr)
	}

	result := 0.0
	op := byte('*')
	first := true
	for len(s) > 0 {
		end := strings.IndexAny(s, "*/")
		operand := s
		if end >= 0 {
			operand = s[:end]
		}
		val, err := parseOperand(operand)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot parse %q as a number", expr)
		}
		switch {
		case first:
			result = val
			first = false
		case op == '*':
			result *= val
		default:
			if val == 0 {
				return 0, errors.Errorf("division by zero in %q", expr)
			}
			result /= val
		}
		if end < 0 {
			break
		}
		op = s[end]
		s = s[end+1:]
		if s == "" {
			return 0, errors.Errorf("dangling operator in %q", expr)
		}
	}
	return sign * result, nil
}

func parseOperand(operand string) (float64, error) {
	switch strings.ToLower(operand) {
	case "pi", "np.pi", "math.pi", "π":
		return math.Pi, nil
	}
	return cast.ToFloat64E(operand)
}
