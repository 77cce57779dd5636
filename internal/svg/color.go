package svg

import (
	"encoding/json"
	"fmt"
)

// Color is an SVG paint value: a named/verbatim string, or an rgb()/rgba()
// triple or quad. The zero value is "unset" (the attribute is omitted).
//
// Grounded on the original svg.h's `using Color =
// std::variant<std::monostate, std::string, svg::Rgb, svg::Rgba>` and its
// ColorPrinter visitor; spec.md §6 "Color encoding" describes the three
// input shapes this type decodes from JSON.
type Color struct {
	value string
	isSet bool
}

// NoneColor renders as the literal "none" paint value.
var NoneColor = Color{value: "none", isSet: true}

// NamedColor wraps a color string emitted verbatim (e.g. "white", "black",
// "#ffcc00").
func NamedColor(name string) Color {
	return Color{value: name, isSet: true}
}

// RGBColor builds an `rgb(r,g,b)` paint value.
func RGBColor(r, g, b uint8) Color {
	return Color{value: fmt.Sprintf("rgb(%d,%d,%d)", r, g, b), isSet: true}
}

// RGBAColor builds an `rgba(r,g,b,a)` paint value.
func RGBAColor(r, g, b uint8, a float64) Color {
	return Color{value: fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, trimFloat(a)), isSet: true}
}

// IsSet reports whether the color has been given a value at all.
func (c Color) IsSet() bool { return c.isSet }

// String returns the formatted CSS paint value, or "" when unset.
func (c Color) String() string { return c.value }

// UnmarshalJSON decodes the three shapes spec.md §6 allows: a bare string,
// a 3-element [r,g,b] array, or a 4-element [r,g,b,a] array.
func (c *Color) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*c = NamedColor(asString)
		return nil
	}

	var asArray []json.Number
	if err := json.Unmarshal(data, &asArray); err != nil {
		return fmt.Errorf("color: expected string or array, got %s: %w", data, err)
	}

	switch len(asArray) {
	case 3:
		r, g, b, err := parseRGB(asArray)
		if err != nil {
			return err
		}
		*c = RGBColor(r, g, b)
	case 4:
		r, g, b, err := parseRGB(asArray[:3])
		if err != nil {
			return err
		}
		a, err := asArray[3].Float64()
		if err != nil {
			return fmt.Errorf("color: invalid alpha %q: %w", asArray[3], err)
		}
		*c = RGBAColor(r, g, b, a)
	default:
		return fmt.Errorf("color: array must have 3 or 4 elements, got %d", len(asArray))
	}
	return nil
}

// MarshalJSON round-trips a Color as its formatted string form.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

func parseRGB(ns []json.Number) (r, g, b uint8, err error) {
	vals := [3]uint8{}
	for i, n := range ns {
		f, convErr := n.Float64()
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("color: invalid channel %q: %w", n, convErr)
		}
		vals[i] = uint8(f)
	}
	return vals[0], vals[1], vals[2], nil
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
