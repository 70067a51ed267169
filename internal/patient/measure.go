package patient

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Measure is an optional numeric form field. The zero value is unset.
type Measure struct {
	value   float64
	set     bool
	invalid string
}

// Value returns a set measure holding v.
func Value(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{invalid: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	return Measure{value: v, set: true}
}

// Unset returns an empty measure.
func Unset() Measure { return Measure{} }

// ParseMeasure converts raw form text into a Measure. Blank text is unset;
// text that is not a decimal number is kept as an invalid entry.
func ParseMeasure(raw string) Measure {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Measure{}
	}
	if strings.IndexFunc(raw, notDecimal) >= 0 {
		return Measure{invalid: raw}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Measure{invalid: raw}
	}
	return Value(v)
}

// notDecimal rejects what strconv accepts beyond plain decimal notation:
// digit separators, hex floats, inf and nan.
func notDecimal(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.' || r == '+' || r == '-' || r == 'e' || r == 'E':
		return false
	}
	return true
}

// Get returns the value and whether it is set.
func (m Measure) Get() (float64, bool) {
	return m.value, m.set
}

// IsSet reports whether the measure holds a number.
func (m Measure) IsSet() bool { return m.set }

// IsInvalid reports whether the user entered something that is not a number.
func (m Measure) IsInvalid() bool { return !m.set && m.invalid != "" }

// Raw returns the rejected entry of an invalid measure.
func (m Measure) Raw() string { return m.invalid }

func (m Measure) String() string {
	switch {
	case m.set:
		return strconv.FormatFloat(m.value, 'f', -1, 64)
	case m.invalid != "":
		return m.invalid
	default:
		return ""
	}
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.set {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Measure{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = ParseMeasure(s)
		return nil
	case 't', 'f', '{', '[':
		*m = Measure{invalid: string(data)}
		return nil
	}

	// A number outside float64 range is a bad entry, not a bad payload.
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*m = Measure{invalid: string(data)}
		return nil
	}
	*m = Value(v)
	return nil
}

// MarshalYAML keeps CLI output readable.
func (m Measure) MarshalYAML() (interface{}, error) {
	if !m.set {
		return nil, nil
	}
	return m.value, nil
}
