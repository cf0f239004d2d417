package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Decimal is a numeric field the backend may send as a JSON number or as a
// numeric string ("12.50"). Null, empty and unparseable values decode to 0.
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = Decimal(toFloat(v))
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

func (d Decimal) Float64() float64 {
	return float64(d)
}

func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// ParseDecimal converts user input the same way the JSON decoder does.
func ParseDecimal(s string) Decimal {
	return Decimal(toFloat(s))
}

func toFloat(v any) float64 {
	var f float64
	switch value := v.(type) {
	case float64:
		f = value
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}
