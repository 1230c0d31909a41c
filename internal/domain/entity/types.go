package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// POS payloads are produced by several clients and are loose about types:
// amounts arrive as numbers or strings, counters as numbers, flags as
// booleans or 0/1. The types below accept every shape seen in practice.

var null = []byte("null")

// Amount is a monetary value. Input that is not numeric is kept verbatim in
// Raw so it can be printed unchanged.
type Amount struct {
	Value decimal.Decimal
	Raw   string
	Set   bool
}

// NewAmount returns a numeric amount.
func NewAmount(f float64) Amount {
	return Amount{Value: decimal.NewFromFloat(f), Set: true}
}

// ParseAmount builds an Amount from text, keeping non-numeric input raw.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Raw: s, Set: true}
	}
	return Amount{Value: d, Set: true}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		*a = Amount{Raw: string(data), Set: true}
		return nil
	}
	*a = Amount{Value: d, Set: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case !a.Set:
		return null, nil
	case a.Raw != "":
		return json.Marshal(a.Raw)
	}
	return []byte(a.Value.String()), nil
}

// IsNumeric reports whether the amount holds a number (a missing amount
// counts as zero).
func (a Amount) IsNumeric() bool {
	return a.Raw == ""
}

// Decimal returns the numeric value, zero for missing or non-numeric input.
func (a Amount) Decimal() decimal.Decimal {
	if !a.IsNumeric() {
		return decimal.Zero
	}
	return a.Value
}

// IsPositive reports whether the amount is a number greater than zero.
func (a Amount) IsPositive() bool {
	return a.IsNumeric() && a.Value.IsPositive()
}

// Text is a string field that also accepts numbers and booleans, rendered
// the way they were sent. null becomes the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		*t = ""
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Or returns t, or def when t is blank.
func (t Text) Or(def string) string {
	if strings.TrimSpace(string(t)) == "" {
		return def
	}
	return string(t)
}

// Flag is a loosely typed boolean: true, non-zero numbers and any string
// other than "", "0" and "false" are set.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, null):
		*f = false
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")):
		*f = false
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		*f = Flag(s != "" && s != "0" && s != "false")
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		*f = true
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*f = Flag(n != 0)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is an instant sent as ISO-8601 text or epoch milliseconds.
// Text without a zone is read as UTC. Unparseable input is kept in Raw.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp parses s with the accepted layouts.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	ts := Timestamp{Raw: s}
	if s == "" {
		return ts
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			ts.Time = t
			return ts
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		ts.Time = time.UnixMilli(ms).UTC()
	}
	return ts
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		*ts = Timestamp{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = ParseTimestamp(s)
		return nil
	}
	*ts = ParseTimestamp(string(data))
	return nil
}

// Valid reports whether the timestamp holds a parsed instant.
func (ts Timestamp) Valid() bool {
	return !ts.Time.IsZero()
}

// Address is either free text or a structured address.
type Address struct {
	Complemento  string `json:"complemento"`
	Municipio    string `json:"municipio"`
	Departamento string `json:"departamento"`
}

func (a *Address) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		*a = Address{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Address{Complemento: s}
		return nil
	}
	type raw struct {
		Complemento  Text `json:"complemento"`
		Municipio    Text `json:"municipio"`
		Departamento Text `json:"departamento"`
	}
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*a = Address{Complemento: string(r.Complemento), Municipio: string(r.Municipio), Departamento: string(r.Departamento)}
	return nil
}

// String joins the non-empty parts, most specific first.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Complemento, a.Municipio, a.Departamento} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
