package loadsheet

import (
	"context"
	"encoding/json"
	"strconv"
)

// Record labels in presentation order
const (
	LabelFlight       = "FLIGHT"
	LabelAircraft     = "A/C"
	LabelRegistration = "REG"
	LabelCaptain      = "CAPTAIN"
	LabelCrew         = "CREW"
	LabelDOW          = "DOW"
	LabelDOI          = "DOI"
	LabelDestination  = "DEST"
	LabelBlockFuel    = "BLOCK FUEL"
	LabelTaxiFuel     = "TAXI FUEL"
	LabelTakeOffFuel  = "TAKE OFF FUEL"
	LabelTripFuel     = "TRIP FUEL"
	LabelEET          = "EET"
	LabelSeats        = "SEATS QUANTITY"
	LabelDate         = "DATE"
)

// Labels is the fixed label set of every TypedRecord, in order
var Labels = []string{
	LabelFlight, LabelAircraft, LabelRegistration, LabelCaptain, LabelCrew,
	LabelDOW, LabelDOI, LabelDestination, LabelBlockFuel, LabelTaxiFuel,
	LabelTakeOffFuel, LabelTripFuel, LabelEET, LabelSeats, LabelDate,
}

// Value is either text or an integer
type Value struct {
	text    string
	number  int64
	numeric bool
}

// Text returns a text value
func Text(s string) Value { return Value{text: s} }

// Int returns an integer value
func Int(n int64) Value { return Value{number: n, numeric: true} }

// IsInt reports whether the value is an integer
func (v Value) IsInt() bool { return v.numeric }

// Int64 returns the integer value, or 0 for text
func (v Value) Int64() int64 { return v.number }

// String renders the value for display
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatInt(v.number, 10)
	}
	return v.text
}

// MarshalJSON encodes integers as JSON numbers and text as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}

// Entry is one labeled value of a record
type Entry struct {
	Label string `json:"label"`
	Value Value  `json:"value"`
}

// TypedRecord is the ordered result handed to a renderer
type TypedRecord []Entry

// Get returns the value stored under label
func (r TypedRecord) Get(label string) (Value, bool) {
	for _, e := range r {
		if e.Label == label {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Inputs are the operator-entered fields of a request
type Inputs struct {
	Captain   string
	CrewID    string
	BlockFuel string
}

// CrewLookup resolves the DOI code for a crew identifier on a registration.
// Implementations report absence with ok=false and never fail.
type CrewLookup interface {
	Lookup(ctx context.Context, registration, crewID string) (doi string, ok bool)
}

// Result is a built record plus the locators that found nothing
type Result struct {
	Record TypedRecord
	Misses []Miss
}

// Check rejects documents the profile cannot be applied to
func Check(lines LineSequence, p Profile) error {
	if len(lines) == 0 {
		return &DocumentError{Kind: ErrEmptyDocument}
	}
	if required := p.RequiredLines(); len(lines) < required {
		return &DocumentError{Kind: ErrInsufficientDocument, Lines: len(lines), Required: required}
	}
	return nil
}

// Build checks the line count, extracts the profile's fields and assembles
// the record. Only document-level failures are returned as errors.
func Build(ctx context.Context, lines LineSequence, p Profile, in Inputs, lookup CrewLookup) (*Result, error) {
	if err := Check(lines, p); err != nil {
		return nil, err
	}

	ex := Extract(lines, p.Locators)
	return &Result{
		Record: Assemble(ctx, ex.Fields, p, in, lookup),
		Misses: ex.Misses,
	}, nil
}

// Assemble converts raw tokens into the fixed-order record
func Assemble(ctx context.Context, fields RawFields, p Profile, in Inputs, lookup CrewLookup) TypedRecord {
	token := func(field string) string {
		ref := p.Fields[field]
		s, _ := fields.Token(ref.Locator, ref.Index)
		return s
	}

	registration := token(FieldRegistration)
	blockFuel := ParseTruncated(in.BlockFuel)
	taxiFuel := ParseTruncated(token(FieldTaxiFuel))
	tripFuel := ParseTruncated(token(FieldTripFuel))

	doi := ""
	if lookup != nil {
		if v, ok := lookup.Lookup(ctx, registration, in.CrewID); ok {
			doi = v
		}
	}

	return TypedRecord{
		{LabelFlight, Text(token(FieldFlight))},
		{LabelAircraft, Text(p.AircraftType)},
		{LabelRegistration, Text(registration)},
		{LabelCaptain, Text(in.Captain)},
		{LabelCrew, Text(in.CrewID)},
		{LabelDOW, Text(token(FieldDOW))},
		{LabelDOI, Text(doi)},
		{LabelDestination, Text(lastN(token(FieldDestination), 4))},
		{LabelBlockFuel, Int(blockFuel)},
		{LabelTaxiFuel, Int(taxiFuel)},
		{LabelTakeOffFuel, Int(blockFuel - taxiFuel)},
		{LabelTripFuel, Int(tripFuel)},
		{LabelEET, Text(token(FieldEET))},
		{LabelSeats, Text(p.SeatCount)},
		{LabelDate, Text(token(FieldDate))},
	}
}

// lastN returns the last n runes of s, or "" when s is shorter
func lastN(s string, n int) string {
	r := []rune(s)
	if len(r) < n {
		return ""
	}
	return string(r[len(r)-n:])
}
