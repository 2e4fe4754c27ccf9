package loadsheet

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Logical fields a profile must map to a locator token
const (
	FieldFlight       = "flight"
	FieldRegistration = "registration"
	FieldDate         = "date"
	FieldDestination  = "destination"
	FieldTaxiFuel     = "taxi_fuel"
	FieldDOW          = "dow"
	FieldTripFuel     = "trip_fuel"
	FieldEET          = "eet"
)

// RequiredFields lists every logical field a profile maps
var RequiredFields = []string{
	FieldFlight, FieldRegistration, FieldDate, FieldDestination,
	FieldTaxiFuel, FieldDOW, FieldTripFuel, FieldEET,
}

// Built-in profile names
const (
	ProfileFixed    = "fixed"
	ProfileAnchored = "anchored"

	DefaultProfile = ProfileAnchored
)

// TokenRef points at one token of a located line
type TokenRef struct {
	Locator string `yaml:"locator"`
	Index   int    `yaml:"index"`
}

// Profile describes one report layout: where each field lives and the
// constants printed alongside it.
type Profile struct {
	Name         string              `yaml:"name"`
	AircraftType string              `yaml:"aircraft_type"`
	SeatCount    string              `yaml:"seat_count"`
	MinLines     int                 `yaml:"min_lines"`
	Locators     []Locator           `yaml:"locators"`
	Fields       map[string]TokenRef `yaml:"fields"`
}

// RequiredLines returns the minimum line count a document needs for this
// profile: the declared minimum or the deepest positional offset.
func (p Profile) RequiredLines() int {
	required := p.MinLines
	for _, loc := range p.Locators {
		if loc.Kind == Positional && loc.Offset+1 > required {
			required = loc.Offset + 1
		}
	}
	return required
}

// Validate checks that every field resolves to a defined locator
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.MinLines < 0 {
		return fmt.Errorf("profile %q: min_lines must not be negative", p.Name)
	}

	names := make(map[string]bool, len(p.Locators))
	for _, loc := range p.Locators {
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		if names[loc.Name] {
			return fmt.Errorf("profile %q: duplicate locator %q", p.Name, loc.Name)
		}
		names[loc.Name] = true
	}

	for _, field := range RequiredFields {
		ref, ok := p.Fields[field]
		if !ok {
			return fmt.Errorf("profile %q: field %q is not mapped", p.Name, field)
		}
		if !names[ref.Locator] {
			return fmt.Errorf("profile %q: field %q references unknown locator %q", p.Name, field, ref.Locator)
		}
		if ref.Index < 0 {
			return fmt.Errorf("profile %q: field %q has negative token index", p.Name, field)
		}
	}

	return nil
}

// FixedProfile is the legacy layout: every block sits at a fixed line
func FixedProfile() Profile {
	return Profile{
		Name:         ProfileFixed,
		AircraftType: "B - 772",
		SeatCount:    "412",
		MinLines:     24,
		Locators: []Locator{
			AtLine("header", 11),
			AtLine("taxi", 22),
			AtLine("trip", 23),
		},
		Fields: map[string]TokenRef{
			FieldFlight:       {Locator: "header", Index: 0},
			FieldRegistration: {Locator: "header", Index: 1},
			FieldDate:         {Locator: "header", Index: 2},
			FieldDestination:  {Locator: "header", Index: 3},
			FieldTaxiFuel:     {Locator: "taxi", Index: 2},
			FieldDOW:          {Locator: "taxi", Index: 5},
			FieldTripFuel:     {Locator: "trip", Index: 3},
			FieldEET:          {Locator: "trip", Index: 2},
		},
	}
}

// AnchoredProfile keeps the header at a fixed line and finds the fuel block
// by its leading keywords, tolerating drift in the lower half of the report.
func AnchoredProfile() Profile {
	p := FixedProfile()
	p.Name = ProfileAnchored
	p.MinLines = 12
	p.Locators = []Locator{
		AtLine("header", 11),
		StartingWith("taxi", "TAXI"),
		StartingWith("trip", "TRIP"),
	}
	return p
}

// Profiles is a named set of document profiles
type Profiles map[string]Profile

// BuiltinProfiles returns fresh copies of the shipped profiles
func BuiltinProfiles() Profiles {
	return Profiles{
		ProfileFixed:    FixedProfile(),
		ProfileAnchored: AnchoredProfile(),
	}
}

// Get returns the named profile
func (ps Profiles) Get(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := ps[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, ps.Names())
	}
	return p, nil
}

// Names returns the profile names in sorted order
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// ParseProfiles decodes a YAML profile list. Missing constants are taken
// from the fixed profile.
func ParseProfiles(data []byte) ([]Profile, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	defaults := FixedProfile()
	for i := range file.Profiles {
		p := &file.Profiles[i]
		if p.AircraftType == "" {
			p.AircraftType = defaults.AircraftType
		}
		if p.SeatCount == "" {
			p.SeatCount = defaults.SeatCount
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	return file.Profiles, nil
}

// LoadProfiles returns the built-in profiles overlaid with those defined in
// path. An empty path yields just the built-ins.
func LoadProfiles(path string) (Profiles, error) {
	profiles := BuiltinProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read profile file: %w", err)
	}

	extra, err := ParseProfiles(data)
	if err != nil {
		return nil, err
	}
	for _, p := range extra {
		profiles[p.Name] = p
	}

	return profiles, nil
}
