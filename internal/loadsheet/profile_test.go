package loadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customProfiles = `
profiles:
  - name: shifted
    min_lines: 20
    locators:
      - {name: header, kind: positional, offset: 9}
      - {name: taxi, kind: keyword, phrase: TAXI}
      - {name: trip, kind: keyword, phrase: "TRIP FUEL"}
    fields:
      flight: {locator: header, index: 0}
      registration: {locator: header, index: 1}
      date: {locator: header, index: 2}
      destination: {locator: header, index: 3}
      taxi_fuel: {locator: taxi, index: 2}
      dow: {locator: taxi, index: 5}
      trip_fuel: {locator: trip, index: 4}
      eet: {locator: trip, index: 3}
  - name: fixed
    aircraft_type: A - 333
    seat_count: "296"
    locators:
      - {name: header, kind: positional, offset: 11}
    fields:
      flight: {locator: header, index: 0}
      registration: {locator: header, index: 1}
      date: {locator: header, index: 2}
      destination: {locator: header, index: 3}
      taxi_fuel: {locator: header, index: 4}
      dow: {locator: header, index: 5}
      trip_fuel: {locator: header, index: 6}
      eet: {locator: header, index: 7}
`

func TestBuiltinProfiles(t *testing.T) {
	profiles := BuiltinProfiles()

	for _, name := range []string{ProfileFixed, ProfileAnchored} {
		p, err := profiles.Get(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate())
	}

	assert.Equal(t, 24, FixedProfile().RequiredLines())
	assert.Equal(t, 12, AnchoredProfile().RequiredLines())
	assert.Equal(t, []string{ProfileAnchored, ProfileFixed}, profiles.Names())
}

func TestProfiles_GetDefaultAndUnknown(t *testing.T) {
	profiles := BuiltinProfiles()

	p, err := profiles.Get("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, p.Name)

	_, err = profiles.Get("nope")
	assert.Error(t, err)
}

func TestBuiltinProfiles_AreCopies(t *testing.T) {
	a := BuiltinProfiles()
	a[ProfileFixed].Fields[FieldFlight] = TokenRef{Locator: "header", Index: 9}

	b := BuiltinProfiles()
	assert.Equal(t, 0, b[ProfileFixed].Fields[FieldFlight].Index)
}

func TestRequiredLines_PositionalOffsetWins(t *testing.T) {
	p := Profile{MinLines: 5, Locators: []Locator{AtLine("deep", 30), StartingWith("k", "K")}}
	assert.Equal(t, 31, p.RequiredLines())
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"empty name", func(p *Profile) { p.Name = "" }},
		{"negative min lines", func(p *Profile) { p.MinLines = -1 }},
		{"unmapped field", func(p *Profile) { delete(p.Fields, FieldEET) }},
		{"unknown locator", func(p *Profile) { p.Fields[FieldEET] = TokenRef{Locator: "ghost"} }},
		{"negative index", func(p *Profile) { p.Fields[FieldEET] = TokenRef{Locator: "trip", Index: -1} }},
		{"duplicate locator", func(p *Profile) { p.Locators = append(p.Locators, AtLine("trip", 1)) }},
		{"bad locator", func(p *Profile) { p.Locators[1].Phrase = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AnchoredProfile()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customProfiles), 0o644))

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)

	shifted, err := profiles.Get("shifted")
	require.NoError(t, err)
	assert.Equal(t, 20, shifted.RequiredLines())
	assert.Equal(t, "B - 772", shifted.AircraftType)
	assert.Equal(t, "412", shifted.SeatCount)
	assert.Equal(t, Keyword, shifted.Locators[2].Kind)

	fixed, err := profiles.Get(ProfileFixed)
	require.NoError(t, err)
	assert.Equal(t, "A - 333", fixed.AircraftType)
	assert.Equal(t, 12, fixed.RequiredLines())

	_, err = profiles.Get(ProfileAnchored)
	assert.NoError(t, err)
}

func TestLoadProfiles_Errors(t *testing.T) {
	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseProfiles([]byte("profiles: [{name: broken}]"))
	assert.Error(t, err)

	_, err = ParseProfiles([]byte("profiles: {"))
	assert.Error(t, err)
}

func TestCustomProfileExtracts(t *testing.T) {
	ps, err := ParseProfiles([]byte(customProfiles))
	require.NoError(t, err)
	shifted := ps[0]

	lines := filler(20)
	lines[9] = "SU100 RA73331 2025-03-01 UUEEVKO"
	lines[15] = "TRIP FUEL X 0210 51200"
	lines[16] = "TAXI 1 600 0 0 145000"

	ex := Extract(lines, shifted.Locators)
	rec := Assemble(t.Context(), ex.Fields, shifted, Inputs{BlockFuel: "60000"}, nil)

	assert.Equal(t, "EVKO", mustGet(t, rec, LabelDestination).String())
	assert.Equal(t, int64(51200), mustGet(t, rec, LabelTripFuel).Int64())
	assert.Equal(t, "0210", mustGet(t, rec, LabelEET).String())
	assert.Equal(t, int64(59400), mustGet(t, rec, LabelTakeOffFuel).Int64())
	assert.Equal(t, "145000", mustGet(t, rec, LabelDOW).String())
}
