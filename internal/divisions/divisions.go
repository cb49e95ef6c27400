// Package divisions parses Open Civic Data division identifiers into typed
// jurisdiction descriptors and classifies them by government level.
//
// An OCD identifier is a hierarchical path such as
// "ocd-division/country:us/state:wa/cd:7". Classification inspects the last
// governmental segment: congressional districts are federal, state
// legislative districts are state, counties and places are local.
package divisions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable reports a malformed or unsupported OCD identifier. Callers
// check for it with errors.Is; parsing never panics for control flow.
var ErrUnparseable = errors.New("unparseable ocd identifier")

const prefix = "ocd-division/"

// Level groups representatives for the response envelope.
type Level string

const (
	LevelFederal Level = "federal"
	LevelState   Level = "state"
	LevelLocal   Level = "local"
	// LevelUnclassified marks descriptors excluded from provider fan-out but
	// retained for diagnostics.
	LevelUnclassified Level = "unclassified"
)

// Tag classifies the last governmental segment of an identifier.
type Tag string

const (
	TagFederal      Tag = "federal"     // congressional district (cd:)
	TagStateUpper   Tag = "state-upper" // state senate district (sldu:)
	TagStateLower   Tag = "state-lower" // state house district (sldl:)
	TagState        Tag = "state"       // state-wide, no district
	TagCounty       Tag = "county"
	TagPlace        Tag = "place"
	TagCountry      Tag = "country" // country-only (includes district:dc)
	TagUnclassified Tag = "unclassified"
)

// GovernmentLevel maps a tag onto the three response levels.
func (t Tag) GovernmentLevel() Level {
	switch t {
	case TagFederal, TagCountry:
		return LevelFederal
	case TagStateUpper, TagStateLower, TagState:
		return LevelState
	case TagCounty, TagPlace:
		return LevelLocal
	default:
		return LevelUnclassified
	}
}

// Descriptor is the parsed, typed form of an OCD identifier.
type Descriptor struct {
	Country  string
	State    string // two-letter code, "" for country-only identifiers
	Tag      Tag
	District string // district number or subdivision name, "" if none
	Raw      string // original identifier, retained for joins and diagnostics
}

// Level returns the government level the descriptor belongs to.
func (d Descriptor) Level() Level {
	return d.Tag.GovernmentLevel()
}

// segment types this parser understands, in classification precedence order.
var knownTypes = map[string]bool{
	"country": true, "state": true, "district": true,
	"cd": true, "sldu": true, "sldl": true,
	"county": true, "place": true,
}

// Parse turns an OCD identifier into a Descriptor.
//
// Classification precedence: congressional district > county > place >
// state upper/lower district > state-wide > country-only. Identifiers whose
// final segment type is unrecognized classify as unclassified rather than
// failing, so they can be reported in diagnostics without joining fan-out.
func Parse(ocdID string) (Descriptor, error) {
	if !strings.HasPrefix(ocdID, prefix) {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnparseable, ocdID)
	}

	segments := strings.Split(strings.TrimPrefix(ocdID, prefix), "/")
	components := make(map[string]string, len(segments))
	lastType := ""
	for _, segment := range segments {
		key, value, ok := strings.Cut(segment, ":")
		if !ok || key == "" || value == "" {
			return Descriptor{}, fmt.Errorf("%w: bad segment %q in %q", ErrUnparseable, segment, ocdID)
		}
		components[key] = value
		lastType = key
	}

	if components["country"] != "us" {
		return Descriptor{}, fmt.Errorf("%w: non-US identifier %q", ErrUnparseable, ocdID)
	}

	d := Descriptor{
		Country: components["country"],
		State:   components["state"],
		Raw:     ocdID,
	}

	if !knownTypes[lastType] {
		d.Tag = TagUnclassified
		return d, nil
	}

	switch {
	case components["cd"] != "":
		d.Tag = TagFederal
		d.District = components["cd"]
	case components["county"] != "":
		d.Tag = TagCounty
		d.District = components["county"]
	case components["place"] != "":
		d.Tag = TagPlace
		d.District = components["place"]
	case components["sldu"] != "":
		d.Tag = TagStateUpper
		d.District = components["sldu"]
	case components["sldl"] != "":
		d.Tag = TagStateLower
		d.District = components["sldl"]
	case d.State != "":
		d.Tag = TagState
	case components["district"] == "dc":
		// Washington DC sits directly under the country segment.
		d.Tag = TagCountry
		d.District = "dc"
	default:
		d.Tag = TagCountry
	}

	return d, nil
}

// GovernmentLevel classifies an identifier without exposing the descriptor.
func GovernmentLevel(ocdID string) (Level, error) {
	d, err := Parse(ocdID)
	if err != nil {
		return "", err
	}
	return d.Level(), nil
}
