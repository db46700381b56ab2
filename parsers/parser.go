// Package parsers turns reporting-tool exports into a round/match tree the
// tournament importer can walk. One parser per reporter tool; picking is done
// by the explicit tool enum, never by probing the payload.
package parsers

import (
	"errors"
	"time"

	"league-system/models"
)

// ErrUnsupportedTool marks payloads from tools without an implemented parser.
// The tournament save path treats it as "results not yet parseable" and leaves
// the tournament for a later retry instead of failing the save.
var ErrUnsupportedTool = errors.New("reporter tool not supported")

// Person is a participant as reported by the tool, identified only by the
// game-specific number (e.g. DCI number).
type Person struct {
	ID string
}

// ReportedMatch is one pairing inside a round. OpponentID is empty when the
// person had a bye.
type ReportedMatch struct {
	PersonID   string
	OpponentID string
	Wins       int
	Losses     int
}

// Round groups the pairings played at one reported date.
type Round struct {
	Date    time.Time
	People  []Person
	Matches []ReportedMatch
}

// ResultParser parses a raw export payload into rounds, in document order.
type ResultParser interface {
	Parse(payload string) ([]Round, error)
}

// ForTool returns the parser for the given reporter tool, or
// ErrUnsupportedTool when no parser exists for it.
func ForTool(tool models.ReporterTool) (ResultParser, error) {
	switch tool {
	case models.ReporterToolWizards:
		return &WizardsParser{}, nil
	case models.ReporterToolPokemon:
		return &PokemonParser{}, nil
	default:
		return nil, ErrUnsupportedTool
	}
}
