package parsers

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// WizardsParser reads exports of Wizard's Event Reporter 4.x. The payload is a
// tree whose `matches` element holds `round` elements; each round carries
// `person` participants and `match` pairings as attributes.
type WizardsParser struct{}

type wizardsRound struct {
	Date    string          `xml:"date,attr"`
	Persons []wizardsPerson `xml:"person"`
	Matches []wizardsMatch  `xml:"match"`
}

type wizardsPerson struct {
	ID string `xml:"id,attr"`
}

type wizardsMatch struct {
	Person   string  `xml:"person,attr"`
	Opponent *string `xml:"opponent,attr"` // absent = bye
	Win      string  `xml:"win,attr"`
	Loss     string  `xml:"loss,attr"`
}

// Parse walks the document for `round` elements so the exact wrapper shape
// around `matches` does not matter; exports differ between reporter builds.
func (p *WizardsParser) Parse(payload string) ([]Round, error) {
	dec := xml.NewDecoder(strings.NewReader(payload))

	var rounds []Round
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("malformed reporter payload: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "round" {
			continue
		}

		var raw wizardsRound
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return nil, fmt.Errorf("malformed round element: %w", err)
		}
		round, err := p.convertRound(raw)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}

	if len(rounds) == 0 {
		return nil, errors.New("reporter payload contains no rounds")
	}
	return rounds, nil
}

func (p *WizardsParser) convertRound(raw wizardsRound) (Round, error) {
	date, err := dateparse.ParseAny(raw.Date)
	if err != nil {
		return Round{}, fmt.Errorf("unparseable round date %q: %w", raw.Date, err)
	}

	round := Round{Date: date}
	for _, person := range raw.Persons {
		round.People = append(round.People, Person{ID: person.ID})
	}
	for _, m := range raw.Matches {
		wins, err := strconv.Atoi(m.Win)
		if err != nil {
			return Round{}, fmt.Errorf("bad win count %q for person %s: %w", m.Win, m.Person, err)
		}
		losses, err := strconv.Atoi(m.Loss)
		if err != nil {
			return Round{}, fmt.Errorf("bad loss count %q for person %s: %w", m.Loss, m.Person, err)
		}
		reported := ReportedMatch{PersonID: m.Person, Wins: wins, Losses: losses}
		if m.Opponent != nil {
			reported.OpponentID = *m.Opponent
		}
		round.Matches = append(round.Matches, reported)
	}
	return round, nil
}
