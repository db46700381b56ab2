package parsers

import "fmt"

// PokemonParser is a placeholder for Pokemon Reporter exports. The format was
// never modeled; every parse reports the tool as unsupported so affected
// tournaments stay unparsed and retryable.
type PokemonParser struct{}

func (p *PokemonParser) Parse(payload string) ([]Round, error) {
	return nil, fmt.Errorf("pokemon reporter: %w", ErrUnsupportedTool)
}
