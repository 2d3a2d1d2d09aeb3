package types

// Strategy selects the primary comparison applied to entry names.
type Strategy int

const (
	// StrategyAlphabetical orders case-folded names code point by code point.
	StrategyAlphabetical Strategy = iota
	// StrategyNatural orders like StrategyAlphabetical but compares runs of
	// digits numerically, so "file2" sorts before "file10".
	StrategyNatural
)

// StrategyNames lists the accepted configuration spellings.
var StrategyNames = []string{"alphabetical", "natural"}

// String returns the configuration spelling of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyNatural:
		return "natural"
	default:
		return "alphabetical"
	}
}
