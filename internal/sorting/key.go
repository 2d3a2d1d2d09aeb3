package sorting

import (
	"strings"

	"treepanel/pkg/types"
)

// ExtractKey projects an entry onto the attributes the comparator orders by.
// Pure and total: every entry has a derivable key, and an absent extension
// maps to the empty string, which sorts before all real extensions.
func ExtractKey(e *types.Entry) types.SortKey {
	return types.SortKey{
		KindClass:      e.Kind,
		ComparableName: strings.ToLower(e.Name),
		RawName:        e.Name,
		Ext:            e.Extension(),
	}
}
