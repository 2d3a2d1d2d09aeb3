// Package sorting implements the multi-criteria comparison that produces a
// total order over directory entries under a given configuration.
package sorting

import (
	"strings"
	"unicode"

	"treepanel/pkg/types"
)

// SortConfig controls how entries are ordered. It is a value type: changing
// sort behavior means installing a new SortConfig, never mutating one that is
// already in use.
type SortConfig struct {
	Strategy       types.Strategy
	Reversed       bool
	UppercaseFirst bool
	GroupByType    bool
}

// Compare returns a negative, zero, or positive value ordering a before,
// equal to, or after b under cfg. It is total and deterministic: for any
// fixed config the result is antisymmetric and transitive, and identical
// entries compare equal.
//
// Criteria apply in order, first non-zero result wins:
//  1. kind class when GroupByType is set (directories before files, then
//     normalized extension, case-insensitive)
//  2. the primary strategy over the case-folded name
//  3. uppercase/lowercase precedence on the raw name, per UppercaseFirst
//  4. exact code-point order of the raw names
//
// Reversed negates the combined result as the final step, so the whole order
// inverts, grouping included: a reversed, type-grouped listing shows files
// before directories.
func Compare(a, b *types.Entry, cfg SortConfig) int {
	r := compareKeys(ExtractKey(a), ExtractKey(b), cfg)
	if cfg.Reversed {
		r = -r
	}
	return r
}

func compareKeys(a, b types.SortKey, cfg SortConfig) int {
	if cfg.GroupByType {
		if a.KindClass != b.KindClass {
			if a.KindClass == types.KindDirectory {
				return -1
			}
			return 1
		}
		if a.KindClass == types.KindFile {
			if c := strings.Compare(a.Ext, b.Ext); c != 0 {
				return c
			}
		}
	}

	var c int
	switch cfg.Strategy {
	case types.StrategyNatural:
		c = naturalCompare(a.ComparableName, b.ComparableName)
	default:
		c = strings.Compare(a.ComparableName, b.ComparableName)
	}
	if c != 0 {
		return c
	}

	if c := caseCompare(a.RawName, b.RawName, cfg.UppercaseFirst); c != 0 {
		return c
	}

	// Final deterministic tie-break for names identical up to casing,
	// including degenerate ones differing only in invisible characters.
	return strings.Compare(a.RawName, b.RawName)
}

// caseCompare orders two raw names that are equal case-insensitively. At the
// first rune where only the casing differs, the uppercase variant wins when
// upperFirst is set, the lowercase one otherwise. Returns 0 when casing alone
// cannot decide.
func caseCompare(a, b string, upperFirst bool) int {
	ar := []rune(a)
	br := []rune(b)
	n := len(ar)
	if len(br) < n {
		n = len(br)
	}
	for i := 0; i < n; i++ {
		if ar[i] == br[i] {
			continue
		}
		aUpper := unicode.IsUpper(ar[i])
		bUpper := unicode.IsUpper(br[i])
		if aUpper == bUpper {
			return 0
		}
		if aUpper == upperFirst {
			return -1
		}
		return 1
	}
	return 0
}

// naturalCompare orders code point by code point, except that maximal runs of
// ASCII digits compare as numbers. Equal numbers with different digit counts
// ("2" vs "02") order by digit count so the comparison stays antisymmetric.
func naturalCompare(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		ca, cb := ar[i], br[j]
		if isASCIIDigit(ca) && isASCIIDigit(cb) {
			aNum, aDigits := takeNumber(ar, i)
			bNum, bDigits := takeNumber(br, j)
			if aNum != bNum {
				if aNum < bNum {
					return -1
				}
				return 1
			}
			if aDigits != bDigits {
				if aDigits < bDigits {
					return -1
				}
				return 1
			}
			i += aDigits
			j += bDigits
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(ar):
		return 1
	case j < len(br):
		return -1
	}
	return 0
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// takeNumber reads the digit run starting at position i and returns its
// numeric value and length in runes.
func takeNumber(rs []rune, i int) (uint64, int) {
	var n uint64
	count := 0
	for i+count < len(rs) && isASCIIDigit(rs[i+count]) {
		n = n*10 + uint64(rs[i+count]-'0')
		count++
	}
	return n, count
}
