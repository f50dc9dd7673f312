package scanner

import (
	"sort"
	"strings"
)

// sortEntries orders a listing in place. Directories always precede files
// regardless of the requested field or direction. Within the same kind the
// requested field applies; descending negates the field comparison only.
func sortEntries(entries []Entry, by SortField, dir SortDirection) {
	desc := dir == SortDesc

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		c := compareEntries(a, b, by)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareEntries(a, b Entry, by SortField) int {
	switch by {
	case SortBySize:
		// Size is not meaningful for directories; fall back to names.
		if a.IsDir && b.IsDir {
			return naturalCompare(a.Name, b.Name)
		}
		if a.Size != b.Size {
			if a.Size < b.Size {
				return -1
			}
			return 1
		}
		return naturalCompare(a.Name, b.Name)
	case SortByModified:
		if !a.Modified.Equal(b.Modified) {
			if a.Modified.Before(b.Modified) {
				return -1
			}
			return 1
		}
		return naturalCompare(a.Name, b.Name)
	default:
		return naturalCompare(a.Name, b.Name)
	}
}

// naturalCompare orders strings case-insensitively with embedded numeric
// substrings compared by value, so "a2" sorts before "a10".
func naturalCompare(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]

		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[si:i], "0")
			nb := strings.TrimLeft(b[sj:j], "0")
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			// Equal values; shorter run of leading zeros first.
			if zla, zlb := i-si, j-sj; zla != zlb {
				if zla < zlb {
					return -1
				}
				return 1
			}
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
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
