package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestNaturalCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"a2.txt", "a10.txt", -1},
		{"a10.txt", "a2.txt", 1},
		{"a2.txt", "a2.txt", 0},
		{"A2.txt", "a2.txt", 0},
		{"file", "file2", -1},
		{"b.txt", "a10.txt", 1},
		{"img001", "img1", 1},
		{"10", "9", 1},
	}
	for _, tc := range cases {
		got := naturalCompare(tc.a, tc.b)
		switch tc.want {
		case 0:
			assert.Zero(t, got, "%s vs %s", tc.a, tc.b)
		case -1:
			assert.Negative(t, got, "%s vs %s", tc.a, tc.b)
		case 1:
			assert.Positive(t, got, "%s vs %s", tc.a, tc.b)
		}
	}
}

func TestSortNaturalOrdering(t *testing.T) {
	entries := []Entry{
		{Name: "b.txt"},
		{Name: "a10.txt"},
		{Name: "a2.txt"},
	}
	sortEntries(entries, SortByName, SortAsc)
	assert.Equal(t, []string{"a2.txt", "a10.txt", "b.txt"}, names(entries))
}

func TestSortDirectoriesFirst(t *testing.T) {
	entries := []Entry{
		{Name: "zebra", IsDir: true},
		{Name: "apple.txt", Size: 10},
		{Name: "alpha", IsDir: true},
		{Name: "big.bin", Size: 999},
	}

	for _, field := range []SortField{SortByName, SortBySize, SortByModified} {
		for _, dir := range []SortDirection{SortAsc, SortDesc} {
			sortEntries(entries, field, dir)
			assert.True(t, entries[0].IsDir, "field=%s dir=%s", field, dir)
			assert.True(t, entries[1].IsDir, "field=%s dir=%s", field, dir)
			assert.False(t, entries[2].IsDir, "field=%s dir=%s", field, dir)
		}
	}
}

func TestSortBySizeFallsBackToNameForDirs(t *testing.T) {
	entries := []Entry{
		{Name: "dir10", IsDir: true, Size: 1},
		{Name: "dir2", IsDir: true, Size: 99},
		{Name: "small.txt", Size: 1},
		{Name: "large.txt", Size: 100},
	}
	sortEntries(entries, SortBySize, SortAsc)
	assert.Equal(t, []string{"dir2", "dir10", "small.txt", "large.txt"}, names(entries))
}

func TestSortByModified(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{Name: "new.txt", Modified: now},
		{Name: "old.txt", Modified: now.Add(-time.Hour)},
	}
	sortEntries(entries, SortByModified, SortAsc)
	assert.Equal(t, []string{"old.txt", "new.txt"}, names(entries))

	sortEntries(entries, SortByModified, SortDesc)
	assert.Equal(t, []string{"new.txt", "old.txt"}, names(entries))
}

func TestSortDescendingNegatesWithinKind(t *testing.T) {
	entries := []Entry{
		{Name: "a.txt"},
		{Name: "b.txt"},
		{Name: "dir", IsDir: true},
	}
	sortEntries(entries, SortByName, SortDesc)
	// Directory still leads; files reversed.
	assert.Equal(t, []string{"dir", "b.txt", "a.txt"}, names(entries))
}
