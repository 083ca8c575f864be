package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSeqSetAcceptsStringsAndNumbers(t *testing.T) {
	set, err := DecodeSeqSet([]byte(`["12", 7, " 3 ", ""]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "3", "7"}, set.Sorted())

	empty, err := DecodeSeqSet(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	null, err := DecodeSeqSet([]byte("null"))
	require.NoError(t, err)
	assert.Equal(t, 0, null.Len())
}

func TestSeqSetMarshalsSorted(t *testing.T) {
	raw, err := json.Marshal(NewSeqSet("b", "a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(raw))
}

func TestParseOptionalDateRange(t *testing.T) {
	rng, err := ParseOptionalDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, rng)

	_, err = ParseOptionalDateRange("", "2024-01-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	rng, err = ParseOptionalDateRange("2024-02-01", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2024-01-01", End: "2024-02-01"}, *rng)
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	rng := NewDateRange("2024-01-01", "2024-01-31")
	assert.True(t, rng.Contains("2024-01-01"))
	assert.True(t, rng.Contains("2024-01-31"))
	assert.False(t, rng.Contains("2024-02-01"))
	assert.False(t, rng.Contains("2023-12-31"))
}

func TestDateRangeDaysCrossesMonthEnd(t *testing.T) {
	rng := NewDateRange("2024-02-28", "2024-03-01")
	days, err := rng.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, days)
	assert.Equal(t, 3, rng.DayCount())
}

func TestOwnerDirectoryName(t *testing.T) {
	dir := NewOwnerDirectory(map[string]string{"Kim@Example.com": "Kim Minji"})
	assert.Equal(t, "Kim Minji", dir.Name("kim@example.com"))
	assert.Equal(t, "lee", dir.Name("lee@example.com"))
	assert.Equal(t, "unassigned", dir.Name("unassigned"))
}

func TestStatusGroupsNormalize(t *testing.T) {
	groups := DefaultStatusGroups()
	assert.True(t, groups.IsInstallCompleted("qr_menu_install"))
	assert.True(t, groups.IsChurned(StatusServiceTerminated))
	assert.False(t, groups.IsInstallCompleted(StatusPending))
	assert.False(t, groups.IsChurned(StatusDefectRepair))
}
