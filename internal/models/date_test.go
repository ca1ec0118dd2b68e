package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", d.String())

	_, err = ParseDate("02/01/2024")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded)
}

func TestDateScanTruncatesTime(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-20", d.String())

	require.NoError(t, d.Scan("2024-05-21"))
	assert.Equal(t, "2024-05-21", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateOrdering(t *testing.T) {
	early, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	late, err := ParseDate("2024-01-02")
	require.NoError(t, err)

	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.False(t, early.Before(early))
}
