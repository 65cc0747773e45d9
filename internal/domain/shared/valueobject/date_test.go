package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate("2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseDate("2024-03-31T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseDate("31/03/2024")
	assert.Error(t, err)
}

func TestParseDatePtr(t *testing.T) {
	got, err := ParseDatePtr(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := "  "
	got, err = ParseDatePtr(&blank)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := "2024-01-02"
	got, err = ParseDatePtr(&s)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Day())
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := EndOfDay(d)
	assert.Equal(t, 2, end.Day())
	assert.True(t, end.Add(time.Nanosecond).Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
}
