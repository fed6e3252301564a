package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowRoundTrip(t *testing.T) {
	s := Now()
	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, 2*time.Second)
}

func TestLayoutSortsLexicographically(t *testing.T) {
	earlier := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC).Format(Layout)
	later := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Format(Layout)
	nextDay := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC).Format(Layout)

	assert.Less(t, earlier, later)
	assert.Less(t, later, nextDay)
}
