package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "2025-03-07 23:45:10 -0500", want: "2025-03-07"},
		{raw: "2025-03-07T01:15:00Z", want: "2025-03-07"},
		{raw: "2025-03-07", want: "2025-03-07"},
		{raw: "03/07/2025 09:30", want: "2025-03-07"},
		{raw: "3/7/2025", want: "2025-03-07"},
		{raw: "3/7/25", want: "2025-03-07"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseOrderDate(tt.raw, loc, 12)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, 12, got.Hour())
			assert.Equal(t, loc, got.Location())
			// Still the same calendar day when viewed in UTC.
			assert.Equal(t, tt.want, got.UTC().Format("2006-01-02"))
		})
	}
}

func TestParseOrderDate_Unrecognized(t *testing.T) {
	_, err := ParseOrderDate("next tuesday", time.UTC, 12)
	assert.ErrorContains(t, err, "unrecognized date")
}
