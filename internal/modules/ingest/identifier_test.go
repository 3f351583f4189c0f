package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "S1043", want: 1043},
		{in: "#1043", want: 1043},
		{in: "WS007", want: 7},
		{in: " S12 ", want: 12},
		{in: "S", wantErr: true},
		{in: "S12B", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSequence(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeIdentifiers_Gaps(t *testing.T) {
	report, err := AnalyzeIdentifiers([]string{"S1", "S3", "S5"}, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Min)
	assert.Equal(t, int64(5), report.Max)
	assert.Equal(t, []int64{2, 4}, report.Gaps)
}

func TestAnalyzeIdentifiers_NoGaps(t *testing.T) {
	report, err := AnalyzeIdentifiers([]string{"S12", "S10", "S11"}, 10000)
	require.NoError(t, err)
	assert.Empty(t, report.Gaps)
	assert.NotNil(t, report.Gaps)
}

func TestAnalyzeIdentifiers_Invalid(t *testing.T) {
	_, err := AnalyzeIdentifiers([]string{"S1", "GIFT"}, 10000)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 1)

	_, err = AnalyzeIdentifiers([]string{"S1", "S900000"}, 10000)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "malformed identifier range")
}

func TestAnalyzeIdentifiers_RangeLimit(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{name: "exactly at limit", ids: []string{"S1", "S10"}, wantErr: false},
		{name: "one past limit", ids: []string{"S1", "S11"}, wantErr: true},
		{name: "top of int64", ids: []string{"S9223372036854775798", "S9223372036854775807"}, wantErr: false},
		{name: "full int64 range", ids: []string{"S0", "S9223372036854775807"}, wantErr: true},
		{name: "hash prefixed full range", ids: []string{"#0", "#9223372036854775807"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := AnalyzeIdentifiers(tt.ids, 10)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, report.Gaps, 8)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), "malformed identifier range")
			assert.Nil(t, report.Gaps)
		})
	}
}
