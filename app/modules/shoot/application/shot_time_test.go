package shootservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShotAt(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
		verify  func(t *testing.T, got time.Time)
	}{
		{
			name:  "empty is now",
			input: "  ",
			verify: func(t *testing.T, got time.Time) {
				assert.True(t, got.Equal(now))
			},
		},
		{
			name:  "rfc3339 with offset",
			input: "2026-05-09T18:00:00+02:00",
			verify: func(t *testing.T, got time.Time) {
				assert.True(t, got.Equal(time.Date(2026, 5, 9, 16, 0, 0, 0, time.UTC)))
				assert.Equal(t, time.UTC, got.Location())
			},
		},
		{
			name:  "plain date",
			input: "2026-04-30",
			verify: func(t *testing.T, got time.Time) {
				assert.True(t, got.Equal(time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)))
			},
		},
		{
			name:  "yesterday",
			input: "Yesterday",
			verify: func(t *testing.T, got time.Time) {
				assert.Equal(t, 9, got.Day())
				assert.Equal(t, time.May, got.Month())
			},
		},
		{
			name:    "gibberish",
			input:   "zzz",
			wantErr: true,
		},
		{
			name:    "future",
			input:   "2026-05-11T00:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseShotAt(tt.input, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}
