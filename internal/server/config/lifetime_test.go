package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr error
	}{
		{name: "days", in: "7d", want: 7 * 24 * time.Hour},
		{name: "hours", in: "1h", want: time.Hour},
		{name: "minutes", in: "30m", want: 30 * time.Minute},
		{name: "seconds", in: "45s", want: 45 * time.Second},
		{name: "bare number is seconds", in: "10", want: 10 * time.Second},
		{name: "zero", in: "0", want: 0},
		{
			name:    "unknown unit falls back to seconds",
			in:      "5x",
			want:    5 * time.Second,
			wantErr: ErrUnknownLifetimeUnit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLifetime(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLifetime_Invalid(t *testing.T) {
	for _, in := range []string{"", "d", "x7d", "-5s", "abc"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLifetime(in)
			require.Error(t, err)
		})
	}
}
