package intake_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/era-intake/internal/intake"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"450.00", 45000, true},
		{"$1,250.5", 125050, true},
		{"0", 0, true},
		{"92233720368547758", 0, false},
		{"92233720368547758.07", 0, false},
		{"99999999999999999999", 0, false},
		{"-5", 0, false},
		{"12.345", 0, false},
		{"lots", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := intake.ParseAmount(tt.in)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.cents, got)
		})
	}
}
