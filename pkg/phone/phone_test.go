package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		region  string
		want    string
		wantErr bool
	}{
		{name: "e164 passthrough", input: "+14155552671", want: "+14155552671"},
		{name: "formatted international", input: "+1 (415) 555-2671", want: "+14155552671"},
		{name: "national with default region", input: "4155552671", want: "+14155552671"},
		{name: "national with explicit region", input: "020 7946 0958", region: "gb", want: "+442079460958"},
		{name: "letters rejected", input: "+1415555abcd", wantErr: true},
		{name: "double plus rejected", input: "++14155552671", wantErr: true},
		{name: "inner plus rejected", input: "1+4155552671", wantErr: true},
		{name: "empty", input: "  ", wantErr: true},
		{name: "too short", input: "+1555", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, tt.region)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_FictionalNumberRejected(t *testing.T) {
	// 555-01xx style test numbers are not assignable, callers keep them verbatim.
	_, err := Normalize("+15550001111", "")
	assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
}

func TestRegion(t *testing.T) {
	assert.Equal(t, "US", Region("+14155552671"))
	assert.Equal(t, "GB", Region("+442079460958"))
	assert.Equal(t, "", Region("garbage"))
}
