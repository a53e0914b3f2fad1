package plate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRoundTrip(t *testing.T) {
	require.Equal(t, "34ABC123", Format("34 abc 123"))
	assert.True(t, Validate("34ABC123"))
	assert.Equal(t, "34 ABC 123", Beautify("34ABC123"))
}

func TestRejectNonPlate(t *testing.T) {
	assert.False(t, Validate("HELLO"))
	assert.Equal(t, "HELLO", Format("HELLO"))
}

func TestFormatIdempotent(t *testing.T) {
	for _, in := range []string{"34 abc 123", "34a12345", "hello", ""} {
		once := Format(in)
		assert.Equal(t, once, Format(once), "Format not idempotent for %q", in)
	}
}

func TestValidateShortAndLongForms(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"34ABC123", true},   // 2 digits, 3 letters, 3 digits
		{"34AB1234", true},   // 2 digits, 2 letters, 4 digits
		{"34A12345", true},   // 2 digits, 1 letter, 5 digits
		{"34A1234", true},    // 2 digits, 1 letter, 4 digits
		{"ABC12345", false},  // must start with 2 digits
		{"341234567", false}, // no letters at all
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Validate(c.in), "Validate(%q)", c.in)
	}
}
