package ocrengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPlateChars(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"34 abc-123", "34ABC123"},
		{"34.ABC.123", "34ABC123"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, filterPlateChars(c.in))
	}
}
