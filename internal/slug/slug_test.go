package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gaming Laptops", "gaming-laptops"},
		{"  ASUS  ROG  ", "asus-rog"},
		{"Intel Core™ i7 / 14th Gen", "intel-core-i7-14th-gen"},
		{"Café Délice", "cafe-delice"},
		{"Wi-Fi 6+", "wi-fi-6-plus"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("rtx-4090"))
	assert.False(t, Valid("RTX 4090"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("trailing-"))
}
