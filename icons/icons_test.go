package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "logo-ionic", want: "logoIonic"},
		{name: "add", want: "add"},
		{name: "arrow-back-circle-outline", want: "arrowBackCircleOutline"},
		{name: "logo-html5", want: "logoHtml5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToIdentifier(tt.name))
		})
	}
}

func TestToKebab_RoundTrip(t *testing.T) {
	names := []string{"logo-ionic", "add", "arrow-back-circle-outline", "heart-outline", "logo-html5"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, ToKebab(ToIdentifier(name)))
		})
	}
}

func TestToKebab_DigitLeadingSegment(t *testing.T) {
	assert.Equal(t, "logo500px", ToIdentifier("logo-500px"))
	assert.Equal(t, "logo500px", ToKebab(ToIdentifier("logo-500px")))
	assert.Equal(t, "a1b", ToKebab(ToIdentifier("a-1b")))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("logo-ionic"))
	assert.True(t, IsValidName("add"))
	assert.True(t, IsValidName("logo-html5"))

	assert.False(t, IsValidName(""))
	assert.False(t, IsValidName("Logo-Ionic"))
	assert.False(t, IsValidName("logo--ionic"))
	assert.False(t, IsValidName("-logo"))
	assert.False(t, IsValidName("{{ icon }}"))
}
