package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberHedgedocUsername(t *testing.T) {
	member := &Member{Username: "alice"}
	assert.Equal(t, "alice@ctfpad", member.HedgedocUsername())
}

func TestMemberIsAnonymousOnHedgedoc(t *testing.T) {
	assert.True(t, (&Member{}).IsAnonymousOnHedgedoc())
	assert.False(t, (&Member{HedgedocPassword: "secret"}).IsAnonymousOnHedgedoc())
}

func TestCountryAndTimezoneValidation(t *testing.T) {
	assert.True(t, IsValidCountry(""))
	assert.True(t, IsValidCountry("France"))
	assert.False(t, IsValidCountry("Atlantis"))

	assert.True(t, IsValidTimezone("UTC"))
	assert.False(t, IsValidTimezone("UTC+25"))
}
