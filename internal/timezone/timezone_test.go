package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("America/New_York"))
	assert.True(t, IsValid("Europe/Lisbon"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus_Mons"))
}

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("not-a-zone")
	assert.Equal(t, DefaultTimezone, loc.String())

	loc = Location("America/Los_Angeles")
	assert.Equal(t, "America/Los_Angeles", loc.String())
}
