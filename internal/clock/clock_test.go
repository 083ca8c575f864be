package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockSet(t *testing.T) {
	c := NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600)))
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.Equal(t, 0, c.Now().Hour())

	c.Set(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.February, c.Now().Month())
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, System().Now().Location())
}
