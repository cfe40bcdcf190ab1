package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContinue(t *testing.T) {

	var r Registry
	r.Initialize()

	// first request of a client is always a new visit
	assert.True(t, r.Continue("10.0.0.1", "game-1"))

	// plain refresh of the same profile
	assert.False(t, r.Continue("10.0.0.1", "game-1"))

	// moving on to another profile counts again
	assert.True(t, r.Continue("10.0.0.1", "game-2"))

	// other clients are tracked independently
	assert.True(t, r.Continue("10.0.0.2", "game-1"))

	assert.Equal(t, 2, r.Count())
}

func TestDump(t *testing.T) {

	var r Registry
	r.Initialize()

	r.Continue("10.0.0.1", "game-1")
	r.Continue("10.0.0.2", "game-2")
	r.Continue("10.0.0.3", "game-3")

	assert.Len(t, r.Dump(50), 3)
	assert.Len(t, r.Dump(2), 2)
}
