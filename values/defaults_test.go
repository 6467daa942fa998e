package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	type probe struct {
		name string
	}

	var (
		fallback     = &probe{name: "fallback"}
		missingProbe *probe
		emptyFunc    func() time.Time
	)

	assert.Equal(t, 300*time.Millisecond, UseDefault(time.Duration(0), 300*time.Millisecond))
	assert.Equal(t, time.Second, UseDefault(time.Second, 300*time.Millisecond))
	assert.Equal(t, "127.0.0.1:8000", UseDefault("", "127.0.0.1:8000"))

	assert.Equal(t, "fallback", UseDefaultNil(missingProbe, fallback).name)
	assert.NotNil(t, UseDefaultNil(emptyFunc, time.Now))
}

func TestBetween(t *testing.T) {
	assert.Equal(t, 0.0, UseBetween(-1.5, 0, 100))
	assert.Equal(t, 100.0, UseBetween(250.0, 0, 100))
	assert.Equal(t, 42.5, UseBetween(42.5, 0, 100))
}
