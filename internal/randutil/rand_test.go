package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(1, "Akos"), DeriveSeed(1, "Akos"))
	assert.NotEqual(t, DeriveSeed(1, "Akos"), DeriveSeed(1, "Razvan"))
	assert.NotEqual(t, DeriveSeed(1, "Akos"), DeriveSeed(2, "Akos"))
}
