package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackPushPop(t *testing.T) {
	var s Stack[int]
	assert.True(t, s.Empty())

	s.Push(1)
	s.Push(2)
	assert.False(t, s.Empty())

	v, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, s.Empty())
	_, ok = s.Pop()
	assert.False(t, ok)
}
