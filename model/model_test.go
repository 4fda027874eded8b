package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholder_FalseWhenPropertyAbsent(t *testing.T) {
	r := Relationship{Properties: map[string]any{}}
	assert.False(t, r.IsPlaceholder())
}

func TestIsPlaceholder_TrueWhenSetTrue(t *testing.T) {
	r := Relationship{Properties: map[string]any{"isPlaceholder": true}}
	assert.True(t, r.IsPlaceholder())
}

func TestIsPlaceholder_FalseWhenWrongType(t *testing.T) {
	r := Relationship{Properties: map[string]any{"isPlaceholder": "yes"}}
	assert.False(t, r.IsPlaceholder())
}

func TestIsPlaceholder_FalseWhenPropertiesNil(t *testing.T) {
	r := Relationship{}
	assert.False(t, r.IsPlaceholder())
}
