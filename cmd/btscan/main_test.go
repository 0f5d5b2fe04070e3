package main

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentify_catalogueMatch(t *testing.T) {
	match, ok := identify("AC3002139000462139", nil)
	assert.True(t, ok)
	assert.Equal(t, "AC3002139000462139", match)
}

func TestIdentify_barePBOXAlwaysReported(t *testing.T) {
	match, ok := identify("PBOX1234567890", nil)
	assert.True(t, ok)
	assert.Equal(t, "PBOX1234567890", match)
}

func TestIdentify_customRegexTakesPriority(t *testing.T) {
	re := regexp.MustCompile(`^Foo\d+`)
	match, ok := identify("Foo123Bar", re)
	assert.True(t, ok)
	assert.Equal(t, "Foo123", match)
}

func TestIdentify_noMatch(t *testing.T) {
	_, ok := identify("SomeRandomDevice", nil)
	assert.False(t, ok)
}
