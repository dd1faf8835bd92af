package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultTarget(t *testing.T) {
	assert.Equal(t, DefaultTargetChars, New(0).TargetChars)
	assert.Equal(t, DefaultTargetChars, New(-5).TargetChars)
	assert.Equal(t, 40, New(40).TargetChars)
}

func TestSplit_EmptyInput(t *testing.T) {
	c := New(600)
	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\t  "))
	assert.Empty(t, c.Split("..!?"))
}

func TestSplit_SingleSentence(t *testing.T) {
	c := New(600)
	chunks := c.Split("Cats are mammals.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Cats are mammals", chunks[0])
}

func TestSplit_AccumulatesUpToTarget(t *testing.T) {
	// Two short sentences fit in one chunk at the default size.
	c := New(600)
	chunks := c.Split("Cats are mammals. Dogs are mammals too.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Cats are mammals Dogs are mammals too", chunks[0])
}

func TestSplit_FlushesBeforeOverflow(t *testing.T) {
	c := New(40)
	chunks := c.Split("Cats are mammals. Dogs are mammals too. Fish live in water.")
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 40)
	}
	// First two sentences fit together under 40 chars.
	assert.Equal(t, "Cats are mammals Dogs are mammals too", chunks[0])
	assert.Equal(t, "Fish live in water", chunks[1])
}

func TestSplit_SizeBound(t *testing.T) {
	var sentences []string
	for i := 0; i < 50; i++ {
		sentences = append(sentences, "The quick brown fox jumps over the dog.")
	}
	c := New(120)
	for _, chunk := range c.Split(strings.Join(sentences, " ")) {
		assert.LessOrEqual(t, len(chunk), 120)
	}
}

func TestSplit_OversizedSegmentEmittedWhole(t *testing.T) {
	long := strings.Repeat("word ", 30) // ~150 chars, no terminal punctuation inside
	c := New(40)
	chunks := c.Split(long + ". Short one.")
	require.Len(t, chunks, 2)
	assert.Greater(t, len(chunks[0]), 40) // never split mid-segment
	assert.Equal(t, "Short one", chunks[1])
}

func TestSplit_Coverage(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon! Zeta eta theta? Iota kappa."
	c := New(25)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	// Joining all chunks reproduces every non-whitespace word of the
	// source, in order, modulo the separator punctuation.
	joined := strings.Join(chunks, " ")
	for _, word := range []string{"Alpha", "beta", "gamma", "Delta", "epsilon", "Zeta", "eta", "theta", "Iota", "kappa"} {
		assert.Contains(t, joined, word)
	}
	assert.LessOrEqual(t, len(joined), len(text))
}

func TestSplit_TrailingWhitespaceBetweenSentences(t *testing.T) {
	c := New(600)
	chunks := c.Split("One.   \n\n  Two.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "One Two", chunks[0])
}
