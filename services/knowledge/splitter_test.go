package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortContent(t *testing.T) {
	assert.Equal(t, []string{"hello world"}, splitText("hello world"))
	assert.Nil(t, splitText(""))
	assert.Nil(t, splitText("   \n  "))
}

func TestSplitTextChunksAndOverlap(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog. "
	content := strings.Repeat(sentence, 60) // ~2700 chars

	chunks := splitText(content)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), chunkSize, "chunk %d exceeds limit", i)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}

	// Consecutive chunks share overlapping text.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i][:50]
		assert.Contains(t, chunks[i-1], head, "chunk %d does not overlap its predecessor", i)
	}

	// Nothing is lost: every sentence boundary position is covered.
	joined := strings.Join(chunks, "")
	assert.Contains(t, joined, "quick brown fox")
}

func TestSplitTextPrefersParagraphBreaks(t *testing.T) {
	para := strings.Repeat("a", 700)
	content := para + "\n\n" + strings.Repeat("b", 700)

	chunks := splitText(content)
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"))
	assert.Equal(t, strings.Repeat("b", 700), strings.TrimLeft(chunks[1], "a\n"))
}
