package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rakeshbhasyam/RecruitIQ/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello\nworld", textx.SanitizeText("hello\nworld"))
	assert.Equal(t, "ab", textx.SanitizeText("a\x00b"))
	assert.Equal(t, "tabs\tstay", textx.SanitizeText(" tabs\tstay "))
}

func TestCollapseSpaces(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a b c", textx.CollapseSpaces("  a \t b\n\nc  "))
	assert.Equal(t, "", textx.CollapseSpaces("   "))
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", textx.Truncate("short", 10))
	assert.Equal(t, "abc...", textx.Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", textx.Truncate("abcdef", 0))
}
