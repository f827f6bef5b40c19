package sequence

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNucleic(t *testing.T) {
	s, err := Parse("gf0001-consensus", "acgt\nNNac gt")
	require.NoError(t, err)
	assert.True(t, IsNucleic(s))
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, "ACGTNNACGT", Residues(s))
}

func TestParseProtein(t *testing.T) {
	s, err := Parse("glyma.Chr01G123400.1", "MKLVEEFWQ")
	require.NoError(t, err)
	assert.False(t, IsNucleic(s))
	assert.Equal(t, 9, s.Len())
}

func TestParseRejects(t *testing.T) {
	_, err := Parse("empty", "  \n ")
	assert.Error(t, err)
	_, err = Parse("junk", "ACGT123")
	assert.Error(t, err)
}

func TestWriterWrapsLines(t *testing.T) {
	s, err := Parse("gf0001-consensus", strings.Repeat("ACGT", 20))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(s))
	assert.Equal(t, 1, w.Count())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], ">gf0001-consensus"), lines[0])
	assert.Len(t, lines[1], 60)
	assert.Len(t, lines[2], 20)
}
