package genes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

func TestResolveReturnsSameInstance(t *testing.T) {
	store := items.NewStore(items.NewMemoryBackend())
	c := NewCache()
	builds := 0
	build := func() (*items.Item, error) {
		builds++
		g := store.Create(items.KindGene)
		g.SetAttribute("primaryIdentifier", "glyma.Chr01G123400")
		return g, nil
	}

	first, created, err := c.Resolve("glyma.Chr01G123400", build)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := c.Resolve("glyma.Chr01G123400", build)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, store.Created()[items.KindGene])
}

func TestResolveBuildErrorIsNotCached(t *testing.T) {
	c := NewCache()
	_, _, err := c.Resolve("k", func() (*items.Item, error) { return nil, errors.New("boom") })
	require.Error(t, err)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestFlushStoresInCreationOrder(t *testing.T) {
	backend := items.NewMemoryBackend()
	store := items.NewStore(backend)
	c := NewCache()
	for _, k := range []string{"b", "a", "c"} {
		name := k
		_, _, err := c.Resolve(name, func() (*items.Item, error) {
			g := store.Create(items.KindGene)
			g.SetAttribute("primaryIdentifier", name)
			return g, nil
		})
		require.NoError(t, err)
	}
	require.NoError(t, c.Flush(context.Background(), store))
	require.NoError(t, c.Flush(context.Background(), store))

	recs := backend.ByKind(items.KindGene)
	require.Len(t, recs, 3)
	assert.Equal(t, "b", recs[0].Attributes["primaryIdentifier"])
	assert.Equal(t, "c", recs[2].Attributes["primaryIdentifier"])
}

func TestTruncatedKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"glyma.Chr01G123400.1", "glyma.Chr01G123400", true},
		{"Medtr7g012345.12", "Medtr7g012345", true},
		{"phavu.Phvul.001G000100", "phavu.Phvul.001G000100", false},
		{"noisoform", "noisoform", false},
		{".1", ".1", false},
		{"gene.", "gene.", false},
	}
	for _, tc := range cases {
		got, ok := TruncatedKey(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestCompositeKeyDistinguishesSharedDisplayNames(t *testing.T) {
	assert.NotEqual(t, CompositeKey("geneA", "NAC1"), CompositeKey("geneB", "NAC1"))
	assert.Equal(t, "geneAxxxNAC1", CompositeKey("geneA", "NAC1"))
}
