package homology

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

type roleTable struct {
	source, target map[int]bool
}

func (r roleTable) HasSource(id int) bool { return r.source[id] }
func (r roleTable) HasTarget(id int) bool { return r.target[id] }

func member(store *items.Store, key string, orgID, taxon int) Member {
	g := store.Create(items.KindGene)
	g.SetAttribute("primaryIdentifier", key)
	return Member{Key: key, Gene: g, OrganismID: orgID, TaxonID: taxon}
}

func collect(t *testing.T, source, target []Member, classify Classifier) []Pair {
	t.Helper()
	var out []Pair
	n, err := Generate(source, target, classify, func(p Pair) error {
		out = append(out, p)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, len(out), n)
	return out
}

func TestGenerateCountsAndNoSelfPairs(t *testing.T) {
	store := items.NewStore(items.NewMemoryBackend())
	a := member(store, "a", 10, 3847)
	b := member(store, "b", 10, 3847)
	c := member(store, "c", 30, 3880)
	d := member(store, "d", 30, 3880)

	cases := []struct {
		name           string
		source, target []Member
		want           int
	}{
		{"disjoint", []Member{a, b}, []Member{c, d}, 2 * 2 * 2},
		{"overlap", []Member{a, b, c}, []Member{b, c, d}, 2 * (3*3 - 2)},
		{"identical", []Member{a, b}, []Member{a, b}, 2 * (2*2 - 2)},
		{"no target", []Member{a, b}, nil, 0},
		{"single shared gene", []Member{a}, []Member{a}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pairs := collect(t, tc.source, tc.target, ByOrganism)
			assert.Len(t, pairs, tc.want)
			for _, p := range pairs {
				assert.NotEqual(t, p.Gene.Key, p.Homologue.Key)
				assert.Equal(t, p.Gene.TaxonID == p.Homologue.TaxonID, p.Type == Paralogue)
			}
		})
	}
}

func TestGenerateEmitsBothDirectionsWithSameType(t *testing.T) {
	store := items.NewStore(items.NewMemoryBackend())
	a := member(store, "a", 10, 3847)
	c := member(store, "c", 30, 3880)

	pairs := collect(t, []Member{a}, []Member{c}, ByOrganism)
	require.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].Gene.Key)
	assert.Equal(t, "c", pairs[0].Homologue.Key)
	assert.Equal(t, "c", pairs[1].Gene.Key)
	assert.Equal(t, "a", pairs[1].Homologue.Key)
	assert.Equal(t, Orthologue, pairs[0].Type)
	assert.Equal(t, pairs[0].Type, pairs[1].Type)
}

func TestStrainsOfOneTaxonAreParalogues(t *testing.T) {
	store := items.NewStore(items.NewMemoryBackend())
	desi := member(store, "desi", 20, 3827)
	kabuli := member(store, "kabuli", 21, 3827)
	pairs := collect(t, []Member{desi}, []Member{kabuli}, ByOrganism)
	require.Len(t, pairs, 2)
	assert.Equal(t, Paralogue, pairs[0].Type)
}

func TestByRoleSplit(t *testing.T) {
	roles := roleTable{
		source: map[int]bool{10: true, 20: true},
		target: map[int]bool{20: true, 30: true},
	}
	classify := ByRoleSplit(roles)
	store := items.NewStore(items.NewMemoryBackend())
	srcOnly := member(store, "geneA", 10, 3847)
	both := member(store, "geneX", 20, 3827)
	tgtOnly := member(store, "geneB", 30, 3880)
	srcOnly2 := member(store, "geneC", 10, 3847)

	assert.Equal(t, Orthologue, classify(srcOnly, tgtOnly))
	assert.Equal(t, Orthologue, classify(tgtOnly, srcOnly))
	assert.Equal(t, SameFamily, classify(srcOnly, both))
	assert.Equal(t, SameFamily, classify(both, tgtOnly))
	assert.Equal(t, SameFamily, classify(srcOnly, srcOnly2))
}

func TestGenerateStopsOnEmitError(t *testing.T) {
	store := items.NewStore(items.NewMemoryBackend())
	a := member(store, "a", 10, 3847)
	c := member(store, "c", 30, 3880)
	d := member(store, "d", 30, 3880)
	calls := 0
	n, err := Generate([]Member{a}, []Member{c, d}, ByOrganism, func(Pair) error {
		calls++
		if calls == 2 {
			return errors.New("disk full")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, calls)
}

func TestEmitterStoresHomologues(t *testing.T) {
	backend := items.NewMemoryBackend()
	store := items.NewStore(backend)
	family := store.Create(items.KindGeneFamily)
	family.SetAttribute("primaryIdentifier", "gf0001")
	a := member(store, "geneA", 10, 3847)
	b := member(store, "geneB", 20, 3827)

	em := NewEmitter(store, family)
	ctx := context.Background()
	n, err := Generate([]Member{a}, []Member{b}, ByOrganism, func(p Pair) error { return em.Emit(ctx, p) })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs := backend.ByKind(items.KindHomologue)
	require.Len(t, recs, 2)
	assert.Equal(t, "orthologue", recs[0].Attributes["type"])
	assert.Equal(t, a.Gene.Identifier, recs[0].References["gene"])
	assert.Equal(t, b.Gene.Identifier, recs[0].References["homologue"])
	assert.Equal(t, family.Identifier, recs[1].References["geneFamily"])
	assert.Equal(t, b.Gene.Identifier, recs[1].References["gene"])

	assert.Len(t, a.Gene.Collection("homologues"), 1)
	assert.Len(t, b.Gene.Collection("homologues"), 1)
	assert.Equal(t, map[Type]int{Orthologue: 2}, em.Counts())
}

func TestEmitterPropagatesPersistenceError(t *testing.T) {
	backend := items.NewMemoryBackend()
	backend.FailWith = fmt.Errorf("connection reset")
	store := items.NewStore(backend)
	family := store.Create(items.KindGeneFamily)
	a := member(store, "a", 10, 3847)
	b := member(store, "b", 30, 3880)

	em := NewEmitter(store, family)
	err := em.Emit(context.Background(), Pair{Gene: a, Homologue: b, Type: Orthologue})
	require.Error(t, err)
	assert.Empty(t, a.Gene.Collection("homologues"))
	assert.Empty(t, em.Counts())
}
