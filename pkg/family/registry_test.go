package family

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

func TestRegistryFamilyIsUniqueByName(t *testing.T) {
	backend := items.NewMemoryBackend()
	store := items.NewStore(backend)
	reg := NewRegistry(store)

	first, created := reg.Family("v1.fam1", "kinase")
	assert.True(t, created)
	again, created := reg.Family("v1.fam1", "")
	assert.False(t, created)
	assert.Same(t, first, again)
	assert.Equal(t, "kinase", again.Attribute("description"))

	reg.Family("v1.fam1", "protein kinase")
	assert.Equal(t, "protein kinase", first.Attribute("description"))

	region := store.Create(items.KindConsensusRegion)
	reg.addRegion(region)
	reg.Family("v1.fam2", "")

	require.NoError(t, reg.Flush(context.Background()))
	assert.Equal(t, 2, reg.Families())
	assert.Equal(t, 1, reg.Regions())
	recs := backend.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, items.KindGeneFamily, recs[0].Kind)
	assert.Equal(t, items.KindGeneFamily, recs[1].Kind)
	assert.Equal(t, items.KindConsensusRegion, recs[2].Kind)
}
