package family

import (
	"context"

	"github.com/biogo/biogo/seq/linear"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

// Registry holds the GeneFamily and ConsensusRegion items of one run. It is
// shared by every extractor so a family name maps to one item per run.
type Registry struct {
	sink      items.Sink
	families  map[string]*items.Item
	order     []*items.Item
	regions   []*items.Item
	consensus []*linear.Seq
}

func NewRegistry(sink items.Sink) *Registry {
	return &Registry{
		sink:     sink,
		families: make(map[string]*items.Item),
	}
}

// Family returns the GeneFamily named name, creating it on first sight. A
// non-empty description overwrites the stored one.
func (r *Registry) Family(name, description string) (fam *items.Item, created bool) {
	fam, ok := r.families[name]
	if !ok {
		fam = r.sink.Create(items.KindGeneFamily)
		fam.SetAttribute("primaryIdentifier", name)
		r.families[name] = fam
		r.order = append(r.order, fam)
	}
	if description != "" {
		fam.SetAttribute("description", description)
	}
	return fam, !ok
}

func (r *Registry) addRegion(region *items.Item) {
	r.regions = append(r.regions, region)
}

func (r *Registry) addConsensus(s *linear.Seq) {
	r.consensus = append(r.consensus, s)
}

// Families is the number of distinct family names seen.
func (r *Registry) Families() int { return len(r.order) }

func (r *Registry) Regions() int { return len(r.regions) }

// Consensus returns the parsed consensus sequences in the order they were met.
func (r *Registry) Consensus() []*linear.Seq {
	out := make([]*linear.Seq, len(r.consensus))
	copy(out, r.consensus)
	return out
}

// Flush stores every family, then every consensus region.
func (r *Registry) Flush(ctx context.Context) error {
	if err := r.sink.Store(ctx, r.order...); err != nil {
		return err
	}
	return r.sink.Store(ctx, r.regions...)
}
