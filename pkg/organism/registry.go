package organism

import (
	"context"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

// Registry hands out one Organism item per taxon and one Strain item per
// strain identifier, and stores them all at the end of the run.
type Registry struct {
	sink      items.Sink
	organisms map[int]*items.Item
	strains   map[string]*items.Item
	order     []*items.Item
}

func NewRegistry(sink items.Sink) *Registry {
	return &Registry{
		sink:      sink,
		organisms: make(map[int]*items.Item),
		strains:   make(map[string]*items.Item),
	}
}

func (r *Registry) Organism(d Data) *items.Item {
	if it, ok := r.organisms[d.TaxonID]; ok {
		return it
	}
	it := r.sink.Create(items.KindOrganism)
	it.SetAttribute("taxonId", d.TaxonString())
	if d.Genus != "" {
		it.SetAttribute("genus", d.Genus)
	}
	if d.Species != "" {
		it.SetAttribute("species", d.Species)
	}
	if d.Variety != "" {
		it.SetAttribute("variety", d.Variety)
	}
	r.organisms[d.TaxonID] = it
	r.order = append(r.order, it)
	return it
}

// Strain returns the Strain item for identifier, linking it to its organism on first use.
func (r *Registry) Strain(identifier string, d Data) *items.Item {
	if it, ok := r.strains[identifier]; ok {
		return it
	}
	org := r.Organism(d)
	it := r.sink.Create(items.KindStrain)
	it.SetAttribute("identifier", identifier)
	it.SetReference("organism", org)
	org.AddToCollection("strains", it)
	r.strains[identifier] = it
	r.order = append(r.order, it)
	return it
}

func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) Organisms() int { return len(r.organisms) }

func (r *Registry) Strains() int { return len(r.strains) }

// Flush stores every organism and strain created so far.
func (r *Registry) Flush(ctx context.Context) error {
	return r.sink.Store(ctx, r.order...)
}
