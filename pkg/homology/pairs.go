// Package homology generates the directed, typed Homologue records of a gene family.
package homology

import (
	"context"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

type Type string

const (
	Orthologue Type = "orthologue"
	Paralogue  Type = "paralogue"
	// SameFamily is used when roles cannot tell orthologue from paralogue.
	SameFamily Type = "sameGeneFamily"
)

// Member is a resolved gene in one family.
type Member struct {
	Key        string
	Gene       *items.Item
	OrganismID int // internal warehouse id
	TaxonID    int
}

// Pair is one directed homology record: Gene -> Homologue.
type Pair struct {
	Gene      Member
	Homologue Member
	Type      Type
}

type Classifier func(a, b Member) Type

// ByOrganism types a pair paralogue when both genes share an organism, else orthologue.
func ByOrganism(a, b Member) Type {
	if a.TaxonID == b.TaxonID {
		return Paralogue
	}
	return Orthologue
}

// RoleSet reports the roles of an internal organism id.
type RoleSet interface {
	HasSource(id int) bool
	HasTarget(id int) bool
}

// ByRoleSplit types a pair orthologue only when one side's organism is
// source-only and the other's is target-only; every other pair is SameFamily.
func ByRoleSplit(roles RoleSet) Classifier {
	sourceOnly := func(id int) bool { return roles.HasSource(id) && !roles.HasTarget(id) }
	targetOnly := func(id int) bool { return roles.HasTarget(id) && !roles.HasSource(id) }
	return func(a, b Member) Type {
		if (sourceOnly(a.OrganismID) && targetOnly(b.OrganismID)) ||
			(targetOnly(a.OrganismID) && sourceOnly(b.OrganismID)) {
			return Orthologue
		}
		return SameFamily
	}
}

// Generate calls emit for both directions of every (a, b) with a in source,
// b in target and a.Key != b.Key. Pairs are streamed, never buffered. It
// returns the number of records emitted.
func Generate(source, target []Member, classify Classifier, emit func(Pair) error) (int, error) {
	n := 0
	for _, a := range source {
		for _, b := range target {
			if a.Key == b.Key {
				continue
			}
			t := classify(a, b)
			if err := emit(Pair{Gene: a, Homologue: b, Type: t}); err != nil {
				return n, err
			}
			n++
			if err := emit(Pair{Gene: b, Homologue: a, Type: t}); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// Emitter turns pairs into Homologue items of one family and stores them immediately.
type Emitter struct {
	sink   items.Sink
	family *items.Item
	counts map[Type]int
}

func NewEmitter(sink items.Sink, family *items.Item) *Emitter {
	return &Emitter{sink: sink, family: family, counts: make(map[Type]int)}
}

func (e *Emitter) Emit(ctx context.Context, p Pair) error {
	h := e.sink.Create(items.KindHomologue)
	h.SetAttribute("type", string(p.Type))
	h.SetReference("geneFamily", e.family)
	h.SetReference("gene", p.Gene.Gene)
	h.SetReference("homologue", p.Homologue.Gene)
	if err := e.sink.Store(ctx, h); err != nil {
		return err
	}
	p.Gene.Gene.AddToCollection("homologues", h)
	e.counts[p.Type]++
	return nil
}

// Counts returns the number of stored records per type.
func (e *Emitter) Counts() map[Type]int {
	out := make(map[Type]int, len(e.counts))
	for k, v := range e.counts {
		out[k] = v
	}
	return out
}
