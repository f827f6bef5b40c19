package family

import (
	"context"

	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/genes"
	"github.com/LegumeFederation/intermine-legfed/pkg/homology"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
)

const (
	termGeneFamily = "gene family"
	termGene       = "gene"
	termConsensus  = "consensus_region"
)

// NewProperty builds the featureprop extractor. Pairs are orthologues only
// across a clean source/target role split, otherwise sameGeneFamily.
func NewProperty(deps Deps) (*Extractor, error) {
	return newExtractor(Property, deps, walkProperties, homology.ByRoleSplit(deps.Roles))
}

type terms struct {
	family, gene, consensus int
}

func resolveTerms(ctx context.Context, e *Extractor) (terms, error) {
	var t terms
	for _, want := range []struct {
		name string
		into *int
	}{
		{termGeneFamily, &t.family},
		{termGene, &t.gene},
		{termConsensus, &t.consensus},
	} {
		id, ok, err := e.deps.Chado.CVTermID(ctx, want.name)
		if err != nil {
			return t, err
		}
		if !ok {
			return t, loaderr.Configf("controlled vocabulary term %q not found", want.name)
		}
		*want.into = id
	}
	return t, nil
}

func walkProperties(ctx context.Context, e *Extractor, yield func(*membership) error) error {
	t, err := resolveTerms(ctx, e)
	if err != nil {
		return err
	}
	names, err := e.deps.Chado.FamilyNames(ctx, t.family)
	if err != nil {
		return err
	}
	logger.Info("Walking gene family properties", zap.Int("families", len(names)))

	for _, name := range names {
		comment, _, err := e.deps.Chado.TreeComment(ctx, name)
		if err != nil {
			return err
		}
		fam := e.family(name, comment)
		if err := propertyConsensus(ctx, e, fam, name, t.consensus); err != nil {
			return err
		}

		feats, err := e.deps.Chado.FamilyMembers(ctx, t.gene, t.family, name)
		if err != nil {
			return err
		}
		m := e.newMembership(fam)
		for _, f := range feats {
			if !e.deps.Roles.HasSource(f.OrganismID) && !e.deps.Roles.HasTarget(f.OrganismID) {
				continue
			}
			key := genes.CompositeKey(f.UniqueName, f.Name)
			orgID, uniqueName, display := f.OrganismID, f.UniqueName, f.Name
			gene, created, err := e.genes.Resolve(key, func() (*items.Item, error) {
				g, err := e.newGene(fam, orgID)
				if err != nil {
					return nil, err
				}
				g.SetAttribute("primaryIdentifier", uniqueName)
				if display != "" {
					g.SetAttribute("secondaryIdentifier", display)
				}
				return g, nil
			})
			if err != nil {
				return err
			}
			e.resolved(created)
			e.add(m, key, gene, f.OrganismID)
		}
		if err := yield(m); err != nil {
			return err
		}
	}
	return nil
}

// propertyConsensus attaches "<family>-consensus" only when a consensus_region
// feature of that name exists.
func propertyConsensus(ctx context.Context, e *Extractor, fam *items.Item, name string, typeID int) error {
	cname := name + "-consensus"
	f, ok, err := e.deps.Chado.FeatureByUniqueNameAndType(ctx, cname, typeID)
	if err != nil || !ok {
		return err
	}
	return e.consensusRegion(ctx, fam, cname, &f)
}
