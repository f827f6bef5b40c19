package family

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/db"
	"github.com/LegumeFederation/intermine-legfed/pkg/genes"
	"github.com/LegumeFederation/intermine-legfed/pkg/homology"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
)

// NewTree builds the phylotree extractor. Pairs are typed by organism identity.
func NewTree(deps Deps) (*Extractor, error) {
	if deps.Version == "" {
		return nil, loaderr.Configf("tree extraction needs a phylotree version (LOADER_PHYTOZOME_VERSION)")
	}
	return newExtractor(Tree, deps, walkTrees, homology.ByOrganism)
}

func walkTrees(ctx context.Context, e *Extractor, yield func(*membership) error) error {
	trees, err := e.deps.Chado.TreesByVersion(ctx, e.deps.Version)
	if err != nil {
		return err
	}
	orgIDs := e.deps.Roles.OrganismIDs()
	logger.Info("Walking phylotrees",
		zap.String("version", e.deps.Version),
		zap.Int("trees", len(trees)),
		zap.Ints("organismIds", orgIDs))

	for _, t := range trees {
		fam := e.family(t.Name, t.Comment)
		if err := treeConsensus(ctx, e, fam, t.Name); err != nil {
			return err
		}

		feats, err := e.deps.Chado.TreeMembers(ctx, t.ID, orgIDs)
		if err != nil {
			return err
		}
		m := e.newMembership(fam)
		for _, f := range feats {
			gene, key, err := treeGene(ctx, e, fam, f)
			if err != nil {
				return err
			}
			e.add(m, key, gene, f.OrganismID)
		}
		if err := yield(m); err != nil {
			return err
		}
	}
	return nil
}

// treeConsensus creates "<tree>-consensus" for every tree, enriched when the
// warehouse holds a feature of that name.
func treeConsensus(ctx context.Context, e *Extractor, fam *items.Item, treeName string) error {
	name := treeName + "-consensus"
	f, ok, err := e.deps.Chado.FeatureByUniqueName(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return e.consensusRegion(ctx, fam, name, nil)
	}
	return e.consensusRegion(ctx, fam, name, &f)
}

// treeGene resolves the gene of a polypeptide tree member. Members are
// expected to be named <gene>.<isoform>.
func treeGene(ctx context.Context, e *Extractor, fam *items.Item, f db.Feature) (*items.Item, string, error) {
	key, ok := genes.TruncatedKey(f.UniqueName)
	if !ok {
		e.violation(f.UniqueName, "polypeptide name has no .<isoform> suffix; using it as the gene name")
	}
	gene, created, err := e.genes.Resolve(key, func() (*items.Item, error) {
		g, err := e.newGene(fam, f.OrganismID)
		if err != nil {
			return nil, err
		}
		return g, populateTreeGene(ctx, e, g, key)
	})
	if err != nil {
		return nil, "", err
	}
	e.resolved(created)
	return gene, key, nil
}

// populateTreeGene copies the gene feature into g, or leaves a minimal gene
// carrying only its name and organism when the warehouse has no such feature.
func populateTreeGene(ctx context.Context, e *Extractor, g *items.Item, key string) error {
	g.SetAttribute("primaryIdentifier", key)
	f, ok, err := e.deps.Chado.FeatureByUniqueName(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		e.violation(key, "no gene feature for polypeptide-derived name; synthesized a minimal gene")
		return nil
	}
	if f.Name != "" {
		g.SetAttribute("secondaryIdentifier", f.Name)
	}
	if f.HasSeqLen {
		g.SetAttribute("length", strconv.Itoa(f.SeqLen))
	}
	seqItem, _, err := e.sequence(ctx, key, f.Residues)
	if err != nil {
		return err
	}
	if seqItem != nil {
		g.SetReference("sequence", seqItem)
	}
	return nil
}
