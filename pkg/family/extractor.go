// Package family extracts gene families and their members from a Chado
// warehouse and generates the homologue pairs of each family.
package family

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/db"
	"github.com/LegumeFederation/intermine-legfed/pkg/genes"
	"github.com/LegumeFederation/intermine-legfed/pkg/homology"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
	"github.com/LegumeFederation/intermine-legfed/pkg/metrics"
	"github.com/LegumeFederation/intermine-legfed/pkg/organism"
	"github.com/LegumeFederation/intermine-legfed/pkg/roles"
	"github.com/LegumeFederation/intermine-legfed/pkg/sequence"
)

// Deps is the shared context handed to every extractor.
type Deps struct {
	Chado    *db.Chado
	Roles    *roles.Roles
	Sink     items.Sink
	Registry *organism.Registry
	// Families is shared by all extractors of a run.
	Families *Registry
	// Version filters tree names ("<version>.%"); required by the tree variant.
	Version string
	Metrics *metrics.Metrics
	// OnFamily, when set, is called after each family's pairs are stored.
	OnFamily func(kind Kind, family string, homologues int)
}

func (d Deps) check() error {
	switch {
	case d.Chado == nil:
		return errors.New("family: nil warehouse")
	case d.Roles == nil:
		return errors.New("family: nil roles")
	case d.Sink == nil:
		return errors.New("family: nil sink")
	case d.Registry == nil:
		return errors.New("family: nil organism registry")
	case d.Families == nil:
		return errors.New("family: nil family registry")
	}
	return nil
}

// Stats summarizes one extractor run.
type Stats struct {
	Families   int
	Genes      int
	Violations int
	Homologues map[homology.Type]int
}

// membership is one family with its members partitioned by role.
type membership struct {
	family *items.Item
	source []homology.Member
	target []homology.Member
	seen   map[string]struct{}
}

type walker func(ctx context.Context, e *Extractor, yield func(*membership) error) error

// Extractor runs one variant. It owns its gene cache; families and consensus
// regions live in the shared Registry.
type Extractor struct {
	kind     Kind
	deps     Deps
	walk     walker
	classify homology.Classifier

	genes *genes.Cache
	seen  map[string]struct{}
	stats Stats
}

var factories = map[Kind]func(Deps) (*Extractor, error){
	Tree:     NewTree,
	Property: NewProperty,
}

// New builds the extractor for kind.
func New(kind Kind, deps Deps) (*Extractor, error) {
	f, ok := factories[kind]
	if !ok {
		return nil, loaderr.Configf("no extractor for kind %d", kind)
	}
	return f(deps)
}

func newExtractor(kind Kind, deps Deps, walk walker, classify homology.Classifier) (*Extractor, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &Extractor{
		kind:     kind,
		deps:     deps,
		walk:     walk,
		classify: classify,
		genes:    genes.NewCache(),
		seen:     make(map[string]struct{}),
		stats:    Stats{Homologues: make(map[homology.Type]int)},
	}, nil
}

func (e *Extractor) Kind() Kind { return e.kind }

func (e *Extractor) Genes() *genes.Cache { return e.genes }

func (e *Extractor) Stats() Stats {
	s := e.stats
	s.Homologues = make(map[homology.Type]int, len(e.stats.Homologues))
	for k, v := range e.stats.Homologues {
		s.Homologues[k] = v
	}
	return s
}

// Run extracts every family and stores its homologues. Genes are held back
// for Flush; families and consensus regions for Registry.Flush.
func (e *Extractor) Run(ctx context.Context) error {
	logger.Info("Starting gene family extraction", zap.Stringer("variant", e.kind))
	err := e.walk(ctx, e, func(m *membership) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return e.pairs(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("%s extraction: %w", e.kind, err)
	}
	logger.Info("Finished gene family extraction",
		zap.Stringer("variant", e.kind),
		zap.Int("families", e.stats.Families),
		zap.Int("genes", e.stats.Genes),
		zap.Int("violations", e.stats.Violations))
	return nil
}

func (e *Extractor) pairs(ctx context.Context, m *membership) error {
	em := homology.NewEmitter(e.deps.Sink, m.family)
	n, err := homology.Generate(m.source, m.target, e.classify, func(p homology.Pair) error {
		return em.Emit(ctx, p)
	})
	if err != nil {
		return err
	}
	for t, c := range em.Counts() {
		e.stats.Homologues[t] += c
		e.deps.Metrics.Homologues(e.kind.String(), string(t), c)
	}
	name := m.family.Attribute("primaryIdentifier")
	logger.Debug("Stored family homologues",
		zap.String("family", name),
		zap.Int("source", len(m.source)),
		zap.Int("target", len(m.target)),
		zap.Int("homologues", n))
	if e.deps.OnFamily != nil {
		e.deps.OnFamily(e.kind, name, n)
	}
	return nil
}

// Flush stores the genes of this variant and returns how many were handed
// to the sink.
func (e *Extractor) Flush(ctx context.Context) (int, error) {
	list := e.genes.All()
	if err := e.deps.Sink.Store(ctx, list...); err != nil {
		return 0, err
	}
	e.deps.Metrics.Flushed(string(items.KindGene), len(list))
	logger.Info("Flushed extracted genes", zap.Stringer("variant", e.kind), zap.Int("genes", len(list)))
	return len(list), nil
}

// family returns the run's GeneFamily for name. Stats count each name once
// per variant, whether or not another variant created it first.
func (e *Extractor) family(name, description string) *items.Item {
	fam, _ := e.deps.Families.Family(name, description)
	if _, ok := e.seen[name]; !ok {
		e.seen[name] = struct{}{}
		e.stats.Families++
		e.deps.Metrics.Family(e.kind.String())
	}
	return fam
}

// consensusRegion attaches a ConsensusRegion to fam unless it already has
// one. f, when non-nil, supplies length and sequence.
func (e *Extractor) consensusRegion(ctx context.Context, fam *items.Item, uniqueName string, f *db.Feature) error {
	if fam.Reference("consensusRegion") != nil {
		return nil
	}
	region := e.deps.Sink.Create(items.KindConsensusRegion)
	region.SetAttribute("primaryIdentifier", uniqueName)
	region.SetReference("geneFamily", fam)
	fam.SetReference("consensusRegion", region)
	e.deps.Families.addRegion(region)
	if f == nil {
		return nil
	}
	if f.HasSeqLen {
		region.SetAttribute("length", strconv.Itoa(f.SeqLen))
	}
	seqItem, s, err := e.sequence(ctx, uniqueName, f.Residues)
	if err != nil {
		return err
	}
	if seqItem != nil {
		region.SetReference("sequence", seqItem)
		if !f.HasSeqLen {
			region.SetAttribute("length", strconv.Itoa(s.Len()))
		}
		e.deps.Families.addConsensus(s)
	}
	return nil
}

// sequence stores a Sequence item for residues immediately. It returns nil
// items when there are no residues or they cannot be parsed; the latter is
// counted as a violation.
func (e *Extractor) sequence(ctx context.Context, id, residues string) (*items.Item, *linear.Seq, error) {
	if residues == "" {
		return nil, nil, nil
	}
	s, err := sequence.Parse(id, residues)
	if err != nil {
		e.violation(id, err.Error())
		return nil, nil, nil
	}
	it := e.deps.Sink.Create(items.KindSequence)
	it.SetAttribute("residues", sequence.Residues(s))
	it.SetAttribute("length", strconv.Itoa(s.Len()))
	if err := e.deps.Sink.Store(ctx, it); err != nil {
		return nil, nil, err
	}
	return it, s, nil
}

// newGene creates a Gene for a member of fam found under warehouse organism orgID.
func (e *Extractor) newGene(fam *items.Item, orgID int) (*items.Item, error) {
	d, ok := e.deps.Roles.Organism(orgID)
	if !ok {
		return nil, fmt.Errorf("organism id %d has no role", orgID)
	}
	g := e.deps.Sink.Create(items.KindGene)
	g.SetReference("organism", e.deps.Registry.Organism(d))
	if strain, ok := e.deps.Roles.Strain(orgID); ok {
		g.SetReference("strain", e.deps.Registry.Strain(strain, d))
	}
	g.SetReference("geneFamily", fam)
	return g, nil
}

// resolved records the outcome of a gene cache lookup.
func (e *Extractor) resolved(created bool) {
	if created {
		e.stats.Genes++
		e.deps.Metrics.Gene(e.kind.String())
	}
}

func (e *Extractor) violation(feature, msg string) {
	v := &loaderr.DataAssumptionViolation{Feature: feature, Msg: msg}
	logger.Warn("Data assumption violated", zap.Stringer("variant", e.kind), zap.Error(v))
	e.stats.Violations++
	e.deps.Metrics.Violation(e.kind.String())
}

func (e *Extractor) newMembership(fam *items.Item) *membership {
	return &membership{family: fam, seen: make(map[string]struct{})}
}

// add partitions gene into the source and/or target set by the role of orgID.
// A key already in this family is ignored.
func (e *Extractor) add(m *membership, key string, gene *items.Item, orgID int) {
	if _, dup := m.seen[key]; dup {
		return
	}
	m.seen[key] = struct{}{}
	d, _ := e.deps.Roles.Organism(orgID)
	mem := homology.Member{Key: key, Gene: gene, OrganismID: orgID, TaxonID: d.TaxonID}
	if e.deps.Roles.HasSource(orgID) {
		m.source = append(m.source, mem)
	}
	if e.deps.Roles.HasTarget(orgID) {
		m.target = append(m.target, mem)
	}
}
