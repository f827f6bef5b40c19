// Package pipeline runs a homology load: it resolves organism roles once,
// runs the configured extractors in order and flushes the held-back items.
package pipeline

import (
	"context"
	"time"

	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/db"
	"github.com/LegumeFederation/intermine-legfed/pkg/family"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/metrics"
	"github.com/LegumeFederation/intermine-legfed/pkg/organism"
	"github.com/LegumeFederation/intermine-legfed/pkg/roles"
)

type Options struct {
	Kinds     []family.Kind
	Selection roles.Selection
	// Version is the phylotree version used by the tree variant.
	Version string
}

// Result is what a finished run reports back to the caller.
type Result struct {
	Variants  map[family.Kind]family.Stats
	Flushed   map[items.Kind]int
	Consensus []*linear.Seq
	Duration  time.Duration
}

type Runner struct {
	Chado     *db.Chado
	Directory organism.Directory
	Sink      items.Sink
	Metrics   *metrics.Metrics
	Tracker   *Tracker
}

// Run executes one load. Any error aborts the run; items already stored stay stored.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if r.Metrics == nil {
		r.Metrics = metrics.New()
	}
	if r.Tracker == nil {
		r.Tracker = NewTracker("")
	}
	started := time.Now()
	r.Tracker.start()

	res, err := r.run(ctx, opts)
	r.Tracker.finish(err)
	if err != nil {
		logger.Error("Load failed", zap.Error(err))
		return nil, err
	}
	res.Duration = time.Since(started)
	r.Metrics.Duration(res.Duration)
	logger.Info("Load finished", zap.Duration("duration", res.Duration))
	return res, nil
}

func (r *Runner) run(ctx context.Context, opts Options) (*Result, error) {
	rows, err := r.Chado.Organisms(ctx)
	if err != nil {
		return nil, err
	}
	rl, err := roles.Resolve(rows, r.Directory, opts.Selection)
	if err != nil {
		return nil, err
	}

	registry := organism.NewRegistry(r.Sink)
	families := family.NewRegistry(r.Sink)
	deps := family.Deps{
		Chado:    r.Chado,
		Roles:    rl,
		Sink:     r.Sink,
		Registry: registry,
		Families: families,
		Version:  opts.Version,
		Metrics:  r.Metrics,
		OnFamily: func(_ family.Kind, name string, n int) { r.Tracker.family(name, n) },
	}
	extractors := make([]*family.Extractor, 0, len(opts.Kinds))
	for _, k := range opts.Kinds {
		ex, err := family.New(k, deps)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
	}

	res := &Result{
		Variants: make(map[family.Kind]family.Stats, len(extractors)),
		Flushed:  make(map[items.Kind]int),
	}
	for _, ex := range extractors {
		r.Tracker.state(StateExtracting, ex.Kind().String())
		if err := ex.Run(ctx); err != nil {
			return nil, err
		}
		res.Variants[ex.Kind()] = ex.Stats()
	}
	res.Consensus = families.Consensus()

	r.Tracker.state(StateFlushing, "")
	if err := registry.Flush(ctx); err != nil {
		return nil, err
	}
	if err := families.Flush(ctx); err != nil {
		return nil, err
	}
	for kind, n := range map[items.Kind]int{
		items.KindOrganism:        registry.Organisms(),
		items.KindStrain:          registry.Strains(),
		items.KindGeneFamily:      families.Families(),
		items.KindConsensusRegion: families.Regions(),
	} {
		r.record(res, kind, n)
		r.Metrics.Flushed(string(kind), n)
	}
	for _, ex := range extractors {
		n, err := ex.Flush(ctx)
		if err != nil {
			return nil, err
		}
		r.record(res, items.KindGene, n)
	}
	return res, nil
}

func (r *Runner) record(res *Result, kind items.Kind, n int) {
	res.Flushed[kind] += n
	r.Tracker.flushed(string(kind), n)
}
