package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/config"
	"github.com/LegumeFederation/intermine-legfed/pkg/db"
	"github.com/LegumeFederation/intermine-legfed/pkg/family"
	"github.com/LegumeFederation/intermine-legfed/pkg/handler"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/metrics"
	"github.com/LegumeFederation/intermine-legfed/pkg/organism"
	"github.com/LegumeFederation/intermine-legfed/pkg/pipeline"
	"github.com/LegumeFederation/intermine-legfed/pkg/roles"
)

const VERSION = "0.1.0"

func main() {
	// Establish logger
	if err := logger.InitLogger(zapcore.InfoLevel); err != nil {
		panic(err)
	}
	cfg := config.Load()
	if err := logger.InitLogger(logger.ParseLevel(cfg.LogLevel)); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Start:", zap.String("Version", VERSION))
	if err := run(ctx, cfg); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}
	kinds, err := family.ParseKinds(cfg.Processors)
	if err != nil {
		return err
	}
	dir, err := organism.LoadRepository(cfg.OrganismFile)
	if err != nil {
		return err
	}
	logger.Info("Loaded organism directory", zap.String("path", cfg.OrganismFile), zap.Int("organisms", dir.Len()))

	chado, err := db.Open(ctx, cfg.WarehouseDriver, cfg.WarehouseDSN)
	if err != nil {
		return err
	}
	defer chado.Close()
	logger.Info("Open warehouse", zap.String("driver", cfg.WarehouseDriver))

	backend, err := openBackend(cfg.ItemsBackend, cfg.ItemsPath)
	if err != nil {
		return err
	}
	store := items.NewStore(backend)
	closed := false
	defer func() {
		if !closed {
			if cerr := store.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	m := metrics.New()
	tracker := pipeline.NewTracker(store.RunID())
	if cfg.StatusAddr != "" {
		srv := handler.Start(cfg.StatusAddr, &handler.RunContext{Version: VERSION, Tracker: tracker, Metrics: m.Handler()})
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := srv.Shutdown(sctx); serr != nil {
				logger.Warn("Status server shutdown", zap.Error(serr))
			}
		}()
	}

	runner := &pipeline.Runner{Chado: chado, Directory: dir, Sink: store, Metrics: m, Tracker: tracker}
	res, err := runner.Run(ctx, pipeline.Options{
		Kinds: kinds,
		Selection: roles.Selection{
			SourceOrganisms: cfg.Organisms,
			TargetOrganisms: cfg.HomologueOrganisms,
			SourceStrains:   cfg.Strains,
			TargetStrains:   cfg.HomologueStrains,
		},
		Version: cfg.PhytozomeVersion,
	})
	if err != nil {
		return err
	}

	closed = true
	if err := store.Close(); err != nil {
		return err
	}
	logSummary(store, res)

	artifacts := []string{cfg.ItemsPath}
	if cfg.ConsensusFasta != "" {
		n, err := writeConsensus(cfg.ConsensusFasta, res.Consensus)
		if err != nil {
			return err
		}
		logger.Info("Wrote consensus sequences", zap.String("path", cfg.ConsensusFasta), zap.Int("sequences", n))
		artifacts = append(artifacts, cfg.ConsensusFasta)
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	if cfg.S3.Enabled() {
		return upload(ctx, cfg.S3, store.RunID(), artifacts)
	}
	return nil
}

func logSummary(store *items.Store, res *pipeline.Result) {
	for kind, st := range res.Variants {
		fields := []zap.Field{
			zap.Stringer("variant", kind),
			zap.Int("families", st.Families),
			zap.Int("genes", st.Genes),
			zap.Int("violations", st.Violations),
		}
		for t, n := range st.Homologues {
			fields = append(fields, zap.Int(string(t), n))
		}
		logger.Info("Variant summary", fields...)
	}
	for kind, n := range store.Written() {
		logger.Info("Items written", zap.String("kind", string(kind)), zap.Int("count", n))
	}
	logger.Info("Run complete", zap.String("runId", store.RunID()), zap.Duration("duration", res.Duration))
}
