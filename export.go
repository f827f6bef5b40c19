package main

import (
	"context"
	"fmt"
	"os"

	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/internal/util"
	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/config"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/sequence"
)

func openBackend(kind, path string) (items.Backend, error) {
	switch kind {
	case "sqlite":
		return items.NewSQLiteBackend(path)
	case "jsonl":
		return items.NewJSONLinesBackend(path)
	}
	return nil, fmt.Errorf("unsupported items backend %q", kind)
}

func writeConsensus(path string, seqs []*linear.Seq) (int, error) {
	if err := util.EnsureParentDir(path); err != nil {
		return 0, fmt.Errorf("create consensus directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create consensus fasta: %w", err)
	}
	w := sequence.NewWriter(f)
	for _, s := range seqs {
		if err := w.Write(s); err != nil {
			f.Close()
			return w.Count(), err
		}
	}
	if err := f.Close(); err != nil {
		return w.Count(), fmt.Errorf("close consensus fasta: %w", err)
	}
	return w.Count(), nil
}

func upload(ctx context.Context, cfg config.S3, runID string, paths []string) error {
	up, err := items.NewUploader(ctx, items.UploadConfig{
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		Prefix:    cfg.Prefix,
		PathStyle: cfg.PathStyle,
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		key, err := up.Upload(ctx, runID, p)
		if err != nil {
			return err
		}
		logger.Info("Uploaded artifact", zap.String("bucket", cfg.Bucket), zap.String("key", key))
	}
	return nil
}
