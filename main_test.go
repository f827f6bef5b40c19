package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/biogo/seq/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegumeFederation/intermine-legfed/pkg/config"
	"github.com/LegumeFederation/intermine-legfed/pkg/db/dbtest"
	"github.com/LegumeFederation/intermine-legfed/pkg/items"
	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
	"github.com/LegumeFederation/intermine-legfed/pkg/sequence"
)

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := openBackend("jsonl", filepath.Join(dir, "out", "items.jsonl"))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	b, err = openBackend("sqlite", filepath.Join(dir, "items.db"))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, err = openBackend("parquet", filepath.Join(dir, "items.parquet"))
	assert.Error(t, err)
}

func TestWriteConsensus(t *testing.T) {
	s, err := sequence.Parse("gf0001-consensus", "ACGTACGT")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "fasta", "consensus.fa")

	n, err := writeConsensus(path, []*linear.Seq{s})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), ">gf0001-consensus"))
}

func TestRunEndToEnd(t *testing.T) {
	w := dbtest.New(t)
	w.Organism(10, "glyma", "Glycine", "max")
	w.Organism(20, "phavu", "Phaseolus", "vulgaris")
	w.CVTerm(1, "polypeptide")
	w.CVTerm(2, "gene")
	w.Tree(1, "phytozome_10_2.7", "")
	w.Feature(dbtest.FeatureSpec{OrganismID: 10, TypeID: 2, UniqueName: "phytozome_10_2.7-consensus", Residues: "ACGTAC", SeqLen: 6})
	a := w.Feature(dbtest.FeatureSpec{OrganismID: 10, TypeID: 1, UniqueName: "glyma.A.1"})
	b := w.Feature(dbtest.FeatureSpec{OrganismID: 20, TypeID: 1, UniqueName: "phavu.B.1"})
	w.Node(1, a, "")
	w.Node(1, b, "")

	dir := t.TempDir()
	orgFile := filepath.Join(dir, "organisms.tsv")
	require.NoError(t, os.WriteFile(orgFile, []byte("3847\tglyma\tGlycine\tmax\n3885\tphavu\tPhaseolus\tvulgaris\n"), 0o644))

	cfg := config.FromEnv(func(key string) string {
		return map[string]string{
			"LOADER_WAREHOUSE_DRIVER":    "sqlite",
			"LOADER_WAREHOUSE_DSN":       w.Path,
			"LOADER_ORGANISMS":           "3847",
			"LOADER_HOMOLOGUE_ORGANISMS": "phavu",
			"LOADER_PHYTOZOME_VERSION":   "phytozome_10_2",
			"LOADER_ORGANISM_FILE":       orgFile,
			"LOADER_ITEMS_PATH":          filepath.Join(dir, "items.db"),
			"LOADER_CONSENSUS_FASTA":     filepath.Join(dir, "consensus.fa"),
			"LOADER_METRICS_FILE":        filepath.Join(dir, "loader.prom"),
		}[key]
	})
	require.NoError(t, run(context.Background(), cfg))

	check, err := items.NewSQLiteBackend(cfg.ItemsPath)
	require.NoError(t, err)
	defer check.Close()
	counts, err := check.CountByKind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[items.KindHomologue])
	assert.Equal(t, 2, counts[items.KindGene])
	assert.Equal(t, 1, counts[items.KindGeneFamily])
	assert.Equal(t, 2, counts[items.KindOrganism])

	assert.FileExists(t, cfg.ConsensusFasta)
	assert.FileExists(t, cfg.MetricsFile)
}

func TestRunRejectsUnknownProcessor(t *testing.T) {
	cfg := config.FromEnv(func(key string) string {
		return map[string]string{
			"LOADER_WAREHOUSE_DSN": "postgres://chado",
			"LOADER_PROCESSORS":    "SequenceProcessor",
		}[key]
	})
	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, loaderr.IsConfiguration(err))
}
