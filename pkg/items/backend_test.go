package items

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems(s *Store) []*Item {
	org := s.Create(KindOrganism)
	org.SetAttribute("taxonId", "3847")
	gene := s.Create(KindGene)
	gene.SetAttribute("primaryIdentifier", "glyma.Chr01G123400")
	gene.SetReference("organism", org)
	family := s.Create(KindGeneFamily)
	family.SetAttribute("primaryIdentifier", "phytozome_10_2.59028020")
	gene.SetReference("geneFamily", family)
	family.AddToCollection("genes", gene)
	return []*Item{org, gene, family}
}

func TestSQLiteBackendWritesNormalizedRows(t *testing.T) {
	ctx := context.Background()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "out", "items.db"))
	require.NoError(t, err)
	defer backend.Close()

	s := NewStore(backend)
	its := sampleItems(s)
	require.NoError(t, s.Store(ctx, its...))

	counts, err := backend.CountByKind(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[Kind]int{KindOrganism: 1, KindGene: 1, KindGeneFamily: 1}, counts)

	var refID string
	err = backend.DB().QueryRowContext(ctx,
		`SELECT ref_id FROM item_references WHERE item_id = ? AND name = 'organism'`, its[1].Identifier).Scan(&refID)
	require.NoError(t, err)
	assert.Equal(t, its[0].Identifier, refID)

	var n int
	err = backend.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM item_collections WHERE item_id = ?`, its[2].Identifier).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteBackendRollsBackOnDuplicate(t *testing.T) {
	ctx := context.Background()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	defer backend.Close()

	rec := Record{ID: "x_1", Kind: KindGene}
	require.NoError(t, backend.Write(ctx, []Record{rec}))
	err = backend.Write(ctx, []Record{{ID: "x_2", Kind: KindGene}, rec})
	require.Error(t, err)

	counts, err := backend.CountByKind(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[KindGene])
}

func TestJSONLinesBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "items.jsonl")
	backend, err := NewJSONLinesBackend(path)
	require.NoError(t, err)

	s := NewStore(backend)
	require.NoError(t, s.Store(ctx, sampleItems(s)...))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var kinds []Kind
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		kinds = append(kinds, r.Kind)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []Kind{KindOrganism, KindGene, KindGeneFamily}, kinds)
}

type fakePutter struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = *in.Bucket
	f.key = *in.Key
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUploaderPutsArtifactUnderRunPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"a_1"}`+"\n"), 0o644))

	fake := &fakePutter{}
	u := &Uploader{client: fake, bucket: "lis-items", prefix: "homology"}
	key, err := u.Upload(context.Background(), "run-1", path)
	require.NoError(t, err)

	assert.Equal(t, "homology/run-1/items.jsonl", key)
	assert.Equal(t, "lis-items", fake.bucket)
	assert.Equal(t, `{"id":"a_1"}`+"\n", string(fake.body))

	fake.err = errors.New("denied")
	_, err = u.Upload(context.Background(), "run-1", path)
	assert.Error(t, err)
}
