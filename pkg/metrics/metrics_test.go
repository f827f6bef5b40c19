package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Family("tree")
	m.Family("tree")
	m.Gene("tree")
	m.Violation("tree")
	m.Homologues("tree", "orthologue", 4)
	m.Flushed("Gene", 3)
	m.Duration(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "loader.prom")
	require.NoError(t, m.WriteTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, `legfed_loader_gene_families_total{variant="tree"} 2`)
	assert.Contains(t, body, `legfed_loader_homologues_total{type="orthologue",variant="tree"} 4`)
	assert.Contains(t, body, `legfed_loader_data_assumption_violations_total{variant="tree"} 1`)
	assert.Contains(t, body, `legfed_loader_flushed_items{kind="Gene"} 3`)
	assert.Contains(t, body, `legfed_loader_run_duration_seconds 1.5`)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Gene("property")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `legfed_loader_genes_total{variant="property"} 1`)
}
