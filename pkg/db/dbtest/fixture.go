// Package dbtest builds throwaway SQLite Chado warehouses for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/LegumeFederation/intermine-legfed/pkg/db"

	_ "modernc.org/sqlite"
)

// Warehouse is a seeded SQLite Chado copy.
type Warehouse struct {
	t     *testing.T
	DB    *sql.DB
	Path  string
	Chado *db.Chado

	nextFeature int64
	nextProp    int64
	nextNode    int64
}

func New(t *testing.T) *Warehouse {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chado.db")
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture warehouse: %v", err)
	}
	if _, err := sqldb.Exec(db.SchemaSQLite); err != nil {
		t.Fatalf("create chado schema: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return &Warehouse{t: t, DB: sqldb, Path: path, Chado: db.NewChado(sqldb, "sqlite")}
}

func (w *Warehouse) exec(q string, args ...any) {
	w.t.Helper()
	if _, err := w.DB.Exec(q, args...); err != nil {
		w.t.Fatalf("fixture %q: %v", q, err)
	}
}

func (w *Warehouse) Organism(id int, abbreviation, genus, species string) {
	w.t.Helper()
	w.exec(`INSERT INTO organism(organism_id, abbreviation, genus, species) VALUES(?, ?, ?, ?)`, id, abbreviation, genus, species)
}

func (w *Warehouse) CVTerm(id int, name string) {
	w.t.Helper()
	w.exec(`INSERT INTO cvterm(cvterm_id, name) VALUES(?, ?)`, id, name)
}

// FeatureSpec describes a feature row; zero SeqLen with empty Residues stores NULLs.
type FeatureSpec struct {
	OrganismID int
	TypeID     int
	UniqueName string
	Name       string
	Residues   string
	SeqLen     int
}

func (w *Warehouse) Feature(f FeatureSpec) int64 {
	w.t.Helper()
	w.nextFeature++
	id := w.nextFeature
	var name, residues, seqlen any
	if f.Name != "" {
		name = f.Name
	}
	if f.Residues != "" {
		residues = f.Residues
	}
	if f.SeqLen > 0 {
		seqlen = f.SeqLen
	}
	w.exec(`INSERT INTO feature(feature_id, organism_id, name, uniquename, residues, seqlen, type_id) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, f.OrganismID, name, f.UniqueName, residues, seqlen, f.TypeID)
	return id
}

func (w *Warehouse) FeatureProp(featureID int64, typeID int, value string) {
	w.t.Helper()
	w.nextProp++
	w.exec(`INSERT INTO featureprop(featureprop_id, feature_id, type_id, value) VALUES(?, ?, ?, ?)`, w.nextProp, featureID, typeID, value)
}

func (w *Warehouse) Tree(id int, name, comment string) {
	w.t.Helper()
	var c any
	if comment != "" {
		c = comment
	}
	w.exec(`INSERT INTO phylotree(phylotree_id, name, comment) VALUES(?, ?, ?)`, id, name, c)
}

func (w *Warehouse) Node(treeID int, featureID int64, label string) {
	w.t.Helper()
	w.nextNode++
	w.exec(`INSERT INTO phylonode(phylonode_id, phylotree_id, feature_id, label) VALUES(?, ?, ?, ?)`, w.nextNode, treeID, featureID, label)
}
