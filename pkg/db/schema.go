package db

// SchemaSQLite is the subset of the Chado schema the loader reads, used to
// build local warehouse copies and test fixtures.
const SchemaSQLite = `
CREATE TABLE IF NOT EXISTS organism (
	organism_id  INTEGER PRIMARY KEY,
	abbreviation TEXT,
	genus        TEXT,
	species      TEXT,
	common_name  TEXT
);
CREATE TABLE IF NOT EXISTS cvterm (
	cvterm_id INTEGER PRIMARY KEY,
	name      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS feature (
	feature_id  INTEGER PRIMARY KEY,
	organism_id INTEGER NOT NULL REFERENCES organism(organism_id),
	name        TEXT,
	uniquename  TEXT NOT NULL,
	residues    TEXT,
	seqlen      INTEGER,
	type_id     INTEGER NOT NULL REFERENCES cvterm(cvterm_id)
);
CREATE INDEX IF NOT EXISTS feature_uniquename ON feature(uniquename);
CREATE TABLE IF NOT EXISTS featureprop (
	featureprop_id INTEGER PRIMARY KEY,
	feature_id     INTEGER NOT NULL REFERENCES feature(feature_id),
	type_id        INTEGER NOT NULL REFERENCES cvterm(cvterm_id),
	value          TEXT
);
CREATE TABLE IF NOT EXISTS phylotree (
	phylotree_id INTEGER PRIMARY KEY,
	name         TEXT,
	comment      TEXT
);
CREATE TABLE IF NOT EXISTS phylonode (
	phylonode_id INTEGER PRIMARY KEY,
	phylotree_id INTEGER NOT NULL REFERENCES phylotree(phylotree_id),
	feature_id   INTEGER REFERENCES feature(feature_id),
	label        TEXT
);
`
