package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Feature is the subset of a Chado feature row the loader reads.
type Feature struct {
	ID         int64
	OrganismID int
	UniqueName string
	Name       string
	TypeID     int
	Residues   string
	SeqLen     int
	HasSeqLen  bool
}

const featureColumns = `feature_id, organism_id, uniquename, name, type_id, seqlen`

func scanFeatures(rows *sql.Rows, withResidues bool) ([]Feature, error) {
	var out []Feature
	for rows.Next() {
		f, err := scanFeature(rows, withResidues)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(s scanner, withResidues bool) (Feature, error) {
	var f Feature
	var name, residues sql.NullString
	var seqlen sql.NullInt64
	dest := []any{&f.ID, &f.OrganismID, &f.UniqueName, &name, &f.TypeID, &seqlen}
	if withResidues {
		dest = append(dest, &residues)
	}
	if err := s.Scan(dest...); err != nil {
		return Feature{}, err
	}
	f.Name = name.String
	f.Residues = residues.String
	f.SeqLen, f.HasSeqLen = int(seqlen.Int64), seqlen.Valid
	return f, nil
}

// FeatureByUniqueName returns the first feature with this uniquename, including residues.
func (c *Chado) FeatureByUniqueName(ctx context.Context, uniqueName string) (Feature, bool, error) {
	row := c.queryRow(ctx,
		`SELECT `+featureColumns+`, residues FROM feature WHERE uniquename = ? ORDER BY feature_id LIMIT 1`, uniqueName)
	return c.singleFeature(row, uniqueName)
}

// FeatureByUniqueNameAndType narrows FeatureByUniqueName to one cvterm type.
func (c *Chado) FeatureByUniqueNameAndType(ctx context.Context, uniqueName string, typeID int) (Feature, bool, error) {
	row := c.queryRow(ctx,
		`SELECT `+featureColumns+`, residues FROM feature WHERE uniquename = ? AND type_id = ? ORDER BY feature_id LIMIT 1`,
		uniqueName, typeID)
	return c.singleFeature(row, uniqueName)
}

func (c *Chado) singleFeature(row *sql.Row, uniqueName string) (Feature, bool, error) {
	f, err := scanFeature(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return Feature{}, false, nil
	}
	if err != nil {
		return Feature{}, false, fmt.Errorf("select feature %q: %w", uniqueName, err)
	}
	return f, true, nil
}

// FamilyNames lists the distinct values of featureprops typed termID.
func (c *Chado) FamilyNames(ctx context.Context, termID int) ([]string, error) {
	rows, err := c.query(ctx, `SELECT DISTINCT value FROM featureprop WHERE type_id = ? ORDER BY value`, termID)
	if err != nil {
		return nil, fmt.Errorf("select family names: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan family name: %w", err)
		}
		if v.Valid && v.String != "" {
			out = append(out, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family names: %w", err)
	}
	return out, nil
}

// FamilyMembers returns features of type geneTypeID carrying a featureprop
// (familyTermID, family).
func (c *Chado) FamilyMembers(ctx context.Context, geneTypeID, familyTermID int, family string) ([]Feature, error) {
	q := `SELECT f.feature_id, f.organism_id, f.uniquename, f.name, f.type_id, f.seqlen
		FROM feature f
		JOIN featureprop fp ON f.feature_id = fp.feature_id
		WHERE f.type_id = ? AND fp.type_id = ? AND fp.value = ?
		ORDER BY f.feature_id`
	rows, err := c.query(ctx, q, geneTypeID, familyTermID, family)
	if err != nil {
		return nil, fmt.Errorf("select members of family %q: %w", family, err)
	}
	defer rows.Close()
	return scanFeatures(rows, false)
}
