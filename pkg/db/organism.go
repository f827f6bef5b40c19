package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// OrganismRow is one row of the Chado organism table.
type OrganismRow struct {
	ID           int
	Abbreviation string
	Genus        string
	Species      string
}

// SplitStrain separates the strain suffix Chado encodes in species, e.g.
// "arietinum_desi" -> ("arietinum", "desi", true).
func (o OrganismRow) SplitStrain() (species, strain string, ok bool) {
	if o.Genus == "" || !strings.Contains(o.Species, "_") {
		return o.Species, "", false
	}
	parts := strings.SplitN(o.Species, "_", 2)
	return parts[0], parts[1], parts[1] != ""
}

func (c *Chado) Organisms(ctx context.Context) ([]OrganismRow, error) {
	rows, err := c.query(ctx, `SELECT organism_id, abbreviation, genus, species FROM organism ORDER BY organism_id`)
	if err != nil {
		return nil, fmt.Errorf("select organisms: %w", err)
	}
	defer rows.Close()

	var out []OrganismRow
	for rows.Next() {
		var r OrganismRow
		var abbr, genus, species sql.NullString
		if err := rows.Scan(&r.ID, &abbr, &genus, &species); err != nil {
			return nil, fmt.Errorf("scan organism: %w", err)
		}
		r.Abbreviation, r.Genus, r.Species = abbr.String, genus.String, species.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organisms: %w", err)
	}
	return out, nil
}

// CVTermID resolves a controlled vocabulary term name. ok is false when absent.
func (c *Chado) CVTermID(ctx context.Context, name string) (id int, ok bool, err error) {
	err = c.queryRow(ctx, `SELECT cvterm_id FROM cvterm WHERE name = ? ORDER BY cvterm_id LIMIT 1`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select cvterm %q: %w", name, err)
	}
	return id, true, nil
}
