package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Tree struct {
	ID      int
	Name    string
	Comment string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TreesByVersion lists phylotrees named "<version>.*". The version is matched
// literally, so "_" in "phytozome_10_2" is not a wildcard.
func (c *Chado) TreesByVersion(ctx context.Context, version string) ([]Tree, error) {
	rows, err := c.query(ctx,
		`SELECT phylotree_id, name, comment FROM phylotree WHERE name LIKE ? ESCAPE '\' ORDER BY name`,
		likeEscaper.Replace(version)+".%")
	if err != nil {
		return nil, fmt.Errorf("select phylotrees: %w", err)
	}
	defer rows.Close()

	var out []Tree
	for rows.Next() {
		var t Tree
		var comment sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &comment); err != nil {
			return nil, fmt.Errorf("scan phylotree: %w", err)
		}
		t.Comment = comment.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phylotrees: %w", err)
	}
	return out, nil
}

// TreeComment returns the comment of the phylotree with this exact name.
func (c *Chado) TreeComment(ctx context.Context, name string) (string, bool, error) {
	var comment sql.NullString
	err := c.queryRow(ctx, `SELECT comment FROM phylotree WHERE name = ? ORDER BY phylotree_id LIMIT 1`, name).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select phylotree comment %q: %w", name, err)
	}
	return comment.String, comment.Valid && comment.String != "", nil
}

// TreeMembers returns the features referenced by nodes of a tree whose
// organism is one of organismIDs.
func (c *Chado) TreeMembers(ctx context.Context, treeID int, organismIDs []int) ([]Feature, error) {
	if len(organismIDs) == 0 {
		return nil, nil
	}
	marks, args := inClause(organismIDs)
	q := `SELECT f.feature_id, f.organism_id, f.uniquename, f.name, f.type_id, f.seqlen
		FROM phylonode n
		JOIN feature f ON n.feature_id = f.feature_id
		WHERE n.phylotree_id = ? AND f.organism_id IN (` + marks + `)
		ORDER BY f.feature_id`
	rows, err := c.query(ctx, q, append([]any{treeID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("select phylonode members of tree %d: %w", treeID, err)
	}
	defer rows.Close()
	return scanFeatures(rows, false)
}
