// Package roles assigns the source and target homology roles to warehouse
// organism ids.
package roles

import (
	"sort"

	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/db"
	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
	"github.com/LegumeFederation/intermine-legfed/pkg/organism"
)

// Selection is the configured identifiers for each role. Organism entries are
// taxon ids or abbreviations; strain entries match the suffix of a Chado
// species field such as "arietinum_desi".
type Selection struct {
	SourceOrganisms []string
	TargetOrganisms []string
	SourceStrains   []string
	TargetStrains   []string
}

// Roles maps internal organism ids to descriptors, per role. An id may carry both roles.
type Roles struct {
	Source        map[int]organism.Data
	Target        map[int]organism.Data
	SourceStrains map[int]string
	TargetStrains map[int]string
}

func (r *Roles) HasSource(id int) bool {
	_, ok := r.Source[id]
	return ok
}

func (r *Roles) HasTarget(id int) bool {
	_, ok := r.Target[id]
	return ok
}

// Organism returns the descriptor for a role-bearing id.
func (r *Roles) Organism(id int) (organism.Data, bool) {
	if d, ok := r.Source[id]; ok {
		return d, true
	}
	d, ok := r.Target[id]
	return d, ok
}

// Strain returns the strain associated with a role-bearing id, if any.
func (r *Roles) Strain(id int) (string, bool) {
	if s, ok := r.SourceStrains[id]; ok {
		return s, true
	}
	s, ok := r.TargetStrains[id]
	return s, ok
}

// OrganismIDs is the sorted union of source and target ids.
func (r *Roles) OrganismIDs() []int {
	seen := make(map[int]struct{}, len(r.Source)+len(r.Target))
	for id := range r.Source {
		seen[id] = struct{}{}
	}
	for id := range r.Target {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type row struct {
	db.OrganismRow
	data      organism.Data
	hasData   bool
	strain    string
	hasStrain bool
}

// Resolve assigns roles from one scan of the warehouse organism table.
func Resolve(rows []db.OrganismRow, dir organism.Directory, sel Selection) (*Roles, error) {
	described := describe(rows, dir)

	r := &Roles{
		Source:        make(map[int]organism.Data),
		Target:        make(map[int]organism.Data),
		SourceStrains: make(map[int]string),
		TargetStrains: make(map[int]string),
	}
	if err := assignOrganisms(described, dir, sel.SourceOrganisms, "source", r.Source, r.SourceStrains); err != nil {
		return nil, err
	}
	if err := assignOrganisms(described, dir, sel.TargetOrganisms, "target", r.Target, r.TargetStrains); err != nil {
		return nil, err
	}
	if err := assignStrains(described, sel.SourceStrains, "source", r.Source, r.SourceStrains); err != nil {
		return nil, err
	}
	if err := assignStrains(described, sel.TargetStrains, "target", r.Target, r.TargetStrains); err != nil {
		return nil, err
	}

	if len(r.Source) == 0 {
		return nil, loaderr.Configf("no source organisms found in the warehouse organism table")
	}
	if len(r.Target) == 0 {
		return nil, loaderr.Configf("no target organisms found in the warehouse organism table")
	}
	logger.Info("Resolved organism roles",
		zap.Int("source", len(r.Source)),
		zap.Int("target", len(r.Target)),
		zap.Int("sourceStrains", len(r.SourceStrains)),
		zap.Int("targetStrains", len(r.TargetStrains)))
	return r, nil
}

// describe attaches a canonical descriptor and strain to every warehouse row.
// Genus+species wins over abbreviation.
func describe(rows []db.OrganismRow, dir organism.Directory) []row {
	out := make([]row, 0, len(rows))
	for _, o := range rows {
		species, strain, hasStrain := o.SplitStrain()
		rw := row{OrganismRow: o, strain: strain, hasStrain: hasStrain}
		if o.Genus != "" && species != "" {
			rw.data, rw.hasData = dir.ByGenusSpecies(o.Genus, species)
		}
		if !rw.hasData && o.Abbreviation != "" {
			rw.data, rw.hasData = dir.ByAbbreviation(o.Abbreviation)
		}
		if !rw.hasData {
			logger.Warn("No organism descriptor for warehouse organism",
				zap.Int("organismId", o.ID),
				zap.String("genus", o.Genus),
				zap.String("species", o.Species),
				zap.String("abbreviation", o.Abbreviation))
		}
		out = append(out, rw)
	}
	return out
}

func assignOrganisms(rows []row, dir organism.Directory, identifiers []string, role string,
	into map[int]organism.Data, strains map[int]string) error {
	for _, ident := range identifiers {
		want, ok := organism.Lookup(dir, ident)
		if !ok {
			return loaderr.Configf("%s organism %q not found in the organism directory", role, ident)
		}
		matched := 0
		for _, rw := range rows {
			if !rw.hasData || rw.data.TaxonID != want.TaxonID {
				continue
			}
			into[rw.ID] = rw.data
			if rw.hasStrain {
				strains[rw.ID] = rw.strain
			}
			matched++
		}
		if matched == 0 {
			return loaderr.Configf("%s organism %s not found in the warehouse organism table", role, want)
		}
	}
	return nil
}

func assignStrains(rows []row, identifiers []string, role string,
	into map[int]organism.Data, strains map[int]string) error {
	for _, ident := range identifiers {
		matched := 0
		for _, rw := range rows {
			if !rw.hasStrain || rw.strain != ident {
				continue
			}
			if !rw.hasData {
				return loaderr.Configf("%s strain %q (organism id %d) has no organism descriptor", role, ident, rw.ID)
			}
			into[rw.ID] = rw.data
			strains[rw.ID] = rw.strain
			matched++
		}
		if matched == 0 {
			return loaderr.Configf("%s strain %q not found in the warehouse organism table", role, ident)
		}
	}
	return nil
}
