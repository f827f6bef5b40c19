// Package organism resolves taxon identifiers and abbreviations to canonical
// organism descriptors and keeps the Organism/Strain items of a run.
package organism

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Data is the canonical descriptor of an organism.
type Data struct {
	TaxonID      int
	Abbreviation string
	Genus        string
	Species      string
	Variety      string
}

func (d Data) TaxonString() string { return strconv.Itoa(d.TaxonID) }

func (d Data) String() string {
	return fmt.Sprintf("%d %s %s", d.TaxonID, d.Genus, d.Species)
}

// Directory is the lookup capability consumed by the role resolver.
type Directory interface {
	ByTaxon(taxonID string) (Data, bool)
	ByAbbreviation(abbreviation string) (Data, bool)
	ByGenusSpecies(genus, species string) (Data, bool)
}

// Lookup resolves a configured identifier: integers are taxon ids, anything
// else is tried as an abbreviation.
func Lookup(dir Directory, identifier string) (Data, bool) {
	if _, err := strconv.Atoi(identifier); err == nil {
		return dir.ByTaxon(identifier)
	}
	return dir.ByAbbreviation(identifier)
}

var _ Directory = (*Repository)(nil)

// Repository is an in-memory Directory.
type Repository struct {
	byTaxon        map[int]Data
	byAbbreviation map[string]Data
	byGenusSpecies map[string]Data
}

func NewRepository(records []Data) *Repository {
	r := &Repository{
		byTaxon:        make(map[int]Data, len(records)),
		byAbbreviation: make(map[string]Data, len(records)),
		byGenusSpecies: make(map[string]Data, len(records)),
	}
	for _, d := range records {
		r.byTaxon[d.TaxonID] = d
		if d.Abbreviation != "" {
			r.byAbbreviation[strings.ToLower(d.Abbreviation)] = d
		}
		r.byGenusSpecies[genusSpeciesKey(d.Genus, d.Species)] = d
	}
	return r
}

func genusSpeciesKey(genus, species string) string {
	return strings.ToLower(genus) + " " + strings.ToLower(species)
}

func (r *Repository) ByTaxon(taxonID string) (Data, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(taxonID))
	if err != nil {
		return Data{}, false
	}
	d, ok := r.byTaxon[id]
	return d, ok
}

func (r *Repository) ByAbbreviation(abbreviation string) (Data, bool) {
	d, ok := r.byAbbreviation[strings.ToLower(abbreviation)]
	return d, ok
}

func (r *Repository) ByGenusSpecies(genus, species string) (Data, bool) {
	d, ok := r.byGenusSpecies[genusSpeciesKey(genus, species)]
	return d, ok
}

func (r *Repository) Len() int { return len(r.byTaxon) }

// ReadRepository parses a tab separated directory:
//
//	taxon_id  abbreviation  genus  species  [variety]
//
// Lines starting with '#' are comments.
func ReadRepository(rd io.Reader) (*Repository, error) {
	cr := csv.NewReader(rd)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []Data
	line := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read organism directory: %w", err)
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("organism directory record %d: want at least 4 fields, got %d", line, len(fields))
		}
		taxon, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("organism directory record %d: bad taxon id %q", line, fields[0])
		}
		d := Data{
			TaxonID:      taxon,
			Abbreviation: strings.TrimSpace(fields[1]),
			Genus:        strings.TrimSpace(fields[2]),
			Species:      strings.TrimSpace(fields[3]),
		}
		if len(fields) > 4 {
			d.Variety = strings.TrimSpace(fields[4])
		}
		records = append(records, d)
	}
	return NewRepository(records), nil
}

func LoadRepository(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open organism directory: %w", err)
	}
	defer f.Close()
	return ReadRepository(f)
}
