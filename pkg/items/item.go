// Package items is the entity sink: it allocates items (organisms, genes,
// gene families, homologues ...) and persists them through a Backend.
package items

import "sort"

type Kind string

const (
	KindOrganism        Kind = "Organism"
	KindStrain          Kind = "Strain"
	KindGene            Kind = "Gene"
	KindGeneFamily      Kind = "GeneFamily"
	KindHomologue       Kind = "Homologue"
	KindConsensusRegion Kind = "ConsensusRegion"
	KindSequence        Kind = "Sequence"
)

// Item is one entity of the output graph. References and collections point at
// other items and are written out as identifiers.
type Item struct {
	Kind        Kind
	Identifier  string
	Attributes  map[string]string
	References  map[string]*Item
	Collections map[string][]*Item
}

func newItem(kind Kind, identifier string) *Item {
	return &Item{
		Kind:        kind,
		Identifier:  identifier,
		Attributes:  map[string]string{},
		References:  map[string]*Item{},
		Collections: map[string][]*Item{},
	}
}

func (i *Item) SetAttribute(name, value string) {
	i.Attributes[name] = value
}

func (i *Item) Attribute(name string) string {
	return i.Attributes[name]
}

func (i *Item) HasAttribute(name string) bool {
	_, ok := i.Attributes[name]
	return ok
}

func (i *Item) SetReference(name string, ref *Item) {
	if ref == nil {
		delete(i.References, name)
		return
	}
	i.References[name] = ref
}

func (i *Item) Reference(name string) *Item {
	return i.References[name]
}

func (i *Item) AddToCollection(name string, ref *Item) {
	i.Collections[name] = append(i.Collections[name], ref)
}

func (i *Item) Collection(name string) []*Item {
	return i.Collections[name]
}

// Record is the flattened, serializable form of an Item.
type Record struct {
	ID          string              `json:"id"`
	Kind        Kind                `json:"kind"`
	Attributes  map[string]string   `json:"attributes,omitempty"`
	References  map[string]string   `json:"references,omitempty"`
	Collections map[string][]string `json:"collections,omitempty"`
}

func (i *Item) Record() Record {
	rec := Record{ID: i.Identifier, Kind: i.Kind}
	if len(i.Attributes) > 0 {
		rec.Attributes = make(map[string]string, len(i.Attributes))
		for k, v := range i.Attributes {
			rec.Attributes[k] = v
		}
	}
	if len(i.References) > 0 {
		rec.References = make(map[string]string, len(i.References))
		for k, v := range i.References {
			rec.References[k] = v.Identifier
		}
	}
	if len(i.Collections) > 0 {
		rec.Collections = make(map[string][]string, len(i.Collections))
		for k, refs := range i.Collections {
			ids := make([]string, 0, len(refs))
			for _, r := range refs {
				ids = append(ids, r.Identifier)
			}
			rec.Collections[k] = ids
		}
	}
	return rec
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
