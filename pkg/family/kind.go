package family

import (
	"strings"

	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
)

// Kind selects how gene-family membership is read from the warehouse.
type Kind int

const (
	// Tree walks versioned phylotrees and their phylonode features.
	Tree Kind = iota + 1
	// Property groups gene features by their "gene family" featureprop.
	Property
)

func (k Kind) String() string {
	switch k {
	case Tree:
		return "tree"
	case Property:
		return "property"
	}
	return "unknown"
}

var kindNames = map[string]Kind{
	"homology":            Tree,
	"tree":                Tree,
	"homologyprocessor":   Tree,
	"gene-family":         Property,
	"genefamily":          Property,
	"property":            Property,
	"genefamilyprocessor": Property,
}

// ParseKind maps a configured processor name to its Kind. Java-style class
// names are accepted with or without their package.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndexByte(n, '.'); i >= 0 {
		n = n[i+1:]
	}
	if k, ok := kindNames[n]; ok {
		return k, nil
	}
	return 0, loaderr.Configf("unknown processor %q", name)
}

func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return nil, loaderr.Configf("no processors configured")
	}
	out := make([]Kind, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
