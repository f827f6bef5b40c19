package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/LegumeFederation/intermine-legfed/internal/util"
	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
)

const (
	defaultDriver       = "pgx"
	defaultItemsBackend = "sqlite"
	defaultItemsPath    = "./data/items.db"
	defaultProcessors   = "homology"
)

// S3 holds the optional upload target for the finished item export.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	PathStyle bool
}

func (s S3) Enabled() bool { return s.Bucket != "" }

type Config struct {
	WarehouseDriver string
	WarehouseDSN    string

	Processors         []string
	Organisms          []string
	HomologueOrganisms []string
	Strains            []string
	HomologueStrains   []string
	PhytozomeVersion   string

	OrganismFile string

	ItemsBackend   string
	ItemsPath      string
	ConsensusFasta string
	MetricsFile    string
	StatusAddr     string
	LogLevel       string

	S3 S3
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env found, using local environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) Config {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	return Config{
		WarehouseDriver:    get("LOADER_WAREHOUSE_DRIVER", defaultDriver),
		WarehouseDSN:       get("LOADER_WAREHOUSE_DSN", ""),
		Processors:         util.SplitList(get("LOADER_PROCESSORS", defaultProcessors)),
		Organisms:          util.SplitList(getenv("LOADER_ORGANISMS")),
		HomologueOrganisms: util.SplitList(getenv("LOADER_HOMOLOGUE_ORGANISMS")),
		Strains:            util.SplitList(getenv("LOADER_STRAINS")),
		HomologueStrains:   util.SplitList(getenv("LOADER_HOMOLOGUE_STRAINS")),
		PhytozomeVersion:   get("LOADER_PHYTOZOME_VERSION", ""),
		OrganismFile:       get("LOADER_ORGANISM_FILE", "./data/organisms.tsv"),
		ItemsBackend:       get("LOADER_ITEMS_BACKEND", defaultItemsBackend),
		ItemsPath:          get("LOADER_ITEMS_PATH", defaultItemsPath),
		ConsensusFasta:     get("LOADER_CONSENSUS_FASTA", ""),
		MetricsFile:        get("LOADER_METRICS_FILE", ""),
		StatusAddr:         get("LOADER_STATUS_ADDR", ""),
		LogLevel:           get("LOADER_LOG_LEVEL", "info"),
		S3: S3{
			Bucket:    get("LOADER_S3_BUCKET", ""),
			Region:    get("LOADER_S3_REGION", ""),
			Endpoint:  get("LOADER_S3_ENDPOINT", ""),
			Prefix:    get("LOADER_S3_PREFIX", ""),
			PathStyle: strings.EqualFold(getenv("LOADER_S3_PATH_STYLE"), "true"),
		},
	}
}

// Validate checks the values every run needs. Role-list emptiness is left to
// the role resolver, which knows about strains as well.
func (c Config) Validate() error {
	if c.WarehouseDSN == "" {
		return loaderr.Configf("LOADER_WAREHOUSE_DSN must be set")
	}
	switch c.WarehouseDriver {
	case "pgx", "sqlite":
	default:
		return loaderr.Configf("unsupported warehouse driver %q", c.WarehouseDriver)
	}
	if len(c.Processors) == 0 {
		return loaderr.Configf("LOADER_PROCESSORS must name at least one processor")
	}
	switch c.ItemsBackend {
	case "sqlite", "jsonl":
	default:
		return loaderr.Configf("unsupported items backend %q", c.ItemsBackend)
	}
	return nil
}
