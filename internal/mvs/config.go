package mvs

import (
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/storage"
	"github.com/reifydb/reifydb/internal/storage/memstore"
	"github.com/reifydb/reifydb/internal/storage/pagestore"
)

// Config describes which tiers a Store opens. It decodes directly from
// YAML (gopkg.in/yaml.v3), following the engine's typed-config-struct
// convention rather than a bag of flags threaded through constructors.
type Config struct {
	// WarmPath and ColdPath are bbolt file paths for the warm and cold
	// tiers; leaving either empty skips that tier. Hot is always an
	// in-memory tier and needs no path.
	WarmPath string `yaml:"warm_path"`
	ColdPath string `yaml:"cold_path"`

	// Sync controls whether the warm/cold page stores fsync every
	// commit; see pagestore.Options.Sync.
	Sync bool `yaml:"sync"`
}

// Open builds a Store per cfg: hot is always a fresh in-memory tier; warm
// and cold are opened as bbolt-backed page stores at their configured
// paths, or left nil when the path is empty.
func Open(cfg Config) (*Store, error) {
	hot := memstore.New()

	var warm, cold storage.Backend
	if cfg.WarmPath != "" {
		w, err := pagestore.Open(cfg.WarmPath, pagestore.Options{Sync: cfg.Sync})
		if err != nil {
			return nil, diagnostic.StorageIOFailure(err)
		}
		warm = w
	}
	if cfg.ColdPath != "" {
		c, err := pagestore.Open(cfg.ColdPath, pagestore.Options{Sync: cfg.Sync})
		if err != nil {
			return nil, diagnostic.StorageIOFailure(err)
		}
		cold = c
	}
	return New(hot, warm, cold), nil
}
