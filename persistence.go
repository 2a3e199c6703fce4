package pricemap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/pricemap-tw/pricemap/internal/backend/memory"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence exports the loaded directory.
type Persistence interface {
	// Save writes the loaded rows as a fixture that WithFixture can read back
	Save(path string) error
}

// Save writes the loaded rows to path. A .json extension writes JSON,
// anything else writes YAML.
func (c *client) Save(path string) error {
	snap := c.dir.Snapshot()
	if !snap.Loaded() {
		return errors.ErrNotLoaded
	}

	fixture := memory.Fixture{Locations: snap.Locations}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(fixture, "", "  ")
	} else {
		data, err = yaml.Marshal(fixture)
	}
	if err != nil {
		return errors.WrapParse("fixture", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewConfigError("persistence", "cannot create "+dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.NewConfigError("persistence", "cannot write "+path, err)
	}

	c.options.logger.Info().
		Str("path", path).
		Int("locations", len(snap.Locations)).
		Time("loaded_at", snap.LoadedAt).
		Msg("Directory saved")
	return nil
}
