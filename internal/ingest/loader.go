// Package ingest loads the movie dataset at startup and on reload. The
// load happens once, off the request path; the resulting records are
// handed to the service container for indexing.
package ingest

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/config"
	"github.com/cinefusion/cinefusion/internal/models"
)

// Loader reads the full record set from a dataset source.
type Loader interface {
	Load() ([]models.Movie, error)
}

// New selects the loader for the configured dataset source.
func New(cfg config.DatasetConfig, logger *logrus.Logger) (Loader, error) {
	switch cfg.Source {
	case "csv", "":
		return NewCSVLoader(cfg.Path, logger), nil
	case "sqlite":
		return NewSQLiteLoader(cfg.Path, logger), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}
