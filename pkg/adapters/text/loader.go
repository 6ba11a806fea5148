package text

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/twoway/pkg/domain"
)

// Loader implements ports.DefinitionLoader for a definition file on disk.
type Loader struct {
	path string
}

// NewLoader creates a loader for the file at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load opens and parses the file. Each call re-reads it.
func (l *Loader) Load(ctx context.Context) (domain.Definition, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("failed to open definition: %w", err)
	}
	defer f.Close()

	def, err := Parse(f)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("%s: %w", l.path, err)
	}
	return def, nil
}

// Name identifies the source in logs.
func (l *Loader) Name() string {
	return l.path
}
