package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/twoway/pkg/machine"
)

// RunValidate loads the definition and checks it. With all set, every
// violation is collected instead of stopping at the first one.
func RunValidate(ctx context.Context, opts Options, all bool) error {
	loader, closeLoader, err := createLoader(opts)
	if err != nil {
		return err
	}
	defer closeLoader()

	def, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load machine: %w", err)
	}

	if all {
		return machine.Diagnose(def)
	}
	_, err = machine.Validate(def)
	return err
}
