package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/twoway/pkg/adapters/text"
	"github.com/aretw0/twoway/pkg/adapters/yaml"
)

// FormatYAML selects the YAML definition format; FormatText doubles as the
// line-based one.
const FormatYAML = "yaml"

// RunConvert validates the definition and writes it to w in the given
// format: "text" (the line-based format) or "yaml". The output of one
// format loads back through the other's loader, e.g. to store it in Redis.
func RunConvert(opts Options, format string, w io.Writer) error {
	engine, err := CreateEngine(opts)
	if err != nil {
		return err
	}
	def := engine.Inspect()

	switch format {
	case FormatText:
		return text.Format(w, def)
	case FormatYAML:
		data, err := yaml.Format(def)
		if err != nil {
			return fmt.Errorf("failed to encode machine: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatText, FormatYAML)
}
