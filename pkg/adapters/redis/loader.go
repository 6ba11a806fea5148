// Package redis loads machine definitions stored under Redis keys.
// Definitions are read only; the package never writes to Redis.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/twoway/pkg/adapters/text"
	"github.com/aretw0/twoway/pkg/adapters/yaml"
	"github.com/aretw0/twoway/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces definition keys.
const DefaultPrefix = "twoway:machine:"

// ErrDefinitionNotFound is returned when the key does not exist.
var ErrDefinitionNotFound = errors.New("definition not found")

// Format selects the decoder for stored values.
type Format string

const (
	FormatAuto Format = ""
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Loader implements ports.DefinitionLoader for one named definition.
type Loader struct {
	client *backend.Client
	prefix string
	name   string
	format Format
}

type Option func(*Loader)

// WithPrefix sets the key prefix for definitions.
func WithPrefix(prefix string) Option {
	return func(l *Loader) {
		l.prefix = prefix
	}
}

// WithFormat forces the stored format instead of sniffing it.
func WithFormat(f Format) Option {
	return func(l *Loader) {
		l.format = f
	}
}

// New creates a loader with its own client.
func New(address, password string, db int, name string, opts ...Option) *Loader {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, name, opts...)
}

// NewFromClient creates a loader from an existing client.
func NewFromClient(client *backend.Client, name string, opts ...Option) *Loader {
	l := &Loader{
		client: client,
		prefix: DefaultPrefix,
		name:   name,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) key() string {
	return l.prefix + l.name
}

// Load fetches and decodes the definition.
func (l *Loader) Load(ctx context.Context) (domain.Definition, error) {
	data, err := l.client.Get(ctx, l.key()).Bytes()
	if errors.Is(err, backend.Nil) {
		return domain.Definition{}, fmt.Errorf("%w: %s", ErrDefinitionNotFound, l.key())
	}
	if err != nil {
		return domain.Definition{}, fmt.Errorf("redis get failed for %s: %w", l.key(), err)
	}

	def, err := Decode(data, l.format)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("%s: %w", l.key(), err)
	}
	return def, nil
}

// Name identifies the source in logs.
func (l *Loader) Name() string {
	return "redis://" + l.key()
}

// List returns the names of the definitions stored under the prefix, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := l.client.Scan(ctx, 0, l.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), l.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close releases the underlying client.
func (l *Loader) Close() error {
	return l.client.Close()
}

// Decode parses a stored value. FormatAuto treats documents that open with
// '{' or a "states:" key as YAML/JSON and anything else as the text format.
func Decode(data []byte, f Format) (domain.Definition, error) {
	if f == FormatAuto {
		f = sniff(data)
	}
	switch f {
	case FormatYAML:
		return yaml.Parse(data)
	case FormatText:
		return text.Parse(bytes.NewReader(data))
	}
	return domain.Definition{}, fmt.Errorf("unknown definition format %q", f)
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		return FormatYAML
	}
	for _, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.HasPrefix(line, []byte("states:")) {
			return FormatYAML
		}
		break
	}
	return FormatText
}
