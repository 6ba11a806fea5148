package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/twoway"
	"github.com/aretw0/twoway/internal/config"
	"github.com/aretw0/twoway/internal/logging"
	"github.com/aretw0/twoway/pkg/adapters/redis"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/observability"
	"github.com/aretw0/twoway/pkg/ports"
)

// Options carries what every command needs to build an engine.
type Options struct {
	// Path is the definition file. Ignored when RedisName is set.
	Path string
	// RedisName loads the definition stored under the configured key prefix.
	RedisName string

	Config config.Config
	Logger *slog.Logger
	Hooks  domain.LifecycleHooks
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

// createLoader picks the definition source. The returned closer releases
// any connection the loader holds.
func createLoader(opts Options) (ports.DefinitionLoader, func(), error) {
	if opts.RedisName != "" {
		r := opts.Config.Redis
		l := redis.New(r.Addr, r.Password, r.DB, opts.RedisName, redis.WithPrefix(r.KeyPrefix))
		return l, func() { _ = l.Close() }, nil
	}
	if opts.Path == "" {
		return nil, nil, fmt.Errorf("a definition file or --redis-name is required")
	}
	return twoway.LoaderFor(opts.Path), func() {}, nil
}

// CreateEngine initializes an engine with standard CLI conventions:
// the configured step limit, the logger, and debug hooks when enabled.
func CreateEngine(opts Options) (*twoway.Engine, error) {
	loader, closeLoader, err := createLoader(opts)
	if err != nil {
		return nil, err
	}
	defer closeLoader()

	logger := opts.logger()
	hooks := opts.Hooks
	if opts.Config.Debug {
		hooks = hooks.Merge(observability.LogHooks(logger))
	}

	label := opts.Path
	if opts.RedisName != "" {
		label = ""
	}

	engine, err := twoway.New(label,
		twoway.WithLoader(loader),
		twoway.WithLogger(logger),
		twoway.WithLifecycleHooks(hooks),
		twoway.WithMaxSteps(opts.Config.MaxSteps),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
