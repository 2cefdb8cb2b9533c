package chromadec

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/internal/options"
	"github.com/arloliu/chromadec/schema"
)

// config holds the settings shared by Decode and DecodeBatch.
type config struct {
	precision int
	allow     map[string]struct{} // upper-case base names; nil allows all
	workers   int
	logger    *slog.Logger
	cache     *schema.Cache
	raws      *rawDirs
}

// Option configures decoding.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.DiscardHandler),
		raws:    newRawDirs(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithPrecision sets the number of decimals mass labels are rounded to.
// The default is 0.
func WithPrecision(prec int) Option {
	return options.New(func(c *config) error {
		if prec < 0 {
			return fmt.Errorf("precision %d: %w", prec, errs.ErrInvalidPrecision)
		}
		c.precision = prec

		return nil
	})
}

// WithAllowList restricts decoding to the given base file names, compared
// case-insensitively. Other files fail with errs.ErrSkipped. Calling it with
// no names allows every file.
func WithAllowList(names ...string) Option {
	return options.NoError(func(c *config) {
		if len(names) == 0 {
			c.allow = nil
			return
		}

		c.allow = make(map[string]struct{}, len(names))
		for _, n := range names {
			c.allow[strings.ToUpper(n)] = struct{}{}
		}
	})
}

// WithWorkers bounds the number of files DecodeBatch decodes at once. The
// default is runtime.NumCPU().
func WithWorkers(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%d workers: %w", n, errs.ErrInvalidWorkers)
		}
		c.workers = n

		return nil
	})
}

// WithLogger sets the logger for batch progress and per-file failures. A
// nil logger discards output, which is also the default.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	})
}

// WithSchemaCache shares compiled MassHunter record schemas across calls.
// DecodeBatch creates a cache for the batch when none is given.
func WithSchemaCache(cache *schema.Cache) Option {
	return options.NoError(func(c *config) {
		c.cache = cache
	})
}

func (c *config) allowed(base string) bool {
	if c.allow == nil {
		return true
	}
	_, ok := c.allow[strings.ToUpper(base)]

	return ok
}
