// Package chromadec decodes chromatography and mass spectrometry data files
// from Agilent ChemStation, Agilent MassHunter and Waters MassLynx into a
// common time x label matrix.
//
// # Supported inputs
//
//   - ChemStation .ch channels (FID, version 130 and 30)
//   - ChemStation .uv spectra (version 131 and 31, partial files)
//   - ChemStation .ms spectra (LC and GC, partial LC files)
//   - MassHunter AcqData/MSProfile.bin profile spectra
//   - MassLynx .raw/_FUNCnnn.DAT spectra and _CHROnnn.DAT analog channels
//
// Single files are recognized by magic bytes; directory formats by member
// name. Nothing is guessed: unmatched input fails with
// errs.ErrUnrecognizedFormat.
//
// # Basic Usage
//
//	file, err := chromadec.Decode("run.D/DAD1.UV")
//	if err != nil {
//	    return err
//	}
//	for i, t := range file.Times {
//	    fmt.Println(t, file.Matrix.Row(i))
//	}
//
// Decoding many files in parallel:
//
//	results, err := chromadec.DecodeBatch(ctx, paths,
//	    chromadec.WithPrecision(1),
//	    chromadec.WithWorkers(4),
//	    chromadec.WithLogger(slog.Default()))
//
// Truncated and partial files decode to the scans that could be read; the
// reason is recorded in DecodedFile.Annotations rather than returned as an
// error.
package chromadec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/chromadec/chemstation"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/internal/hash"
	"github.com/arloliu/chromadec/masshunter"
	"github.com/arloliu/chromadec/masslynx"
	"github.com/arloliu/chromadec/registry"
	"github.com/arloliu/chromadec/schema"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

// FingerprintKey is the metadata key holding the xxHash64 of a single-file
// input, in hex.
const FingerprintKey = "xxh64"

// Result is the outcome of decoding one path in a batch.
type Result struct {
	Path string
	File *spectrum.DecodedFile
	Err  error
}

// Decode decodes the file at path.
//
// ChemStation files are read whole. MassLynx members and MSProfile.bin are
// decoded with their sibling companion files.
func Decode(path string, opts ...Option) (*spectrum.DecodedFile, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return cfg.decode(path)
}

func (c *config) decode(path string) (*spectrum.DecodedFile, error) {
	base := filepath.Base(path)
	if !c.allowed(base) {
		return nil, fmt.Errorf("%s: %w", base, errs.ErrSkipped)
	}

	if sub, ok := registry.DetectName(base); ok {
		return c.decodeMember(path, base, sub)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := chemstation.Decode(base, data, c.precision)
	if err != nil {
		return nil, err
	}
	file.Metadata[FingerprintKey] = fmt.Sprintf("%016x", hash.Sum(data))

	return file, nil
}

func (c *config) decodeMember(path, base string, sub format.SubFormat) (*spectrum.DecodedFile, error) {
	switch sub {
	case format.SubFormatMSProfile:
		var opts []masshunter.Option
		if c.cache != nil {
			opts = append(opts, masshunter.WithSchemaCache(c.cache))
		}

		return masshunter.Decode(os.DirFS(filepath.Dir(path)), c.precision, opts...)
	default:
		lynx, err := c.raws.open(filepath.Dir(path))
		if err != nil {
			return nil, err
		}

		return lynx.Decode(base, c.precision)
	}
}

// rawDirs shares one opened masslynx.Directory per .raw directory, so the
// companion files are parsed once for all members decoded through a config.
type rawDirs struct {
	mu   sync.Mutex
	dirs map[string]func() (*masslynx.Directory, error)
}

func newRawDirs() *rawDirs {
	return &rawDirs{dirs: make(map[string]func() (*masslynx.Directory, error))}
}

func (r *rawDirs) open(dir string) (*masslynx.Directory, error) {
	r.mu.Lock()
	open, ok := r.dirs[dir]
	if !ok {
		open = sync.OnceValues(func() (*masslynx.Directory, error) {
			return masslynx.Open(os.DirFS(dir))
		})
		r.dirs[dir] = open
	}
	r.mu.Unlock()

	return open()
}

// DecodeBatch decodes paths in parallel, at most WithWorkers at a time.
//
// Every path gets a Result in input order. A failing file never affects
// the others; its error is in Result.Err. The returned error is non-nil
// only when ctx is cancelled, in which case files not yet decoded carry
// the context error.
func DecodeBatch(ctx context.Context, paths []string, opts ...Option) ([]Result, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.cache == nil {
		if cfg.cache, err = schema.NewCache(schema.DefaultCacheSize); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}

			file, err := cfg.decode(path)
			results[i] = Result{Path: path, File: file, Err: err}
			cfg.logResult(results[i])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	cfg.logger.Info("batch decoded", "files", len(paths), "failed", countFailed(results))

	return results, nil
}

func (c *config) logResult(r Result) {
	switch {
	case r.Err == nil:
		c.logger.Debug("decoded", "path", r.Path, "detector", r.File.Detector,
			"scans", len(r.File.Times), "labels", r.File.Labels.Len(), "annotations", len(r.File.Annotations))
	case errors.Is(r.Err, errs.ErrSkipped):
		c.logger.Debug("skipped", "path", r.Path)
	default:
		c.logger.Warn("decode failed", "path", r.Path, "error", r.Err)
	}
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, errs.ErrSkipped) {
			n++
		}
	}

	return n
}

// DecodeDir decodes every recognized file of an acquisition directory: the
// ChemStation files of a .D directory and its AcqData profile spectrum, or
// the members of a MassLynx .raw directory.
func DecodeDir(ctx context.Context, dir string, opts ...Option) ([]Result, error) {
	paths, err := Members(dir)
	if err != nil {
		return nil, err
	}

	return DecodeBatch(ctx, paths, opts...)
}

// Members lists the decodable files of dir in a stable order.
func Members(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir() && strings.EqualFold(name, "AcqData"):
			profile := filepath.Join(dir, name, section.ProfileFile)
			if _, err := os.Stat(profile); err == nil {
				paths = append(paths, profile)
			}
		case e.IsDir():
		case registry.FamilyOf(name) != registry.FamilyAny, strings.EqualFold(name, registry.MSProfileName):
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	slices.Sort(paths)

	lynx, err := masslynx.Open(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	for _, name := range lynx.Members() {
		paths = append(paths, filepath.Join(dir, name))
	}

	return paths, nil
}
