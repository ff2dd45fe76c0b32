package preflight

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/preflight/logger"
	"github.com/tsawler/preflight/profile"
	"github.com/tsawler/preflight/reader"
)

var _ profile.Source = (*reader.Reader)(nil)

// Checker checks documents against the PDF/X-1a:2003 profile.
// Each configuration method returns a new Checker instance, making it
// safe for concurrent use and allowing method chaining.
type Checker struct {
	cfg *Config
}

// FileResult is the outcome of checking one file in a batch.
type FileResult struct {
	Path   string
	Report *profile.Report
	Err    error
}

// New creates a Checker. A nil cfg uses NewDefaultConfig. When cfg carries a
// Logger it replaces the process-wide logger, which is shared by every
// Checker.
func New(cfg *Config) *Checker {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	logger.Debug("checker initialized",
		"parsing_mode", cfg.ParsingMode,
		"min_ppi", cfg.MinPPI,
		"max_concurrent_documents", cfg.MaxConcurrentDocuments)

	return &Checker{cfg: cfg.clone()}
}

// Config returns a copy of the checker's configuration
func (c *Checker) Config() Config {
	return *c.cfg
}

// clone creates a copy of the Checker with its own configuration.
func (c *Checker) clone() *Checker {
	return &Checker{cfg: c.cfg.clone()}
}

// ============================================================================
// Configuration Methods (return new Checker instance)
// ============================================================================

// MinPPI sets the lowest acceptable image resolution.
//
// Example:
//
//	report, err := preflight.New(nil).MinPPI(150).CheckFile(ctx, "proof.pdf")
func (c *Checker) MinPPI(ppi int) *Checker {
	newChecker := c.clone()
	newChecker.cfg.MinPPI = ppi
	return newChecker
}

// MaxPages limits the number of pages checked per document.
func (c *Checker) MaxPages(n int) *Checker {
	newChecker := c.clone()
	newChecker.cfg.MaxPages = n
	return newChecker
}

// MaxOperations limits the content stream operations replayed per page.
func (c *Checker) MaxOperations(n int) *Checker {
	newChecker := c.clone()
	newChecker.cfg.MaxOperations = n
	return newChecker
}

// Strict makes checks fail on unreadable input instead of skipping it.
func (c *Checker) Strict() *Checker {
	newChecker := c.clone()
	newChecker.cfg.ParsingMode = Strict
	return newChecker
}

// Concurrency sets how many documents CheckFiles checks at once.
func (c *Checker) Concurrency(n int) *Checker {
	newChecker := c.clone()
	newChecker.cfg.MaxConcurrentDocuments = n
	return newChecker
}

// ============================================================================
// Terminal Operations
// ============================================================================

// CheckFile opens the PDF at path and checks it.
func (c *Checker) CheckFile(ctx context.Context, path string) (*profile.Report, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Debug("checking file", "path", path)

	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer r.Close()

	report, err := c.check(ctx, r)
	if err != nil {
		return nil, err
	}
	report.File = path
	return report, nil
}

// CheckReader checks a PDF read from rs. The caller keeps ownership of rs.
func (c *Checker) CheckReader(ctx context.Context, rs io.ReadSeeker) (*profile.Report, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r, err := reader.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return c.check(ctx, r)
}

// CheckFiles checks several files concurrently and returns one result per
// path, in the order given.
//
// In best-effort mode a file that cannot be checked is recorded in its
// FileResult and the batch continues. In strict mode the first failure
// cancels the remaining checks and is returned.
func (c *Checker) CheckFiles(ctx context.Context, paths ...string) ([]FileResult, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrentDocuments)

	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}

			report, err := c.CheckFile(gctx, path)
			results[i].Report = report
			results[i].Err = err
			if err == nil {
				return nil
			}

			if c.cfg.ParsingMode == Strict {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Error("skipping document", "path", path, "error", err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	// Best-effort failures stay per file, but cancellation ends the batch.
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// check runs a freshly built profile over an open document.
func (c *Checker) check(ctx context.Context, r *reader.Reader) (*profile.Report, error) {
	p := profile.PDFX1a2003(c.cfg.MinPPI)

	report, err := p.Check(ctx, r, c.cfg.profileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}

	logger.Debug("check completed", "profile", p.Name, "pages", report.Pages, "messages", len(report.Messages()))
	return report, nil
}
