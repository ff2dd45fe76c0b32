package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/preflight/contentstream"
	"github.com/tsawler/preflight/logger"
	"github.com/tsawler/preflight/pages"
	"github.com/tsawler/preflight/rules"
)

var (
	// ErrNilDocument is returned by Check when no document is given.
	ErrNilDocument = errors.New("nil document")

	// ErrNilPage is returned by Check when the document yields a nil page.
	ErrNilPage = errors.New("nil page")
)

// Source is a document that can be checked against a profile.
// *reader.Reader satisfies it.
type Source interface {
	rules.Document
	Page(n int) (*pages.Page, error)
}

// Option configures a single Check
type Option func(*options)

type options struct {
	maxPages      int
	maxOperations int
	strict        bool
}

// WithMaxPages checks at most n pages. Zero means all pages.
func WithMaxPages(n int) Option {
	return func(o *options) {
		o.maxPages = n
	}
}

// WithMaxOperations replays at most n operations per page. Zero means no
// limit.
func WithMaxOperations(n int) Option {
	return func(o *options) {
		o.maxOperations = n
	}
}

// WithStrict makes Check fail on the first unreadable page, content stream
// syntax error or document rule error. By default these are logged and
// skipped.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Profile is a named, ordered set of rules
type Profile struct {
	Name  string
	rules []rules.Rule
}

// New creates a profile. Rules report in the order given.
func New(name string, rs ...rules.Rule) *Profile {
	return &Profile{
		Name:  name,
		rules: rs,
	}
}

// Rules returns the profile's rules in declaration order
func (p *Profile) Rules() []rules.Rule {
	out := make([]rules.Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Check runs every rule over doc and returns their messages.
//
// Rules are reset first, then document rules run once. Every page is then
// handed to the page rules and its content stream is replayed once through a
// dispatcher that drives all content stream observers. Rules are not safe for
// concurrent use, so a Profile must not be checked from several goroutines.
func (p *Profile) Check(ctx context.Context, doc Source, opts ...Option) (*Report, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	observers := make([]any, 0, len(p.rules))
	for _, r := range p.rules {
		if rs, ok := r.(rules.Resetter); ok {
			rs.Reset()
		}
		observers = append(observers, r)
	}

	for _, r := range p.rules {
		dr, ok := r.(rules.DocumentRule)
		if !ok {
			continue
		}
		if err := dr.CheckDocument(doc); err != nil {
			if o.strict {
				return nil, fmt.Errorf("rule %s: %w", r.Name(), err)
			}
			logger.Error("document rule failed", "rule", r.Name(), "error", err)
		}
	}

	dispatcherOpts := []contentstream.Option{contentstream.WithMaxOperations(o.maxOperations)}
	if o.strict {
		dispatcherOpts = append(dispatcherOpts, contentstream.WithParserOptions(contentstream.WithStrict()))
	}
	dispatcher := contentstream.NewDispatcher(dispatcherOpts...)

	count := doc.PageCount()
	if o.maxPages > 0 && count > o.maxPages {
		logger.Debug("page limit reached", "limit", o.maxPages, "pages", count)
		count = o.maxPages
	}

	checked := 0
	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := doc.Page(n)
		if err != nil {
			if o.strict {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
			logger.Error("skipping unreadable page", "page", n, "error", err)
			continue
		}
		if page == nil {
			return nil, fmt.Errorf("%w: %d", ErrNilPage, n)
		}

		for _, r := range p.rules {
			if pr, ok := r.(rules.PageRule); ok {
				pr.SetPage(page)
			}
		}

		if err := dispatcher.ReplayBytes(page.Content, observers...); err != nil {
			if o.strict {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
			logger.Error("skipping page content", "page", n, "error", err)
		}
		checked++
	}

	report := &Report{
		Profile: p.Name,
		Pages:   checked,
		Results: make([]RuleResult, 0, len(p.rules)),
	}
	for _, r := range p.rules {
		report.Results = append(report.Results, RuleResult{
			Rule:     r.Name(),
			Messages: r.Messages(),
		})
	}

	return report, nil
}
