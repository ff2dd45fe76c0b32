package preflight

import (
	"github.com/go-playground/validator/v10"

	"github.com/tsawler/preflight/logger"
)

// ParsingMode selects how a Checker treats unreadable input
type ParsingMode string

const (
	// Strict fails the check on the first unreadable page, content stream
	// syntax error or rule error.
	Strict ParsingMode = "strict"

	// BestEffort logs unreadable input and keeps checking.
	BestEffort ParsingMode = "best-effort"
)

// DefaultMinPPI is the image resolution required by default
const DefaultMinPPI = 300

// Config holds the settings of a Checker.
type Config struct {
	// MinPPI is the lowest acceptable image resolution in pixels per inch.
	MinPPI int `validate:"min=0"`

	// MaxPages limits the pages checked per document. Zero means all.
	MaxPages int `validate:"min=0"`

	// MaxOperations limits the content stream operations replayed per page.
	// Zero means no limit.
	MaxOperations int `validate:"min=0"`

	// MaxConcurrentDocuments bounds CheckFiles.
	MaxConcurrentDocuments int `validate:"min=1,max=16"`

	ParsingMode ParsingMode `validate:"oneof=strict best-effort"`

	// Logger receives diagnostics. New installs it as the process-wide
	// logger of the logger package, so with several Checkers the logger of
	// the one created last receives the output of all of them. Nil leaves
	// the current logger in place.
	Logger logger.LogFunc
}

// NewDefaultConfig returns the configuration used when none is given
func NewDefaultConfig() *Config {
	return &Config{
		MinPPI:                 DefaultMinPPI,
		MaxPages:               0,
		MaxOperations:          0,
		MaxConcurrentDocuments: 4,
		ParsingMode:            BestEffort,
	}
}

// Validate checks the configuration against its field constraints
func (cfg *Config) Validate() error {
	logger.Debug("validating config")
	validate := validator.New()
	return validate.Struct(cfg)
}
