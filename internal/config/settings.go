package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/arnavasoni/tango/internal/common"
	"github.com/arnavasoni/tango/internal/match"
	"github.com/arnavasoni/tango/internal/similarity"
)

// Settings holds the runtime configuration for the reconciliation pipeline.
type Settings struct {
	// AWBInbox is the directory watched for incoming AWB extraction files.
	AWBInbox string
	// InvoiceInbox is the directory watched for incoming invoice extraction files.
	InvoiceInbox string
	// ProcessedDir receives input files after successful ingestion.
	ProcessedDir string
	// DatabasePath is the SQLite database file.
	DatabasePath string
	// ReportDir receives generated Excel reports.
	ReportDir string
	// MatchLogPath is the append-only text log of matched invoices.
	MatchLogPath string

	// Thresholds are the minimum similarity scores for party fields.
	Thresholds similarity.Thresholds
	// Tolerance governs gross weight comparison.
	Tolerance match.Tolerance

	// SimilarityProvider selects the semantic scorer: "token" or "gemini".
	SimilarityProvider string
	// GeminiAPIKey authenticates the embedding scorer when provider is "gemini".
	GeminiAPIKey string
	// GeminiModel is the embedding model name.
	GeminiModel string
}

// Load reads settings from Viper and environment variables.
// Precedence: config file values (or TANGO_ env vars via Viper), then defaults.
func Load() (*Settings, error) {
	s := &Settings{
		AWBInbox:           "~/tango/inbox/awb",
		InvoiceInbox:       "~/tango/inbox/invoices",
		ProcessedDir:       "~/tango/processed",
		DatabasePath:       "~/.local/share/tango/tango.db",
		ReportDir:          "~/tango/reports",
		MatchLogPath:       "~/tango/reports/matched.log",
		Thresholds:         similarity.DefaultThresholds(),
		Tolerance:          match.DefaultTolerance(),
		SimilarityProvider: "token",
		GeminiModel:        "gemini-embedding-001",
	}

	if v := viper.GetString("paths.awb_inbox"); v != "" {
		s.AWBInbox = v
	}
	if v := viper.GetString("paths.invoice_inbox"); v != "" {
		s.InvoiceInbox = v
	}
	if v := viper.GetString("paths.processed"); v != "" {
		s.ProcessedDir = v
	}
	if v := viper.GetString("database.path"); v != "" {
		s.DatabasePath = v
	}
	if v := viper.GetString("report.dir"); v != "" {
		s.ReportDir = v
	}
	if v := viper.GetString("report.match_log"); v != "" {
		s.MatchLogPath = v
	}

	if viper.IsSet("thresholds.supplier") {
		s.Thresholds.Supplier = viper.GetFloat64("thresholds.supplier")
	}
	if viper.IsSet("thresholds.consignee") {
		s.Thresholds.Consignee = viper.GetFloat64("thresholds.consignee")
	}
	if viper.IsSet("thresholds.address") {
		s.Thresholds.Address = viper.GetFloat64("thresholds.address")
	}

	if v := viper.GetString("tolerance.relative"); v != "" {
		rel, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid tolerance.relative %q: %v", common.ErrInvalidConfig, v, err)
		}
		s.Tolerance = match.RelativeTolerance(rel.InexactFloat64())
	} else if v := viper.GetString("tolerance.absolute"); v != "" {
		abs, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid tolerance.absolute %q: %v", common.ErrInvalidConfig, v, err)
		}
		s.Tolerance = match.AbsoluteTolerance(abs.InexactFloat64())
	}

	if v := viper.GetString("similarity.provider"); v != "" {
		s.SimilarityProvider = v
	}
	if v := viper.GetString("similarity.gemini_api_key"); v != "" {
		s.GeminiAPIKey = v
	}
	if v := viper.GetString("similarity.gemini_model"); v != "" {
		s.GeminiModel = v
	}

	s.AWBInbox = ExpandPath(s.AWBInbox)
	s.InvoiceInbox = ExpandPath(s.InvoiceInbox)
	s.ProcessedDir = ExpandPath(s.ProcessedDir)
	s.DatabasePath = ExpandPath(s.DatabasePath)
	s.ReportDir = ExpandPath(s.ReportDir)
	s.MatchLogPath = ExpandPath(s.MatchLogPath)

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the settings for internally inconsistent values.
func (s *Settings) Validate() error {
	switch s.SimilarityProvider {
	case "token":
	case "gemini":
		if s.GeminiAPIKey == "" {
			return fmt.Errorf("%w: similarity.gemini_api_key is required when provider is gemini", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown similarity provider %q", common.ErrInvalidConfig, s.SimilarityProvider)
	}

	for name, t := range map[string]float64{
		"supplier":  s.Thresholds.Supplier,
		"consignee": s.Thresholds.Consignee,
		"address":   s.Thresholds.Address,
	} {
		if t < 0 || t > 100 {
			return fmt.Errorf("%w: thresholds.%s must be between 0 and 100, got %v", common.ErrInvalidConfig, name, t)
		}
	}

	return nil
}
