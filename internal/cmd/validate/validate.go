// Package validate runs a validation pass from the command line.
package validate

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mechforge/mechforge/internal/catalog/sqlite"
	platformcmd "github.com/mechforge/mechforge/internal/platform/cmd"
	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation"
	"github.com/mechforge/mechforge/internal/validation/engine"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// Config holds validate command configuration.
type Config struct {
	CatalogPath string `env:"MECHFORGE_CATALOG_PATH" envDefault:""`

	File              string
	UnitID            string
	RuleID            string
	SkipRules         string
	Categories        string
	MaxErrors         int
	TargetYear        int
	RulesLevelCeiling string
	JSON              bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.File, "file", "", "unit design JSON file (use - for stdin)")
	fs.StringVar(&cfg.UnitID, "unit-id", "", "validate a stored unit from the catalog")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "SQLite catalog path (required with -unit-id)")
	fs.StringVar(&cfg.RuleID, "rule", "", "probe a single rule instead of the full pass")
	fs.StringVar(&cfg.SkipRules, "skip", "", "comma-separated rule ids to skip")
	fs.StringVar(&cfg.Categories, "categories", "", "comma-separated categories to run")
	fs.IntVar(&cfg.MaxErrors, "max-errors", 0, "stop after this many errors (0 = unlimited)")
	fs.IntVar(&cfg.TargetYear, "target-year", 0, "era availability reference year")
	fs.StringVar(&cfg.RulesLevelCeiling, "rules-level", "", "maximum allowed rules level")
	fs.BoolVar(&cfg.JSON, "json", false, "emit the report as JSON")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrInvalidUnit is returned when the validated design fails its pass,
// so main can exit nonzero without treating it as an execution fault.
var ErrInvalidUnit = fmt.Errorf("unit failed validation")

// Run executes the validate command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	u, err := loadUnit(ctx, cfg)
	if err != nil {
		return err
	}

	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceValidate, func(runCtx context.Context) error {
		eng := validation.Default()

		if cfg.RuleID != "" {
			return runSingleRule(runCtx, eng, u, cfg, out)
		}

		report := eng.Validate(runCtx, u, options(cfg))
		if cfg.JSON {
			if err := writeJSON(out, report); err != nil {
				return err
			}
		} else {
			writeReport(out, report)
		}
		if !report.IsValid {
			return ErrInvalidUnit
		}
		return nil
	})
}

func runSingleRule(ctx context.Context, eng *engine.Engine, u *unit.Unit, cfg Config, out io.Writer) error {
	result := eng.ValidateRule(ctx, u, cfg.RuleID)
	if result == nil {
		return fmt.Errorf("unknown rule %q", cfg.RuleID)
	}
	if cfg.JSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		writeResult(out, *result)
	}
	if !result.Passed {
		return ErrInvalidUnit
	}
	return nil
}

func loadUnit(ctx context.Context, cfg Config) (*unit.Unit, error) {
	switch {
	case cfg.File != "":
		var data []byte
		var err error
		if cfg.File == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(cfg.File)
		}
		if err != nil {
			return nil, fmt.Errorf("read unit file: %w", err)
		}
		var u unit.Unit
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("parse unit file: %w", err)
		}
		return &u, nil

	case cfg.UnitID != "":
		if strings.TrimSpace(cfg.CatalogPath) == "" {
			return nil, fmt.Errorf("-catalog is required with -unit-id")
		}
		store, err := sqlite.Open(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer store.Close()
		u, err := store.GetUnit(ctx, cfg.UnitID)
		if err != nil {
			return nil, fmt.Errorf("load unit %s: %w", cfg.UnitID, err)
		}
		return &u, nil

	default:
		return nil, fmt.Errorf("-file or -unit-id is required")
	}
}

func options(cfg Config) *rule.Options {
	opts := &rule.Options{
		MaxErrors:         cfg.MaxErrors,
		TargetYear:        cfg.TargetYear,
		RulesLevelCeiling: unit.RulesLevel(cfg.RulesLevelCeiling),
	}
	for _, id := range splitList(cfg.SkipRules) {
		opts.SkipRules = append(opts.SkipRules, id)
	}
	for _, c := range splitList(cfg.Categories) {
		opts.Categories = append(opts.Categories, rule.Category(c))
	}
	return opts
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(out io.Writer, report *engine.Report) {
	status := "VALID"
	if !report.IsValid {
		status = "INVALID"
	}
	fmt.Fprintf(out, "%s %s (%s, %s)\n", status, report.UnitID, report.Subtype, report.TechBase)
	fmt.Fprintf(out, "rules: %d  errors: %d  critical: %d  warnings: %d\n",
		len(report.Results), report.ErrorCount, report.CriticalErrorCount, report.WarningCount)
	if report.Truncated {
		fmt.Fprintln(out, "pass truncated at the error cap")
	}
	for _, result := range report.Results {
		writeResult(out, result)
	}
}

func writeResult(out io.Writer, result rule.Result) {
	for _, f := range result.Errors {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Severity, f.RuleID, f.Message)
	}
	for _, f := range result.Warnings {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Severity, f.RuleID, f.Message)
	}
	for _, f := range result.Infos {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Severity, f.RuleID, f.Message)
	}
}
