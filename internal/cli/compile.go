package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	genspec "github.com/mark3labs/swagger2cli/internal/spec"
	"github.com/mark3labs/swagger2cli/internal/tree"
)

// CompileConfig captures all inputs that influence the compile command after
// merging defaults, config file values, and CLI overrides.
type CompileConfig struct {
	In             string
	Out            string
	SkipValidation bool
	ConfigPath     string
	Verbose        bool
}

func defaultCompileConfig() CompileConfig {
	return CompileConfig{In: "openapi.yaml", Out: "command_tree.json"}
}

var compileRunner = runCompile

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile an OpenAPI document into a command tree",
		Long: "Compile an OpenAPI document into a normalized command tree JSON artifact. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swagger2cli compile --in openapi.yaml --out command_tree.json
  swagger2cli --config config.yaml compile`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveCompileConfig(cmd)
			if err != nil {
				return err
			}
			return compileRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("in", "", "Path or URL to the OpenAPI document")
	flags.String("out", "", "Where to write the compiled command tree JSON")
	flags.Bool("skip-validation", false, "Skip structural validation of the document")

	return cmd
}

func resolveCompileConfig(cmd *cobra.Command) (*CompileConfig, error) {
	cfg := defaultCompileConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyCompileConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyCompileFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.In = strings.TrimSpace(cfg.In)
	cfg.Out = strings.TrimSpace(cfg.Out)
	if cfg.In == "" {
		return nil, newUsageError("compile: --in is required (set via flag or config file)")
	}
	if cfg.Out == "" {
		return nil, newUsageError("compile: --out is required (set via flag or config file)")
	}

	return &cfg, nil
}

func applyCompileFlagOverrides(flags *pflag.FlagSet, cfg *CompileConfig) error {
	if flags.Changed("in") {
		value, err := flags.GetString("in")
		if err != nil {
			return err
		}
		cfg.In = strings.TrimSpace(value)
	}
	if flags.Changed("out") {
		value, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = strings.TrimSpace(value)
	}
	if flags.Changed("skip-validation") {
		value, err := flags.GetBool("skip-validation")
		if err != nil {
			return err
		}
		cfg.SkipValidation = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func runCompile(ctx context.Context, cfg *CompileConfig) error {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	doc, err := genspec.Load(ctx, cfg.In, genspec.WithSkipValidation(cfg.SkipValidation))
	if err != nil {
		var se *genspec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return newUsageError(msg)
		}
		return err
	}

	t, err := tree.Build(doc.Root, log)
	if err != nil {
		return fmt.Errorf("build command tree: %w", err)
	}

	data, err := t.Encode()
	if err != nil {
		return err
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}
	if err := os.MkdirAll(filepath.Dir(absOut), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("compile: cannot create output directory: %v", err))
	}
	if err := os.WriteFile(absOut, data, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("compile: write %s: %v", absOut, err))
	}

	ops := 0
	for _, res := range t.Resources {
		ops += len(res.Ops)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d resources, %d operations)\n", absOut, len(t.Resources), ops)
	return nil
}

func applyCompileConfigFromFile(cfg *CompileConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		switch normalizeKey(key) {
		case "in", "input":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.In = str
		case "out", "output":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Out = str
		case "skipvalidation":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.SkipValidation = val
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
