package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/swagger2cli/internal/runtime"
	"github.com/mark3labs/swagger2cli/internal/tree"
)

// StatusError marks an invocation whose HTTP response was non-2xx. The
// output view has already been printed by the time this is returned; the
// error only drives the exit code.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string { return fmt.Sprintf("http error: %d", e.Status) }

// NewAPIRootCmd builds the dynamic runtime CLI from a compiled command tree:
// one subcommand per resource, one nested subcommand per operation, plus the
// list/describe/tree introspection commands. Nothing here is hand-written per
// operation; the whole surface is interpreted from the tree.
func NewAPIRootCmd(t *tree.CommandTree) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "apicli",
		Short:         "API CLI (auto-generated from a compiled command tree)",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})

	pf := cmd.PersistentFlags()
	pf.Bool("pretty", false, "Pretty-print JSON output")
	pf.Bool("raw", false, "Return full HTTP response envelope")
	pf.Bool("verbose", false, "Enable verbose logging output")

	cmd.AddCommand(newListCmd(t))
	cmd.AddCommand(newDescribeCmd(t))
	cmd.AddCommand(newTreeCmd(t))

	for i := range t.Resources {
		cmd.AddCommand(newResourceCmd(t, &t.Resources[i]))
	}

	return cmd
}

func newResourceCmd(t *tree.CommandTree, res *tree.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:           res.Name,
		Short:         res.Name,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	for i := range res.Ops {
		cmd.AddCommand(newOpCmd(t, &res.Ops[i]))
	}
	return cmd
}

func newOpCmd(t *tree.CommandTree, op *tree.Operation) *cobra.Command {
	specs := operationArgs(op)

	cmd := &cobra.Command{
		Use:           op.Name,
		Short:         op.Summary,
		Long:          op.Description,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, t, op, specs)
		},
	}

	registerFlags(cmd, specs)
	return cmd
}

// argKind tags where a bound argument flows at request-build time.
type argKind int

const (
	argParam argKind = iota
	argField
	argRawBody
	argBodyFile
)

// argSpec is one entry of the declarative argument registry for an
// operation. The runtime binds and routes arguments purely from these specs.
type argSpec struct {
	Name     string // parameter or property name
	Flag     string
	Kind     argKind
	Required bool
	Repeat   bool
	Usage    string
}

// operationArgs derives the ordered argument registry for one operation:
// parameters first, then the body override channels, then input fields.
func operationArgs(op *tree.Operation) []argSpec {
	specs := make([]argSpec, 0, len(op.Params)+2)
	for _, p := range op.Params {
		specs = append(specs, argSpec{
			Name:     p.Name,
			Flag:     p.Flag,
			Kind:     argParam,
			Required: p.Required,
			Repeat:   p.Schema.Kind == tree.KindArray,
			Usage:    fmt.Sprintf("%s parameter (%s)", p.Location, p.Schema.Label()),
		})
	}
	if op.Body != nil {
		specs = append(specs,
			argSpec{Name: "body", Flag: "body", Kind: argRawBody, Usage: "Raw JSON request body"},
			argSpec{Name: "body-file", Flag: "body-file", Kind: argBodyFile, Usage: "Path to JSON request body"},
		)
		for _, f := range op.Body.InputFields {
			specs = append(specs, argSpec{
				Name:   f.Name,
				Flag:   f.Flag,
				Kind:   argField,
				Repeat: f.Schema.Kind == tree.KindArray,
				Usage:  fmt.Sprintf("body field (%s)", f.Schema.Label()),
			})
		}
	}
	return specs
}

func registerFlags(cmd *cobra.Command, specs []argSpec) {
	flags := cmd.Flags()
	for _, spec := range specs {
		if spec.Repeat {
			flags.StringArray(spec.Flag, nil, spec.Usage)
		} else {
			flags.String(spec.Flag, "", spec.Usage)
		}
		if spec.Required {
			_ = cmd.MarkFlagRequired(spec.Flag)
		}
	}
}

// bindInvocation collects the bound flag values into the runtime invocation,
// routing each by its registry kind.
func bindInvocation(flags *pflag.FlagSet, specs []argSpec) (*runtime.Invocation, error) {
	inv := &runtime.Invocation{
		Params: make(map[string][]string),
		Fields: make(map[string][]string),
	}
	for _, spec := range specs {
		if !flags.Changed(spec.Flag) {
			continue
		}
		var tokens []string
		if spec.Repeat {
			values, err := flags.GetStringArray(spec.Flag)
			if err != nil {
				return nil, err
			}
			tokens = values
		} else {
			value, err := flags.GetString(spec.Flag)
			if err != nil {
				return nil, err
			}
			tokens = []string{value}
		}

		switch spec.Kind {
		case argParam:
			inv.Params[spec.Name] = tokens
		case argField:
			inv.Fields[spec.Name] = tokens
		case argRawBody:
			v := tokens[0]
			inv.RawBody = &v
		case argBodyFile:
			v := tokens[0]
			inv.BodyFile = &v
		}
	}
	return inv, nil
}

func runOp(cmd *cobra.Command, t *tree.CommandTree, op *tree.Operation, specs []argSpec) error {
	root := cmd.Root()
	pretty, _ := root.PersistentFlags().GetBool("pretty")
	raw, _ := root.PersistentFlags().GetBool("raw")
	verbose, _ := root.PersistentFlags().GetBool("verbose")

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := LoadRuntimeConfig()
	if err != nil {
		return err
	}

	inv, err := bindInvocation(cmd.Flags(), specs)
	if err != nil {
		return err
	}

	u, err := runtime.BuildURL(cfg.BaseURL, t.BasePath, op, inv)
	if err != nil {
		return err
	}
	body, hasBody, err := runtime.BuildBody(op, inv)
	if err != nil {
		return err
	}

	exec := runtime.NewExecutor(cfg.APIKey, cfg.Timeout, log)
	res, err := exec.Execute(cmd.Context(), op.Method, u, body, hasBody)
	if err != nil {
		return err
	}

	output := res.Body
	if raw {
		output = res.Raw
	}
	text, err := runtime.Render(output, pretty)
	if err != nil {
		return err
	}
	if err := runtime.WriteLine(text); err != nil {
		return err
	}

	if !res.OK {
		return &StatusError{Status: res.Status}
	}
	return nil
}
