package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swagger2cli/internal/runtime"
	"github.com/mark3labs/swagger2cli/internal/tree"
)

// Introspection commands over the loaded command tree. Each supports --json
// for machine-readable output; the human forms are terse, indentation-based
// listings.

func newListCmd(t *tree.CommandTree) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources and operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				out := make([]map[string]any, 0, len(t.Resources))
				for _, res := range t.Resources {
					ops := make([]string, 0, len(res.Ops))
					for _, op := range res.Ops {
						ops = append(ops, op.Name)
					}
					out = append(out, map[string]any{"resource": res.Name, "ops": ops})
				}
				text, err := runtime.Render(out, true)
				if err != nil {
					return err
				}
				return runtime.WriteLine(text)
			}

			for _, res := range t.Resources {
				if err := runtime.WriteLine(res.Name); err != nil {
					return err
				}
				for _, op := range res.Ops {
					if err := runtime.WriteLine("  " + op.Name); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Emit machine-readable JSON")
	return cmd
}

func newDescribeCmd(t *tree.CommandTree) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <resource> <op>",
		Short: "Describe a specific operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, opName := args[0], args[1]
			op := t.FindOp(resource, opName)
			if op == nil {
				return fmt.Errorf("unknown command %s %s", resource, opName)
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				text, err := runtime.Render(op, true)
				if err != nil {
					return err
				}
				return runtime.WriteLine(text)
			}

			lines := []string{
				fmt.Sprintf("%s %s", resource, op.Name),
				fmt.Sprintf("  method: %s", op.Method),
				fmt.Sprintf("  path: %s", op.Path),
			}
			if s := strings.TrimSpace(op.Summary); s != "" {
				lines = append(lines, fmt.Sprintf("  summary: %s", s))
			}
			if len(op.Params) > 0 {
				lines = append(lines, "  params:")
				for _, param := range op.Params {
					lines = append(lines, fmt.Sprintf("    --%s  %s (%s)", param.Flag, param.Schema.Kind, param.Location))
				}
			}
			if op.Body != nil {
				lines = append(lines, fmt.Sprintf("  body: %s", op.Body.ContentType))
				if len(op.Body.InputFields) > 0 {
					lines = append(lines, "  body fields:")
					for _, field := range op.Body.InputFields {
						lines = append(lines, fmt.Sprintf("    --%s  %s", field.Flag, field.Schema.Kind))
					}
				}
			}
			for _, line := range lines {
				if err := runtime.WriteLine(line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Emit machine-readable JSON")
	return cmd
}

func newTreeCmd(t *tree.CommandTree) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show full command tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				text, err := runtime.Render(t, true)
				if err != nil {
					return err
				}
				return runtime.WriteLine(text)
			}
			return runtime.WriteLine("Run with --json for machine-readable output.")
		},
	}
	cmd.Flags().Bool("json", false, "Emit machine-readable JSON")
	return cmd
}
