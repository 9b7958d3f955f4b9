package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/aegis-go/internal/app"
	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/version"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "aegis",
		Short: "Aegis - security gate for AI assistant actions",
		Long:  "Aegis extracts actionable operations from AI assistant output and gates anything risky behind classification, rate limits, and human approval.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newProcessCommand(container))
	root.AddCommand(newExecCommand(container))
	root.AddCommand(newAuditCommand(container))
	root.AddCommand(newPolicyCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func newProcessCommand(container *app.Container) *cobra.Command {
	var (
		minConfidence  float64
		nonInteractive bool
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "process [assistant text]",
		Short: "Extract and gate actions from assistant output (reads stdin without args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			text := strings.Join(args, " ")
			if text == "" {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(raw)
			}

			if cmd.Flags().Changed("min-confidence") {
				container.Extractor.SetMinConfidence(minConfidence)
			}
			presenter := NewTerminalPresenter(container.Coordinator, nil, nil, !nonInteractive)
			container.Coordinator.SetPresenter(presenter)

			result, outcomes, err := container.Orchestrator.ProcessText(ctx, text)
			if err != nil {
				return err
			}
			RenderOutcomes(result, outcomes)
			return nil
		},
	}

	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.7, "Confidence floor for extracted actions (0..1)")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Deny gated actions instead of prompting")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall processing timeout (0 = none)")
	return cmd
}

func newExecCommand(container *app.Container) *cobra.Command {
	var (
		changeID       string
		nonInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "exec [command]",
		Short: "Gate and run one command, bypassing extraction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presenter := NewTerminalPresenter(container.Coordinator, nil, nil, !nonInteractive)
			container.Coordinator.SetPresenter(presenter)

			outcome, err := container.Orchestrator.ExecuteCommand(cmd.Context(), strings.Join(args, " "), changeID)
			if err != nil {
				return err
			}
			result := domain.ParseResult{
				Actions:              []domain.ParsedAction{outcome.Action},
				HasActionableContent: true,
				Summary:              "Processed 1 command execution",
			}
			RenderOutcomes(result, []domain.ActionOutcome{outcome})
			return nil
		},
	}

	cmd.Flags().StringVar(&changeID, "change-id", "", "Correlation ID recorded in the audit entry")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Deny gated actions instead of prompting")
	return cmd
}

func newAuditCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show recorded audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Audit.Entries()
			if err != nil {
				return err
			}
			RenderAuditEntries(entries)
			return nil
		},
	}
}

func newPolicyCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective security policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := yaml.Marshal(container.Policy)
			if err != nil {
				return err
			}
			fmt.Print(string(raw))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show aegis version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aegis version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.BuildDate != "" {
				fmt.Fprintf(out, "Built: %s\n", version.BuildDate)
			}
			fmt.Fprintf(out, "Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
