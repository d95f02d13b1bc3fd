package main

import (
	"fmt"
	"strings"

	"github.com/felixbrock/ideaspark/internal/persistence"
	"github.com/spf13/cobra"
)

func newIdeasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Manage ideas and their follow-up questions",
	}
	cmd.AddCommand(newIdeasListCommand())
	cmd.AddCommand(newIdeasShowCommand())
	cmd.AddCommand(newIdeasCreateCommand())
	cmd.AddCommand(newIdeasAskCommand())
	cmd.AddCommand(newIdeasExportCommand())
	return cmd
}

func newIdeasListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ideas, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ideas, err := newClient(serverURL).ListIdeas(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), ideas)
		},
	}
}

func newIdeasShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one idea with its follow-up thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := newClient(serverURL).GetIdea(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), idea)
		},
	}
}

func newIdeasCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "create <idea text>",
		Short:   "Submit an idea for analysis",
		Example: `  ideactl ideas create open a cat café`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := newClient(serverURL).CreateIdea(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), idea)
		},
	}
}

func newIdeasAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ask <id> <question>",
		Short:   "Ask a follow-up question about an idea",
		Example: `  ideactl ideas ask 6f1c... How do I market this?`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := newClient(serverURL).AskFollowUp(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), q)
		},
	}
}

func newIdeasExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all ideas as CSV (default ideas.csv, - for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ideas.csv"
			if len(args) == 1 {
				path = args[0]
			}

			ideas, err := newClient(serverURL).ListIdeas(cmd.Context())
			if err != nil {
				return err
			}

			if path == "-" {
				return persistence.WriteCSV(cmd.OutOrStdout(), ideas)
			}

			if err := persistence.ExportCSV(path, ideas); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d ideas to %s\n", len(ideas), path)
			return err
		},
	}
}
