package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	serverURL    string
	outputFormat string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ideactl",
		Short: "ideactl - submit and browse ideas on an IdeaSpark server",
		Long: `ideactl talks to the IdeaSpark JSON API.
Output is indented JSON by default; use --output pretty for a colored dump.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "json", "pretty":
				return nil
			default:
				return fmt.Errorf("unknown output format %q, want json or pretty", outputFormat)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", getDefaultServer(), "IdeaSpark server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json, pretty")

	rootCmd.AddCommand(newIdeasCommand())

	return rootCmd
}

func getDefaultServer() string {
	if server := os.Getenv("IDEASPARK_SERVER"); server != "" {
		return server
	}
	return "http://localhost:8000"
}

func output(w io.Writer, v any) error {
	if outputFormat == "pretty" {
		printer := pp.New()
		printer.SetOutput(w)
		printer.SetColoringEnabled(w == os.Stdout)
		_, err := printer.Println(v)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
