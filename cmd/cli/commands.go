package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			fmt.Fprintln(opts.out, "\nThinking...")
			res, err := b.Agent.Run(cmd.Context(), query)
			if err != nil {
				return err
			}
			printAnalysis(opts.out, res.Answer)
			return nil
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive question loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			out := opts.out
			fmt.Fprintln(out, "\n--- Supply Chain Risk Analyst AI ---")
			fmt.Fprintln(out, "Welcome! I am an AI agent designed to help you analyze supply chain risks.")
			fmt.Fprintln(out, "You can ask me questions about potential disruptions, geopolitical impacts, port status, and more.")
			fmt.Fprintln(out, "For example: 'What are the current supply chain risks for semiconductor manufacturing in Taiwan?'")
			fmt.Fprintln(out, "Type 'exit' or 'quit' to end the session.")
			fmt.Fprintln(out)

			scanner := bufio.NewScanner(opts.in)
			for {
				fmt.Fprint(out, "Ask a question > ")
				if !scanner.Scan() {
					fmt.Fprintln(out, "\nSession ended. Exiting.")
					return scanner.Err()
				}
				query := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(query) {
				case "exit", "quit":
					fmt.Fprintln(out, "Thank you for using the Supply Chain Analyst AI. Goodbye!")
					return nil
				case "":
					continue
				}

				fmt.Fprintln(out, "\nThinking...")
				res, err := b.Agent.Run(cmd.Context(), query)
				if err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					fmt.Fprintf(out, "\nAn unexpected error occurred: %v\n", err)
					fmt.Fprintln(out, "Please try again.")
					continue
				}
				printAnalysis(out, res.Answer)
			}
		},
	}
}

func newToolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(opts.out, b.Tools.Summary())
			if opts.verbose {
				fmt.Fprintln(opts.out, b.Tools.Details())
			}
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			out := opts.out
			fmt.Fprintf(out, "model.provider:     %s\n", cfg.Model.Provider)
			fmt.Fprintf(out, "model.name:         %s\n", cfg.Model.Name)
			fmt.Fprintf(out, "model.api_key:      %s\n", mask(cfg.Model.APIKey))
			fmt.Fprintf(out, "model.temperature:  %v\n", cfg.Model.Temperature)
			fmt.Fprintf(out, "agent.max_steps:    %d\n", cfg.Agent.MaxSteps)
			fmt.Fprintf(out, "search.base_url:    %s\n", cfg.Search.BaseURL)
			fmt.Fprintf(out, "search.api_key:     %s\n", mask(cfg.Search.APIKey))
			fmt.Fprintf(out, "search.max_results: %d\n", cfg.Search.MaxResults)
			fmt.Fprintf(out, "api.port:           %d\n", cfg.API.Port)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sca %s\n", Version)
		},
	}
}

// mask 只保留末 4 位
func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
