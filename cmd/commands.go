package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wgomg/agenthub/internal/agents"
	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/expr"
	"github.com/wgomg/agenthub/internal/processor"
	"github.com/wgomg/agenthub/internal/utils"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := expr.Evaluate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
			return nil
		},
	}
}

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [text|-]",
		Short: "Keep the most central sentences of a text",
		Long:  "Summarize the argument, or standard input when it is \"-\" or missing.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			sentences, err := cmd.Flags().GetInt("sentences")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("sentences") {
				sentences = cfg.Summary.Sentences
			}

			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return processor.ErrEmptyInput
			}

			summary, err := processor.Summarize(text, sentences)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().IntP("sentences", "n", 2, "number of sentences to keep (SUMMARY_SENTENCES)")
	return cmd
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List available agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := agents.LoadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			category := ""
			for _, entry := range catalog {
				if entry.Category != category {
					category = entry.Category
					fmt.Fprintf(out, "%s:\n", category)
				}
				fmt.Fprintf(out, "  %-22s %s\n", entry.Name, entry.Description)
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <agent> [key=value...]",
		Short: "Run an agent once and print its JSON result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, registry, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			ctx := utils.WithRequestID(cmd.Context(), utils.NewRequestID())
			output, err := registry.Run(ctx, args[0], params)
			if err != nil {
				var failure *agents.Failure
				if errors.As(err, &failure) {
					output = map[string]string{"error": failure.Msg}
				} else {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"agent": args[0], "result": output})
		},
	}
}

func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func parseParams(pairs []string) (agents.Params, error) {
	params := make(agents.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q must look like key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
