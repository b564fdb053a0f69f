package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pebbling-ai/pebbling-site/internal/gateway"
	"github.com/pebbling-ai/pebbling-site/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints the repository's star and contributor counts as JSON",
	Long: `Fetches the same stars and contributors figures that GET /api/github-stats
serves and prints them as JSON. A contributors count that cannot be fetched
is printed as null.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if owner, _ := cmd.Flags().GetString("owner"); owner != "" {
			cfg.GitHub.Owner = owner
		}
		if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
			cfg.GitHub.Repo = repo
		}

		githubGateway, err := gateway.NewGitHubGateway(gateway.GitHubOptions{
			Token:   cfg.GitHub.Token,
			BaseURL: cfg.GitHub.BaseURL,
			Timeout: cfg.GitHub.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		aggregator := usecase.NewAggregator(githubGateway, cfg.GitHub.Owner, cfg.GitHub.Repo, logger)

		var result interface{}
		if overview, _ := cmd.Flags().GetBool("overview"); overview {
			result, err = aggregator.Overview(cmd.Context())
		} else {
			result, err = aggregator.RepoStats(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to fetch GitHub stats: %w", err)
		}

		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("owner", "o", "", "Repository owner (defaults to the configured owner)")
	statsCmd.Flags().StringP("repo", "r", "", "Repository name (defaults to the configured repository)")
	statsCmd.Flags().Bool("overview", false, "Print the GraphQL overview instead (requires a token)")
}
