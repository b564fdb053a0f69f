package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pebbling-ai/pebbling-site/internal/content"
	"github.com/pebbling-ai/pebbling-site/internal/gateway"
	"github.com/pebbling-ai/pebbling-site/internal/usecase"
	"github.com/pebbling-ai/pebbling-site/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the website's HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
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
		if cfg.GitHub.Token == "" {
			logger.Warnw("no GitHub token configured, using anonymous rate limits")
		}

		var sender gateway.EmailSender
		if cfg.Email.APIKey != "" {
			sender, err = gateway.NewResendClient(cfg.Email.APIKey, cfg.Email.BaseURL, cfg.Email.Timeout,
				gateway.WithResendLogger(logger))
			if err != nil {
				return fmt.Errorf("failed to create email client: %w", err)
			}
		} else {
			logger.Warnw("no email API key configured, subscriptions will not be delivered")
			sender = gateway.MockSender{Log: logger}
		}

		site, err := content.Load()
		if err != nil {
			return fmt.Errorf("failed to load site content: %w", err)
		}

		server, err := web.NewServer(web.Options{
			Config:     cfg,
			Site:       site,
			Stats:      usecase.NewAggregator(githubGateway, cfg.GitHub.Owner, cfg.GitHub.Repo, logger),
			Newsletter: usecase.NewNewsletter(sender, cfg.Email.From, cfg.Email.Subject, logger,
				usecase.WithSite(site.Title, site.SiteURL)),
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
