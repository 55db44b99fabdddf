package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hackline/internal/bot"
	"hackline/internal/cli"
	"hackline/internal/cli/colours"
	"hackline/internal/client"
	"hackline/internal/config"
	"hackline/internal/database"
	"hackline/internal/rss"
	"hackline/internal/scheduler"
	"hackline/internal/scrape"
	"hackline/internal/summarizer"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env file",
			"error", err)
	}

	cfg := config.LoadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)
		os.Exit(1)
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()

	news := client.New(cfg.APIBaseURL, log)
	titles := scrape.NewTitleFetcher(log)
	importer := rss.NewImporter(news, log)
	app := cli.New(db, news, titles, importer, log)

	rootCmd := newRootCmd(app, cfg, db, news, titles, log)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		colours.Error.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(
	app *cli.App,
	cfg config.Config,
	db *database.Database,
	news *client.Client,
	titles *scrape.TitleFetcher,
	log *slog.Logger,
) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hackline",
		Short:         "Read and post stories on a hack-or-snooze news feed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	signupCmd := &cobra.Command{
		Use:   "signup <username> <password> <name>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Signup(cmd.Context(), args[0], args[1], args[2])
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and store the session locally",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Login(cmd.Context(), args[0], args[1])
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Logout(cmd.Context())
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Whoami(cmd.Context())
		},
	}

	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the latest stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}

			return app.Feed(cmd.Context(), limit)
		},
	}
	feedCmd.Flags().IntP("limit", "n", 0, "Maximum number of stories to show")

	submitCmd := &cobra.Command{
		Use:   "submit <url> [title...]",
		Short: "Submit a story (title is scraped from the page when omitted)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Submit(cmd.Context(), args[0], strings.Join(args[1:], " "))
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <story-id>",
		Short: "Delete one of your stories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Remove(cmd.Context(), args[0])
		},
	}

	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "List your favorite stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Favorites(cmd.Context())
		},
	}

	storiesCmd := &cobra.Command{
		Use:   "stories",
		Short: "List your own stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.OwnStories(cmd.Context())
		},
	}

	favoriteCmd := &cobra.Command{
		Use:   "favorite <story-id>",
		Short: "Add a story to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Favorite(cmd.Context(), args[0])
		},
	}

	unfavoriteCmd := &cobra.Command{
		Use:   "unfavorite <story-id>",
		Short: "Remove a story from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Unfavorite(cmd.Context(), args[0])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <feed-url>",
		Short: "Submit the newest items of an RSS/Atom feed as stories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxItems, err := cmd.Flags().GetInt("max-items")
			if err != nil {
				return err
			}

			return app.ImportFeed(cmd.Context(), args[0], maxItems)
		},
	}
	importCmd.Flags().IntP("max-items", "n", rss.DefaultMaxItems, "Maximum number of feed items to submit")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the hourly digest scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg, db, news, titles, log)
		},
	}

	rootCmd.AddCommand(
		signupCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		feedCmd,
		submitCmd,
		removeCmd,
		favoritesCmd,
		storiesCmd,
		favoriteCmd,
		unfavoriteCmd,
		importCmd,
		serveCmd,
	)

	return rootCmd
}

func serve(
	ctx context.Context,
	cfg config.Config,
	db *database.Database,
	news *client.Client,
	titles *scrape.TitleFetcher,
	log *slog.Logger,
) error {
	if strings.TrimSpace(cfg.TelegramToken) == "" {
		return errors.New("TELEGRAM_TOKEN is required to serve")
	}

	start := time.Now()

	botInst, err := bot.New(
		cfg.TelegramToken,
		db,
		news,
		titles,
		initOpenAISummarizer(ctx, cfg, log),
		cfg.AllowedUsers,
		log,
	)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers))

	sched := scheduler.New(ctx, botInst, db, news, log)
	if err = sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.HourlyDigestSpec,
		"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

	go func() {
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started",
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	<-ctx.Done()
	log.InfoContext(ctx, "Shutdown signal is received")

	botInst.Stop()
	log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}

func initOpenAISummarizer(ctx context.Context, cfg config.Config, log *slog.Logger) summarizer.Summarizer {
	apiKey := strings.TrimSpace(cfg.OpenAIAPIKey)
	if apiKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so digests will have no intro",
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	s, err := summarizer.NewOpenAISummarizer(apiKey)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create OpenAI summarizer so digests will have no intro",
			"error", err)

		return nil
	}

	log.InfoContext(ctx, "OpenAI summarizer is initialized",
		"provider", "openai")

	return s
}
