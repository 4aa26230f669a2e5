package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/onehunt/onehuntbot/internal/auth"
	"github.com/onehunt/onehuntbot/internal/bot"
	"github.com/onehunt/onehuntbot/internal/config"
	"github.com/onehunt/onehuntbot/internal/http_api"
	"github.com/onehunt/onehuntbot/internal/hunt"
	"github.com/onehunt/onehuntbot/internal/repository"
	"github.com/onehunt/onehuntbot/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "onehuntbot",
		Usage: "OneHunt is a tap-to-earn Telegram mini-app backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "redis-host", Usage: "Redis host"},
			&cli.IntFlag{Name: "redis-port", Usage: "Redis port"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "API listen port"},
			&cli.StringFlag{Name: "telegram-bot-token", Aliases: []string{"b"}, Usage: "Telegram bot token"},
			&cli.StringFlag{Name: "mini-app-url", Aliases: []string{"m"}, Usage: "Mini-app URL"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("redis-host") {
		cfg.RedisHost = c.String("redis-host")
	}
	if c.IsSet("redis-port") {
		cfg.RedisPort = c.Int("redis-port")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("telegram-bot-token") {
		cfg.TelegramBotToken = c.String("telegram-bot-token")
	}
	if c.IsSet("mini-app-url") {
		cfg.MiniAppURL = c.String("mini-app-url")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Initialize leaderboard cache. The service works without it.
	cache, err := repository.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, log)
	if err != nil {
		log.Warnw("Redis unavailable, leaderboards will be served uncached", "error", err)
		cache = nil
	}

	// Create the application service
	huntApp := hunt.NewHunt(db, cache, log, cfg)

	// Initialize API server
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpire)
	apiServer := http_api.NewHTTPServer(huntApp, tokens, cfg.APIPort, log)

	go apiServer.Start()

	// Start the Telegram bot if a token is configured
	if cfg.TelegramBotToken != "" {
		tgBot, err := bot.NewTelegramBot(log, cfg.TelegramBotToken, huntApp, cfg.MiniAppURL)
		if err != nil {
			return fmt.Errorf("failed to start telegram bot: %v", err)
		}
		tgBot.Start()
		defer tgBot.Stop()
	}

	// Start the scheduled jobs
	huntApp.Start()
	defer huntApp.Stop()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	if err := apiServer.Shutdown(); err != nil {
		log.Error("Failed to shut down API server: ", err)
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database: ", err)
	}

	return nil
}
