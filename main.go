package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/meinhoongagan/ignite-call/config"
	"github.com/meinhoongagan/ignite-call/cron"
	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/metrics"
	"github.com/meinhoongagan/ignite-call/redis"
	"github.com/meinhoongagan/ignite-call/routes"
	"github.com/meinhoongagan/ignite-call/utils"
)

func main() {
	cfg, err := config.Init()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	utils.SetLocation(cfg.Location)

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := redis.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redis.Close()

	initIntegrations(cfg, &log)
	metrics.Register()

	scheduler, err := cron.StartCronJobs(cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start cron jobs")
	}
	defer scheduler.Stop()

	app := routes.NewApp(cfg)
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

// initIntegrations enables every external service that has credentials configured.
func initIntegrations(cfg *config.Config, log *zerolog.Logger) {
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		google := utils.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		utils.OAuth = google
		utils.Calendar = &utils.GoogleCalendar{OAuth: google}
	} else {
		log.Warn().Msg("google credentials missing, sign in and calendar events disabled")
	}

	if cfg.SMTPHost != "" {
		utils.Mail = utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	} else {
		log.Warn().Msg("SMTP_HOST missing, emails disabled")
	}

	if cfg.CloudinaryCloudName != "" {
		uploader, err := utils.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadPreset)
		if err != nil {
			log.Error().Err(err).Msg("cloudinary disabled")
			return
		}
		utils.Avatars = uploader
	}
}
