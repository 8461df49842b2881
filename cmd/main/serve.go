package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
	telemw "gopkg.in/telebot.v3/middleware"
	"vadimgribanov.com/tg-reminder/internal/config"
	"vadimgribanov.com/tg-reminder/internal/database"
	"vadimgribanov.com/tg-reminder/internal/delivery/httpapi"
	"vadimgribanov.com/tg-reminder/internal/delivery/tgbot"
	"vadimgribanov.com/tg-reminder/internal/middleware"
	"vadimgribanov.com/tg-reminder/internal/repositories"
	"vadimgribanov.com/tg-reminder/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the HTTP endpoints and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.config)
		},
	}
}

func openDB(ctx context.Context, appConfig *config.Config) (*database.DB, error) {
	db, err := database.NewDB(appConfig.Database.Path)
	if err != nil {
		slog.ErrorContext(ctx, "Error initializing database", "error", err)
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		slog.ErrorContext(ctx, "Error running database migrations", "error", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// newMailer returns nil when no SMTP account is configured.
func newMailer(ctx context.Context, appConfig *config.Config) (services.Mailer, error) {
	if !appConfig.Email.Enabled() {
		slog.InfoContext(ctx, "Email delivery disabled")
		return nil, nil
	}
	mailer, err := services.NewSMTPMailer(appConfig.Email)
	if err != nil {
		return nil, err
	}
	return mailer, nil
}

func newBot(ctx context.Context, appConfig *config.Config, poller tele.Poller, offline bool) (*tele.Bot, error) {
	if appConfig.Telegram.Token == "" {
		return nil, errors.New("telegram token is not set")
	}
	return tele.NewBot(tele.Settings{
		Token:   appConfig.Telegram.Token,
		Poller:  poller,
		Offline: offline,
		OnError: func(err error, c tele.Context) {
			errCtx := ctx
			if c != nil {
				errCtx = middleware.ContextOf(c)
			}
			slog.ErrorContext(errCtx, "Error handling update", "error", err)
		},
	})
}

func serve(ctx context.Context, appConfig *config.Config) error {
	db, err := openDB(ctx, appConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	var poller tele.Poller = &tele.LongPoller{Timeout: appConfig.Telegram.PollTimeout}
	var webhook *tele.Webhook
	if appConfig.Telegram.Mode == config.ModeWebhook {
		webhook = &tele.Webhook{
			Endpoint:    &tele.WebhookEndpoint{PublicURL: appConfig.Telegram.WebhookURL},
			SecretToken: appConfig.Telegram.WebhookSecret,
		}
		poller = webhook
	}

	b, err := newBot(ctx, appConfig, poller, false)
	if err != nil {
		slog.ErrorContext(ctx, "Error creating bot", "error", err)
		return err
	}

	mailer, err := newMailer(ctx, appConfig)
	if err != nil {
		slog.ErrorContext(ctx, "Error creating mailer", "error", err)
		return err
	}

	reminderRepo := repositories.NewReminderRepo(db)
	userRepo := repositories.NewUserRepo(db, appConfig.Telegram.AllowedUserIds)
	reminderService := services.NewReminderService(
		reminderRepo,
		services.NewTelegramNotifier(b),
		mailer,
		appConfig.Scheduler.BatchSize,
	)

	authenticator := middleware.UserAuthenticator{UserRepo: userRepo}
	rateLimiter := middleware.RateLimiter{MaxConcurrentRequests: 1}
	b.Use(telemw.Recover(func(err error) {
		slog.ErrorContext(ctx, "Recovered from panic in handler", "error", err)
	}))
	b.Use(middleware.RequestContext(ctx))
	b.Use(middleware.Logger())
	b.Use(authenticator.Middleware())

	if err := b.SetCommands(tgbot.Commands); err != nil {
		slog.ErrorContext(ctx, "Error setting commands", "error", err)
		return err
	}
	tgbot.RegisterHandlers(b, &rateLimiter, reminderService)

	options := httpapi.Options{Sweeper: reminderService, CronSecret: appConfig.HTTP.CronSecret}
	if webhook != nil {
		options.Webhook = webhook
	}
	server := &http.Server{
		Addr:              appConfig.HTTP.Addr,
		Handler:           httpapi.NewRouter(options),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if appConfig.Scheduler.Enabled {
		scheduler := services.NewReminderScheduler(reminderService, appConfig.Scheduler.Spec)
		if err := scheduler.Start(gctx); err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			scheduler.Stop(context.Background())
			return nil
		})
	}

	g.Go(func() error {
		slog.InfoContext(gctx, "Listening...", "mode", appConfig.Telegram.Mode)
		b.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		b.Stop()
		return nil
	})

	g.Go(func() error {
		slog.InfoContext(gctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
