package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/config"
	"github.com/rolewj/class-schedule-notifications-bot/internal/dialog"
	"github.com/rolewj/class-schedule-notifications-bot/internal/scheduler"
	"github.com/rolewj/class-schedule-notifications-bot/internal/sentiment"
	"github.com/rolewj/class-schedule-notifications-bot/internal/store"
	"github.com/rolewj/class-schedule-notifications-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	msgr    *telegram.Messenger
	httpSrv *echo.Echo
	repo    store.Repo
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	return &App{cfg: cfg, log: log, bot: bot, msgr: telegram.NewMessenger(bot)}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting schedule bot",
		zap.String("bot", a.bot.Self.UserName),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Bool("admin", a.cfg.AdminID != 0),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))

	machine := dialog.NewMachine(a.repo, dialog.NewMemoryStore(), a.flavorer(ctx), a.cfg.AdminID, a.log.Named("dialog"))
	a.router = telegram.NewRouter(a.msgr, a.log.Named("telegram"), machine)
	a.sched = scheduler.New(a.repo, a.log.Named("scheduler"), a.msgr, a.cfg.PollSpec)
	a.httpSrv = newHealthServer(a.repo, a.log)

	if err := a.msgr.RegisterCommands(); err != nil {
		a.log.Warn("register commands failed", zap.Error(err))
	}

	go func() {
		if err := a.httpSrv.Start(a.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.sched.Run(ctx); err != nil {
			a.log.Error("scheduler failed", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()
			wg.Wait()

			// Create a short-lived shutdown context and cancel it immediately after use.
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

// flavorer returns the sentiment flavouring for invalid week day replies. When
// disabled or unavailable it returns a Flavorer that never classifies.
func (a *App) flavorer(ctx context.Context) *sentiment.Flavorer {
	log := a.log.Named("sentiment")
	if !a.cfg.SentimentEnabled {
		return sentiment.NewFlavorer(nil, log)
	}
	c, err := sentiment.NewComprehend(ctx, a.cfg.AWSRegion)
	if err != nil {
		a.log.Warn("sentiment disabled", zap.Error(err))
		return sentiment.NewFlavorer(nil, log)
	}
	a.log.Info("sentiment enabled", zap.String("region", a.cfg.AWSRegion))
	return sentiment.NewFlavorer(c, log)
}
