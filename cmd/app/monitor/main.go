package main

import (
  "context"
  "net/http"
  "os"
  "os/signal"
  "syscall"
  "time"

  log "github.com/sirupsen/logrus"

  "restockwatch/internal/app/health"
  appmonitor "restockwatch/internal/app/monitor"
  tgtransport "restockwatch/internal/app/telegram"
  "restockwatch/internal/config"
  "restockwatch/internal/deps/browser"
  "restockwatch/internal/deps/mail"
  "restockwatch/internal/deps/storage/mongodb"
  tgbot "restockwatch/internal/deps/telegram"
  "restockwatch/internal/detector"
  "restockwatch/internal/ledger"
  "restockwatch/internal/notifier"
  "restockwatch/internal/settings"
  "restockwatch/pkg/logger"
)

func main() {
  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()

  logger.Init()

  log.Warn("stock monitor app initializing")

  mongoClient, err := mongodb.NewClient(ctx,
    mongodb.Config{
      Host: config.Get(ctx, config.MongodbHost).String(),
      Port: config.Get(ctx, config.MongodbPort).String(),
      Authentication: &mongodb.Authentication{
        User:     config.Get(ctx, config.MongodbUser).String(),
        Password: config.Get(ctx, config.MongodbPassword).String(),
      },
    },
    mongodb.Dependencies{
      Client: http.DefaultClient,
    })
  if err != nil {
    log.Fatalf("mongodb.NewClient: %v", err)
  }

  settingsStore := settings.NewStore(settings.Dependencies{
    Storage: mongoClient,
  })

  if err = settingsStore.Seed(ctx); err != nil {
    log.Fatalf("settingsStore.Seed: %v", err)
  }

  stored, err := settingsStore.Load(ctx)
  if err != nil {
    log.Fatalf("settingsStore.Load: %v", err)
  }

  mailClient, err := mail.NewClient(mail.Config{
    Host: config.Get(ctx, config.SMTPHost).String(),
    Port: config.Get(ctx, config.SMTPPort).Int(),
  })
  if err != nil {
    log.Fatalf("mail.NewClient: %v", err)
  }

  monitorApp := appmonitor.NewMonitor(appmonitor.Dependencies{
    Browser: browser.NewDriver(browser.Config{
      Bin: config.Get(ctx, config.BrowserBin).String(),
    }),
    Settings: settingsStore,
    Detector: detector.NewDetector(),
    Ledger:   ledger.NewLedger(),
    Notifier: notifier.NewNotifier(mailClient),
  })

  scheduler := appmonitor.NewScheduler(monitorApp,
    time.Duration(stored.Interval())*time.Minute)

  telegramBotClient, err := tgbot.NewBotClient(tgbot.Config{
    Token: config.Get(ctx, config.TelegramToken).String(),
  })
  if err != nil {
    log.Fatalf("tgbot.NewBotClient: %v", err)
  }

  telegramBotTransport := tgtransport.NewTransport(tgtransport.Dependencies{
    Telegram:  telegramBotClient,
    Mongodb:   mongoClient,
    Settings:  settingsStore,
    Scheduler: scheduler,
    ChatIds:   config.Get(ctx, config.TelegramChatIds).Int64Slice(),
  })

  telegramBotTransport.Start(ctx)

  health.NewResponder(health.Config{
    Addr: config.Get(ctx, config.HealthAddr).String(),
  }).Start(ctx)

  go scheduler.Start(ctx)

  exitSignal := make(chan os.Signal, 1)
  signal.Notify(exitSignal, syscall.SIGINT, syscall.SIGTERM)
  <-exitSignal

  cancel()

  log.Warn("stock monitor app terminating")
}
