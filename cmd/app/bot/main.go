package main

import (
  "context"
  "net/http"
  "os"
  "os/signal"
  "syscall"

  "github.com/go-resty/resty/v2"
  botcore "github.com/migratehq/visabot/internal/app/bot"
  "github.com/migratehq/visabot/internal/config"
  tggateway "github.com/migratehq/visabot/internal/deps/gateway/telegram"
  "github.com/migratehq/visabot/internal/deps/storage/mongodb"
  "github.com/migratehq/visabot/internal/leads"
  "github.com/migratehq/visabot/internal/media"
  "github.com/migratehq/visabot/internal/sessions"
  "github.com/migratehq/visabot/pkg/logger"
  "github.com/migratehq/visabot/pkg/worker"
  log "github.com/sirupsen/logrus"
)

func main() {
  ctx := context.Background()

  config.Init()
  logger.Init()

  log.Warn("immigration bot app initializing")

  sessionsStore := makeSessionsStore(ctx)

  leadsLog, err := leads.NewCSV(config.Get(ctx, config.LeadsFilePath).String())
  if err != nil {
    log.Fatalf("leads.NewCSV: %v", err)
  }

  httpClient := resty.NewWithClient(http.DefaultClient)

  welcome := media.NewWelcome(ctx,
    media.Config{
      Path: config.Get(ctx, config.WelcomeImagePath).String(),
      URL:  config.Get(ctx, config.WelcomeImageURL).String(),
    },
    media.Dependencies{
      Client: httpClient,
    })

  telegramClient, err := tggateway.NewBotClient(tggateway.Config{
    Token: config.Get(ctx, config.TelegramToken).String(),
  })
  if err != nil {
    log.Fatalf("tggateway.NewBotClient: %v", err)
  }

  pool := worker.NewPool(ctx, config.Get(ctx, config.WorkersCount).Uint8())

  gateway := tggateway.NewGateway(tggateway.Dependencies{
    Telegram: telegramClient,
    Workers:  &pool,
  })

  controller := botcore.NewBot(
    botcore.Config{
      HomeCountry: config.Get(ctx, config.HomeCountry).String(),
    },
    botcore.Dependencies{
      Gateway:  gateway,
      Sessions: sessionsStore,
      Leads:    leadsLog,
      Welcome:  welcome,
    })

  gateway.Start(ctx, controller)

  exitSignal := make(chan os.Signal, 1)
  signal.Notify(exitSignal, syscall.SIGINT, syscall.SIGTERM)
  <-exitSignal

  pool.StopWait()

  log.Warn("immigration bot app terminating")
}

// makeSessionsStore picks Mongo when configured, the JSON file store
// otherwise. Both honor the same per-chat load/save semantics.
func makeSessionsStore(ctx context.Context) sessions.Store {
  if config.Get(ctx, config.MongodbHost).IsEmpty() {
    store, err := sessions.NewJSONFile(config.Get(ctx, config.SessionsFilePath).String())
    if err != nil {
      log.Fatalf("sessions.NewJSONFile: %v", err)
    }

    return store
  }

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

  return sessions.NewMongo(mongoClient)
}
