package bot

import (
  "context"

  "github.com/migratehq/visabot/internal/media"
  "github.com/migratehq/visabot/internal/models"
  "github.com/migratehq/visabot/internal/sessions"
)

const defaultHomeCountry = "India"

// Gateway is the outbound side of the messaging transport. Both calls may
// fail on network or chat-session errors; failures never abort a handling
// cycle that already committed its state.
type Gateway interface {
  SendText(ctx context.Context, chatId models.ChatId, text string) error
  SendFile(ctx context.Context, chatId models.ChatId, path string, name string, caption string) error
}

// Leads is the append-only sink for completed flows.
type Leads interface {
  Append(ctx context.Context, lead models.Lead) error
}

type Config struct {
  // HomeCountry is the baseline country for the eligibility scorer.
  HomeCountry string
}

type Dependencies struct {
  Gateway  Gateway
  Sessions sessions.Store
  Leads    Leads
  Welcome  *media.Welcome
}

// Bot is the conversation controller: one inbound message plus the stored
// session in, the next session state and zero or more outbound messages out.
type Bot struct {
  config Config
  deps   Dependencies
}

func NewBot(config Config, deps Dependencies) *Bot {
  if config.HomeCountry == "" {
    config.HomeCountry = defaultHomeCountry
  }
  return &Bot{
    config: config,
    deps:   deps,
  }
}
