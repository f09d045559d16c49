package telegram

import (
  "fmt"

  "github.com/go-playground/validator/v10"
  tgbot "github.com/go-telegram/bot"
  log "github.com/sirupsen/logrus"
)

type Config struct {
  Token string `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

func NewBotClient(config Config) (*tgbot.Bot, error) {
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  bot, err := tgbot.New(config.Token)
  if err != nil {
    return nil, fmt.Errorf("tgbot.New: %w", err)
  }
  log.Info("telegram bot client connection successfully")

  return bot, nil
}
