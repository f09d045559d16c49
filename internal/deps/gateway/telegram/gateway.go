package telegram

import (
  "context"
  "fmt"
  "os"
  "strings"

  tgbot "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  tgreply "github.com/go-telegram/ui/keyboard/reply"
  "github.com/migratehq/visabot/internal/models"
  "github.com/migratehq/visabot/pkg/extension"
  "github.com/migratehq/visabot/pkg/keylock"
  "github.com/migratehq/visabot/pkg/worker"
  "github.com/samber/lo"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
)

// Handler is the inbound side of the core: one call per incoming message.
type Handler interface {
  HandleInbound(ctx context.Context, msg models.Inbound) error
}

type Dependencies struct {
  Telegram *tgbot.Bot
  Workers  *worker.Pool
}

// Gateway adapts Telegram to the controller's transport contract. Updates
// for distinct chats run in parallel on the worker pool; updates for one
// chat are serialized through a per-chat lock.
type Gateway struct {
  deps    Dependencies
  handler Handler
  locks   *keylock.Set[models.ChatId]
  menu    *tgreply.ReplyKeyboard
}

func NewGateway(deps Dependencies) *Gateway {
  gateway := &Gateway{
    deps:  deps,
    locks: keylock.NewSet[models.ChatId](),
  }
  gateway.menu = gateway.makeMenuKeyboard()

  return gateway
}

func (g *Gateway) Start(ctx context.Context, handler Handler) {
  g.handler = handler

  g.registerHandlers(ctx)

  go g.deps.Telegram.Start(ctx)
}

func (g *Gateway) registerHandlers(_ context.Context) {
  g.deps.Telegram.RegisterHandlerMatchFunc(
    func(update *tgmodels.Update) bool {
      return update != nil && update.Message != nil && update.Message.Text != ""
    },
    g.handleUpdate,
  )
}

func (g *Gateway) handleUpdate(_ context.Context, _ *tgbot.Bot, update *tgmodels.Update) {
  if g.handler == nil {
    log.Warn("telegram.Gateway: handler not attached: update skipped")
    return
  }

  msg, ok := makeInbound(update)
  if !ok {
    return
  }

  g.deps.Workers.Push(func(ctx context.Context) error {
    g.locks.Lock(msg.ChatId)
    defer g.locks.Unlock(msg.ChatId)

    if err := g.handler.HandleInbound(ctx, msg); err != nil {
      return fmt.Errorf("g.handler.HandleInbound: %w", err)
    }
    return nil
  })
}

func (g *Gateway) SendText(ctx context.Context, chatId models.ChatId, text string) error {
  _, err := g.deps.Telegram.SendMessage(ctx, &tgbot.SendMessageParams{
    ChatID:      cast.ToInt64(chatId),
    Text:        text,
    ParseMode:   tgmodels.ParseModeHTML,
    ReplyMarkup: g.menu,
    LinkPreviewOptions: &tgmodels.LinkPreviewOptions{
      IsDisabled: lo.ToPtr(true),
    },
  })
  if err != nil {
    return fmt.Errorf("g.deps.Telegram.SendMessage: %w", err)
  }

  return nil
}

func (g *Gateway) SendFile(ctx context.Context, chatId models.ChatId, path string, name string, caption string) error {
  file, err := os.Open(path)
  if err != nil {
    return fmt.Errorf("os.Open: %w", err)
  }
  defer file.Close()

  upload := &tgmodels.InputFileUpload{
    Filename: name,
    Data:     file,
  }

  if extension.IsImage(name) {
    _, err = g.deps.Telegram.SendPhoto(ctx, &tgbot.SendPhotoParams{
      ChatID:    cast.ToInt64(chatId),
      Photo:     upload,
      Caption:   caption,
      ParseMode: tgmodels.ParseModeHTML,
    })
    if err != nil {
      return fmt.Errorf("g.deps.Telegram.SendPhoto: %w", err)
    }

    return nil
  }

  _, err = g.deps.Telegram.SendDocument(ctx, &tgbot.SendDocumentParams{
    ChatID:    cast.ToInt64(chatId),
    Document:  upload,
    Caption:   caption,
    ParseMode: tgmodels.ParseModeHTML,
  })
  if err != nil {
    return fmt.Errorf("g.deps.Telegram.SendDocument: %w", err)
  }

  return nil
}

func (g *Gateway) makeMenuKeyboard() *tgreply.ReplyKeyboard {
  reply := tgreply.New(
    tgreply.WithPrefix("visabot_menu"),
    tgreply.ResizableKeyboard(),
  )

  reply = reply.Row()
  for _, digit := range []string{"1", "2", "3", "4"} {
    reply = reply.Button(digit, g.deps.Telegram, tgbot.MatchTypeExact, g.handleUpdate)
  }

  reply = reply.Row()
  for _, digit := range []string{"5", "6", "7"} {
    reply = reply.Button(digit, g.deps.Telegram, tgbot.MatchTypeExact, g.handleUpdate)
  }

  return reply
}

func makeInbound(update *tgmodels.Update) (models.Inbound, bool) {
  if update == nil || update.Message == nil || update.Message.Chat.ID == 0 {
    return models.Inbound{}, false
  }
  message := update.Message

  msg := models.Inbound{
    ChatId:  cast.ToString(message.Chat.ID),
    Text:    message.Text,
    IsGroup: message.Chat.Type != "private",
  }

  if message.From != nil {
    msg.PushName = message.From.FirstName
    msg.FormattedName = strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
    msg.NotifyName = message.From.Username
  }

  return msg, true
}
