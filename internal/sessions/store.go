package sessions

import (
  "context"
  "errors"

  "github.com/migratehq/visabot/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store is the durable per-conversation session mapping. Find and Upsert
// are atomic per chat id: a read-modify-write for one conversation never
// interleaves with another one on the same id.
type Store interface {
  Find(ctx context.Context, chatId models.ChatId) (*models.Session, error)
  Upsert(ctx context.Context, session *models.Session) error
}
