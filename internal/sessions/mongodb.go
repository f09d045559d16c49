package sessions

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/migratehq/visabot/internal/deps/storage/mongodb"
  "github.com/migratehq/visabot/internal/models"
)

const (
  database   = "visabot"
  collection = "sessions"
)

type Mongo struct {
  client *mongodb.Client
}

func NewMongo(client *mongodb.Client) *Mongo {
  return &Mongo{client: client}
}

func (s *Mongo) Find(ctx context.Context, chatId models.ChatId) (*models.Session, error) {
  res, err := s.client.Get(ctx, mongodb.GetParams{
    CommonParams: mongodb.CommonParams{
      Database:   database,
      Collection: collection,
      StructType: models.Session{},
    },
    Filters: map[string]any{
      "chat_id": chatId,
    },
  })
  if err != nil {
    if errors.Is(err, mongodb.ErrNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("s.client.Get: %w", err)
  }

  session, ok := res.(*models.Session)
  if !ok {
    return nil, fmt.Errorf("cast %v with type: %[1]T to: %T failed", res, new(models.Session))
  }

  return session, nil
}

func (s *Mongo) Upsert(ctx context.Context, session *models.Session) error {
  session.UpdatedAt = time.Now()

  _, err := s.client.Upsert(ctx, mongodb.UpdateParams{
    GetParams: mongodb.GetParams{
      CommonParams: mongodb.CommonParams{
        Database:   database,
        Collection: collection,
        StructType: models.Session{},
      },
      Filters: map[string]any{
        "chat_id": session.ChatId,
      },
    },
    Document: session,
  })
  if err != nil {
    return fmt.Errorf("s.client.Upsert: %w", err)
  }

  return nil
}
