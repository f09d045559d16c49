package sessions

import (
  "context"
  "sync"
  "time"

  "github.com/migratehq/visabot/internal/models"
)

// Memory is a non-durable Store for tests and local runs.
type Memory struct {
  mu     sync.Mutex
  byChat map[models.ChatId]models.Session
}

func NewMemory() *Memory {
  return &Memory{
    byChat: make(map[models.ChatId]models.Session),
  }
}

func (s *Memory) Find(_ context.Context, chatId models.ChatId) (*models.Session, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  session, ok := s.byChat[chatId]
  if !ok {
    return nil, ErrNotFound
  }

  return &session, nil
}

func (s *Memory) Upsert(_ context.Context, session *models.Session) error {
  s.mu.Lock()
  defer s.mu.Unlock()

  session.UpdatedAt = time.Now()
  s.byChat[session.ChatId] = *session

  return nil
}
