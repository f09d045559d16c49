package sessions

import (
  "context"
  "encoding/json"
  "fmt"
  "os"
  "sync"
  "time"

  "github.com/migratehq/visabot/internal/models"
  log "github.com/sirupsen/logrus"
)

// JSONFile keeps the whole session mapping in one JSON file, rewritten on
// every upsert. A missing or corrupted file loads as an empty mapping, so
// a bad deploy never locks the bot out of its own state.
type JSONFile struct {
  mu     sync.Mutex
  path   string
  byChat map[models.ChatId]models.Session
}

func NewJSONFile(path string) (*JSONFile, error) {
  store := &JSONFile{
    path:   path,
    byChat: make(map[models.ChatId]models.Session),
  }

  if err := store.load(); err != nil {
    log.
      WithField("path", path).
      Warnf("sessions.JSONFile: load failed, starting empty: %v", err)
  }

  return store, nil
}

func (s *JSONFile) load() error {
  content, err := os.ReadFile(s.path)
  if err != nil {
    if os.IsNotExist(err) {
      return nil
    }
    return fmt.Errorf("os.ReadFile: %w", err)
  }

  byChat := make(map[models.ChatId]models.Session)

  if err = json.Unmarshal(content, &byChat); err != nil {
    return fmt.Errorf("json.Unmarshal: %w", err)
  }

  s.byChat = byChat

  return nil
}

func (s *JSONFile) save() error {
  content, err := json.MarshalIndent(s.byChat, "", "  ")
  if err != nil {
    return fmt.Errorf("json.MarshalIndent: %w", err)
  }

  if err = os.WriteFile(s.path, content, 0o644); err != nil {
    return fmt.Errorf("os.WriteFile: %w", err)
  }

  return nil
}

func (s *JSONFile) Find(_ context.Context, chatId models.ChatId) (*models.Session, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  session, ok := s.byChat[chatId]
  if !ok {
    return nil, ErrNotFound
  }

  return &session, nil
}

func (s *JSONFile) Upsert(_ context.Context, session *models.Session) error {
  s.mu.Lock()
  defer s.mu.Unlock()

  session.UpdatedAt = time.Now()
  s.byChat[session.ChatId] = *session

  if err := s.save(); err != nil {
    return fmt.Errorf("s.save: %w", err)
  }

  return nil
}
