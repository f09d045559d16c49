package leads

import (
  "context"
  "encoding/csv"
  "fmt"
  "os"
  "sync"
  "time"

  "github.com/migratehq/visabot/internal/models"
)

var header = []string{"timestamp", "chat_id", "name", "flow", "payload"}

// CSV is the append-only lead log. The header row is written once, when
// the file does not exist yet.
type CSV struct {
  mu   sync.Mutex
  path string
}

func NewCSV(path string) (*CSV, error) {
  sink := &CSV{path: path}

  if err := sink.ensureHeader(); err != nil {
    return nil, fmt.Errorf("sink.ensureHeader: %w", err)
  }

  return sink, nil
}

func (l *CSV) ensureHeader() error {
  if _, err := os.Stat(l.path); err == nil {
    return nil
  } else if !os.IsNotExist(err) {
    return fmt.Errorf("os.Stat: %w", err)
  }

  return l.writeRow(header)
}

func (l *CSV) writeRow(row []string) error {
  file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
  if err != nil {
    return fmt.Errorf("os.OpenFile: %w", err)
  }
  defer file.Close()

  writer := csv.NewWriter(file)

  if err = writer.Write(row); err != nil {
    return fmt.Errorf("writer.Write: %w", err)
  }
  writer.Flush()

  if err = writer.Error(); err != nil {
    return fmt.Errorf("writer.Error: %w", err)
  }

  return nil
}

func (l *CSV) Append(_ context.Context, lead models.Lead) error {
  l.mu.Lock()
  defer l.mu.Unlock()

  createdAt := lead.CreatedAt
  if createdAt.IsZero() {
    createdAt = time.Now()
  }

  row := []string{
    createdAt.Format(time.RFC3339),
    lead.ChatId,
    lead.Name,
    string(lead.Flow),
    lead.Payload,
  }

  if err := l.writeRow(row); err != nil {
    return fmt.Errorf("l.writeRow: %w", err)
  }

  return nil
}
