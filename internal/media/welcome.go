package media

import (
  "context"
  "fmt"
  "os"
  "path/filepath"

  "github.com/go-playground/validator/v10"
  "github.com/go-resty/resty/v2"
  "github.com/migratehq/visabot/pkg/extension"
  log "github.com/sirupsen/logrus"
)

type Config struct {
  // Path is the local welcome image asset.
  Path string
  // URL optionally points at a remote image, fetched once when the local
  // asset is missing.
  URL string
}

type Dependencies struct {
  Client *resty.Client `validate:"required"`
}

func (d *Dependencies) Validate() error {
  return validator.New().Struct(d)
}

// Welcome resolves the greeting image once, at startup. A miss is not an
// error: the greeting falls back to text only.
type Welcome struct {
  path string
  name string
}

func NewWelcome(ctx context.Context, config Config, deps Dependencies) *Welcome {
  if err := deps.Validate(); err != nil {
    log.Errorf("media.NewWelcome: invalid dependencies: %v", err)
    return &Welcome{}
  }

  if path, ok := findLocal(config.Path); ok {
    return &Welcome{
      path: path,
      name: filepath.Base(path),
    }
  }

  if config.URL != "" {
    path, err := download(ctx, deps.Client, config.URL)
    if err != nil {
      log.
        WithField("url", config.URL).
        Warnf("media.download: %v", err)

      return &Welcome{}
    }

    return &Welcome{
      path: path,
      name: filepath.Base(path),
    }
  }

  return &Welcome{}
}

func findLocal(path string) (string, bool) {
  if path == "" || !extension.IsImage(path) {
    return "", false
  }

  if _, err := os.Stat(path); err != nil {
    return "", false
  }

  return path, true
}

func download(ctx context.Context, client *resty.Client, url string) (string, error) {
  name := filepath.Base(url)
  if !extension.IsImage(name) {
    return "", fmt.Errorf("url does not point at an image: %s", url)
  }

  path := filepath.Join(os.TempDir(), name)

  res, err := client.R().
    SetContext(ctx).
    SetOutput(path).
    Get(url)
  if err != nil {
    return "", fmt.Errorf("client.R.Get: %w", err)
  }
  if res.IsError() {
    return "", fmt.Errorf("client.R.Get: status %s", res.Status())
  }

  return path, nil
}

// Find reports the resolved image, if any. Safe on a nil receiver: a bot
// without media configured simply greets with text.
func (w *Welcome) Find() (path string, name string, ok bool) {
  if w == nil || w.path == "" {
    return "", "", false
  }
  return w.path, w.name, true
}
