package config

import (
  "context"
  "os"

  "github.com/joho/godotenv"
  "github.com/migratehq/visabot/pkg/stringer"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
)

const (
  TelegramToken Key = "TELEGRAM_TOKEN"

  MongodbHost     Key = "MONGODB_HOST"
  MongodbPort     Key = "MONGODB_PORT"
  MongodbUser     Key = "MONGODB_USER"
  MongodbPassword Key = "MONGODB_PASSWORD"

  SessionsFilePath Key = "SESSIONS_FILE"
  LeadsFilePath    Key = "LEADS_FILE"

  WelcomeImagePath Key = "WELCOME_IMAGE"
  WelcomeImageURL  Key = "WELCOME_IMAGE_URL"

  HomeCountry  Key = "HOME_COUNTRY"
  WorkersCount Key = "WORKERS_COUNT"
)

type Key string

var defaults = map[Key]string{
  SessionsFilePath: "sessions.json",
  LeadsFilePath:    "leads.csv",
  WelcomeImagePath: "assets/welcome.jpg",
  HomeCountry:      "India",
  WorkersCount:     "5",
}

// Init loads a local .env file, when present. Real environments configure
// through the process environment directly.
func Init() {
  if err := godotenv.Load(); err != nil {
    log.Debugf("godotenv.Load: %v", err)
  }
}

type Value struct {
  value string
}

func Get(_ context.Context, key Key) Value {
  if value := os.Getenv(string(key)); value != "" {
    return Value{value: value}
  }
  return Value{value: defaults[key]}
}

func (v Value) String() string {
  return v.value
}

func (v Value) Int64() int64 {
  return cast.ToInt64(v.value)
}

func (v Value) Uint8() uint8 {
  return cast.ToUint8(v.value)
}

func (v Value) IsEmpty() bool {
  return stringer.IsEmptyStr(v.value)
}
