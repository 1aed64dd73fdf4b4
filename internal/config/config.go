package config

import (
  "context"
  "os"
  "strings"

  "github.com/spf13/cast"
)

type Key = string

const (
  MongodbHost     Key = "MONGODB_HOST"
  MongodbPort     Key = "MONGODB_PORT"
  MongodbUser     Key = "MONGODB_USER"
  MongodbPassword Key = "MONGODB_PASSWORD"

  TelegramToken   Key = "TELEGRAM_TOKEN"
  TelegramChatIds Key = "TELEGRAM_CHAT_IDS"

  BrowserBin  Key = "BROWSER_BIN"
  HealthAddr  Key = "HEALTH_ADDR"
  SMTPHost    Key = "SMTP_HOST"
  SMTPPort    Key = "SMTP_PORT"
)

var defaults = map[Key]string{
  MongodbHost: "localhost",
  MongodbPort: "27017",
  HealthAddr:  ":8080",
  SMTPHost:    "smtp.gmail.com",
  SMTPPort:    "587",
}

type Value struct {
  raw string
}

func Get(_ context.Context, key Key) Value {
  raw := os.Getenv(key)

  if raw == "" {
    raw = defaults[key]
  }

  return Value{raw: raw}
}

func (v Value) String() string {
  return v.raw
}

func (v Value) Int() int {
  return cast.ToInt(v.raw)
}

func (v Value) Int64Slice() []int64 {
  parts := strings.Split(v.raw, ",")

  out := make([]int64, 0, len(parts))

  for _, part := range parts {
    part = strings.TrimSpace(part)
    if part == "" {
      continue
    }
    out = append(out, cast.ToInt64(part))
  }

  return out
}
