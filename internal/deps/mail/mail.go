package mail

import (
  "fmt"

  "github.com/go-playground/validator/v10"
  "gopkg.in/gomail.v2"
)

type Config struct {
  Host string `validate:"required"`
  Port int    `validate:"required"`
}

func (c Config) Validate() error {
  if err := validator.New().Struct(c); err != nil {
    return fmt.Errorf("config validation: %w", err)
  }
  return nil
}

type SendParams struct {
  From     string
  Password string
  To       string
  Subject  string
  Body     string
}

// Client sends mail over SMTP. Credentials arrive per send because the
// sender account lives in the mutable settings document.
type Client struct {
  config Config
}

func NewClient(config Config) (*Client, error) {
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("config.Validate: %w", err)
  }

  return &Client{
    config: config,
  }, nil
}

func (c *Client) Send(params SendParams) error {
  message := gomail.NewMessage()

  message.SetHeader("From", params.From)
  message.SetHeader("To", params.To)
  message.SetHeader("Subject", params.Subject)
  message.SetBody("text/plain", params.Body)

  dialer := gomail.NewDialer(c.config.Host, c.config.Port, params.From, params.Password)

  if err := dialer.DialAndSend(message); err != nil {
    return fmt.Errorf("gomail.Dialer.DialAndSend: %w", err)
  }

  return nil
}
