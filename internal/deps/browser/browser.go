package browser

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/go-rod/rod"
  "github.com/go-rod/rod/lib/launcher"
  "github.com/go-rod/stealth"
  log "github.com/sirupsen/logrus"

  "restockwatch/internal/detector"
)

const (
  navigateTimeout = 40 * time.Second
  lookupTimeout   = 5 * time.Second

  // Product pages hydrate stock badges after load.
  settleDelay = 3 * time.Second
)

var ErrElementNotFound = errors.New("element not found")

type Session interface {
  Open(ctx context.Context, url string) (Page, error)
  Close() error
}

type Page interface {
  detector.Page

  FindVisibleBySelector(ctx context.Context, selector string) (Element, error)
  FindClickableByText(ctx context.Context, value string) ([]Element, error)
  Close() error
}

type Element interface {
  detector.Element

  Input(value string) error
  Click() error
}

type Config struct {
  Bin string
}

type Driver struct {
  config Config
}

func NewDriver(config Config) *Driver {
  return &Driver{config: config}
}

func (d *Driver) NewSession(ctx context.Context) (Session, error) {
  chrome := launcher.New().
    Headless(true).
    NoSandbox(true)

  if d.config.Bin != "" {
    chrome = chrome.Bin(d.config.Bin)
  }

  url, err := chrome.Launch()
  if err != nil {
    return nil, fmt.Errorf("launcher.Launch: %w", err)
  }

  client := rod.New().
    ControlURL(url).
    Context(ctx)

  if err = client.Connect(); err != nil {
    chrome.Cleanup()
    return nil, fmt.Errorf("rod.Browser.Connect: %w", err)
  }

  return &session{
    browser:  client,
    launcher: chrome,
  }, nil
}

type session struct {
  browser  *rod.Browser
  launcher *launcher.Launcher
}

func (s *session) Open(ctx context.Context, url string) (Page, error) {
  opened, err := stealth.Page(s.browser)
  if err != nil {
    return nil, fmt.Errorf("stealth.Page: %w", err)
  }

  opened = opened.Context(ctx)

  if err = opened.Timeout(navigateTimeout).Navigate(url); err != nil {
    _ = opened.Close()
    return nil, fmt.Errorf("rod.Page.Navigate: %w", err)
  }

  if err = opened.Timeout(navigateTimeout).WaitLoad(); err != nil {
    log.
      WithField("page.url", url).
      Warnf("rod.Page.WaitLoad: %v", err)
  }

  time.Sleep(settleDelay)

  return &page{page: opened}, nil
}

func (s *session) Close() error {
  err := s.browser.Close()

  s.launcher.Cleanup()

  if err != nil {
    return fmt.Errorf("rod.Browser.Close: %w", err)
  }
  return nil
}
