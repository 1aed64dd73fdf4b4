package monitor

import (
  "context"
  "fmt"
  "strings"
  "time"

  log "github.com/sirupsen/logrus"

  "restockwatch/internal/deps/browser"
  "restockwatch/internal/detector"
  "restockwatch/internal/models"
  "restockwatch/internal/notifier"
)

// Pause between product checks within a cycle.
const productPacing = 500 * time.Millisecond

// Wait for the suggestion dropdown after typing the pincode and for
// the page to re-render after the locality changes.
var (
  dropdownDelay = 2 * time.Second
  localityDelay = 3 * time.Second
)

// Pincode inputs differ across store themes. Tried in order, first
// visible match wins.
var pincodeSelectors = []string{
  "input[placeholder*='pincode' i]",
  "input[placeholder*='Pincode' i]",
  "input[placeholder*='PIN' i]",
  "input[name*='pincode' i]",
  "input[id*='pincode' i]",
  ".pincode-input",
  "#pincode",
  "#pin-code",
  "#delivery-pincode",
}

type sessions interface {
  NewSession(ctx context.Context) (browser.Session, error)
}

type store interface {
  Load(ctx context.Context) (*models.Settings, error)
}

type stockDetector interface {
  Detect(ctx context.Context, page detector.Page, product models.Product) models.Verdict
}

type stockLedger interface {
  Evaluate(productURL string, verdict models.Verdict) models.NotifyDecision
  MarkNotified(productURL string)
  Clear(productURL string)
}

type alerts interface {
  Notify(ctx context.Context, params notifier.NotifyParams) notifier.NotifyResult
}

type Monitor struct {
  deps Dependencies
}

type Dependencies struct {
  Browser  sessions
  Settings store
  Detector stockDetector
  Ledger   stockLedger
  Notifier alerts
}

func NewMonitor(deps Dependencies) *Monitor {
  return &Monitor{deps: deps}
}

// RunCycle checks every tracked product once in a fresh browser
// session. Settings are re-read on entry so edits made through the chat
// controller apply from the next cycle on.
func (m *Monitor) RunCycle(ctx context.Context) error {
  stored, err := m.deps.Settings.Load(ctx)
  if err != nil {
    return fmt.Errorf("m.deps.Settings.Load: %w", err)
  }

  if len(stored.Products) == 0 {
    log.Infof("monitor: no products tracked: cycle skipped")
    return nil
  }

  session, err := m.deps.Browser.NewSession(ctx)
  if err != nil {
    return fmt.Errorf("m.deps.Browser.NewSession: %w", err)
  }

  defer func() {
    if err := session.Close(); err != nil {
      log.Errorf("monitor: session close: %v", err)
    }
  }()

  m.setLocality(ctx, session, stored)

  for index, product := range stored.Products {
    if index > 0 {
      time.Sleep(productPacing)
    }
    m.checkProduct(ctx, session, stored, product)
  }

  return nil
}

func (m *Monitor) checkProduct(ctx context.Context, session browser.Session, stored *models.Settings, product models.Product) {
  page, err := session.Open(ctx, product.URL)
  if err != nil {
    log.
      WithField("product.url", product.URL).
      Errorf("monitor: open product page: %v", err)
    return
  }
  defer func() {
    _ = page.Close()
  }()

  verdict := m.deps.Detector.Detect(ctx, page, product)

  log.
    WithField("product.url", product.URL).
    WithField("product.verdict", verdict).
    Infof("monitor: product checked")

  switch m.deps.Ledger.Evaluate(product.URL, verdict) {
  case models.DecisionSend:
    result := m.deps.Notifier.Notify(ctx, notifier.NotifyParams{
      Product:  product,
      Pincode:  stored.Pincode,
      Settings: stored.Email,
    })

    if result.Delivered() {
      m.deps.Ledger.MarkNotified(product.URL)

      log.
        WithField("product.url", product.URL).
        WithField("notify.sent", result.Sent).
        WithField("notify.failed", result.Failed).
        Infof("monitor: restock alert delivered")

      return
    }

    log.
      WithField("product.url", product.URL).
      WithField("notify.failed", result.Failed).
      Errorf("monitor: restock alert not delivered: will retry next cycle")

  case models.DecisionClear:
    m.deps.Ledger.Clear(product.URL)

    log.
      WithField("product.url", product.URL).
      Infof("monitor: product sold out again: alerts re-armed")
  }
}

// setLocality opens the first product page and sets the delivery
// pincode for the browser session. Stores remember the choice
// site-wide, so one setup covers every page opened afterwards. Failures
// are tolerated: checks still run, just without locality context.
func (m *Monitor) setLocality(ctx context.Context, session browser.Session, stored *models.Settings) {
  if stored.Pincode == "" {
    return
  }

  page, err := session.Open(ctx, stored.Products[0].URL)
  if err != nil {
    log.Warnf("monitor: locality setup: open page: %v", err)
    return
  }
  defer func() {
    _ = page.Close()
  }()

  input := findPincodeInput(ctx, page)
  if input == nil {
    log.Warnf("monitor: locality setup: pincode input not found")
    return
  }

  if err = input.Input(stored.Pincode); err != nil {
    log.Warnf("monitor: locality setup: type pincode: %v", err)
    return
  }

  time.Sleep(dropdownDelay)

  if !clickPincodeOption(ctx, page, stored.Pincode) {
    log.Warnf("monitor: locality setup: dropdown option not clicked: trying location button")

    clickLocationButton(ctx, page)
  }

  time.Sleep(localityDelay)

  log.
    WithField("settings.pincode", stored.Pincode).
    Infof("monitor: locality set for session")
}

func findPincodeInput(ctx context.Context, page browser.Page) browser.Element {
  for _, selector := range pincodeSelectors {
    input, err := page.FindVisibleBySelector(ctx, selector)
    if err != nil {
      continue
    }
    return input
  }
  return nil
}

func clickPincodeOption(ctx context.Context, page browser.Page, pincode string) bool {
  options, err := page.FindClickableByText(ctx, pincode)
  if err != nil {
    log.Warnf("monitor: locality setup: find dropdown options: %v", err)
    return false
  }

  for _, option := range options {
    if !strings.Contains(option.Text(), pincode) {
      continue
    }
    if err = option.Click(); err != nil {
      log.Warnf("monitor: locality setup: click dropdown option: %v", err)
      continue
    }
    return true
  }

  return false
}

func clickLocationButton(ctx context.Context, page browser.Page) {
  buttons, err := page.FindClickableByText(ctx, "my location")
  if err != nil || len(buttons) == 0 {
    log.Warnf("monitor: locality setup: location button not found")
    return
  }

  if err = buttons[0].Click(); err != nil {
    log.Warnf("monitor: locality setup: click location button: %v", err)
  }
}
