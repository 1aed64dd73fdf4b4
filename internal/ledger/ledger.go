package ledger

import (
  "sync"
  "time"

  "restockwatch/internal/models"
)

// Ledger tracks which product URLs have already been notified for the
// current restock episode. A marked URL stays silent until the product
// is observed out of stock again.
type Ledger struct {
  mu       sync.Mutex
  notified map[string]time.Time
}

func NewLedger() *Ledger {
  return &Ledger{
    notified: map[string]time.Time{},
  }
}

// Evaluate maps an observed verdict to a notification decision. It does
// not mutate the ledger: callers mark or clear after acting on the
// decision.
func (l *Ledger) Evaluate(productURL string, verdict models.Verdict) models.NotifyDecision {
  l.mu.Lock()
  defer l.mu.Unlock()

  _, marked := l.notified[productURL]

  switch verdict {
  case models.VerdictInStock:
    if !marked {
      return models.DecisionSend
    }

  case models.VerdictOutOfStock:
    if marked {
      return models.DecisionClear
    }
  }

  return models.DecisionNone
}

// MarkNotified records that at least one alert for the URL was
// delivered. Subsequent in stock observations stay silent.
func (l *Ledger) MarkNotified(productURL string) {
  l.mu.Lock()
  defer l.mu.Unlock()

  l.notified[productURL] = time.Now()
}

// Clear ends the restock episode for the URL so the next in stock
// observation alerts again.
func (l *Ledger) Clear(productURL string) {
  l.mu.Lock()
  defer l.mu.Unlock()

  delete(l.notified, productURL)
}

// NotifiedAt reports when the URL was last marked, if it is marked.
func (l *Ledger) NotifiedAt(productURL string) (time.Time, bool) {
  l.mu.Lock()
  defer l.mu.Unlock()

  at, ok := l.notified[productURL]
  return at, ok
}
