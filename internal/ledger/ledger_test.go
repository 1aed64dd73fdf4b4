package ledger

import (
  "testing"

  "github.com/stretchr/testify/assert"

  "restockwatch/internal/models"
)

const productURL = "https://shop.example.com/product/buttermilk"

func TestEvaluateFirstInStockSends(t *testing.T) {
  l := NewLedger()

  assert.Equal(t, models.DecisionSend, l.Evaluate(productURL, models.VerdictInStock))
}

func TestEvaluateMarkedInStockStaysSilent(t *testing.T) {
  l := NewLedger()

  l.MarkNotified(productURL)

  assert.Equal(t, models.DecisionNone, l.Evaluate(productURL, models.VerdictInStock))
}

func TestEvaluateDoesNotMutate(t *testing.T) {
  l := NewLedger()

  // Without an explicit mark, every evaluation still asks to send.
  assert.Equal(t, models.DecisionSend, l.Evaluate(productURL, models.VerdictInStock))
  assert.Equal(t, models.DecisionSend, l.Evaluate(productURL, models.VerdictInStock))
}

func TestEvaluateOutOfStockClearsOnlyMarked(t *testing.T) {
  l := NewLedger()

  assert.Equal(t, models.DecisionNone, l.Evaluate(productURL, models.VerdictOutOfStock))

  l.MarkNotified(productURL)

  assert.Equal(t, models.DecisionClear, l.Evaluate(productURL, models.VerdictOutOfStock))
}

func TestEvaluateUnknownNeverActs(t *testing.T) {
  l := NewLedger()

  assert.Equal(t, models.DecisionNone, l.Evaluate(productURL, models.VerdictUnknown))

  l.MarkNotified(productURL)

  assert.Equal(t, models.DecisionNone, l.Evaluate(productURL, models.VerdictUnknown))

  // The mark survives an unknown observation.
  _, marked := l.NotifiedAt(productURL)
  assert.True(t, marked)
}

func TestRestockEpisodeRoundTrip(t *testing.T) {
  l := NewLedger()

  // Restock observed, alert delivered.
  assert.Equal(t, models.DecisionSend, l.Evaluate(productURL, models.VerdictInStock))
  l.MarkNotified(productURL)

  // Still in stock: no repeat alerts.
  assert.Equal(t, models.DecisionNone, l.Evaluate(productURL, models.VerdictInStock))

  // Sold out again: episode ends.
  assert.Equal(t, models.DecisionClear, l.Evaluate(productURL, models.VerdictOutOfStock))
  l.Clear(productURL)

  // Next restock alerts again.
  assert.Equal(t, models.DecisionSend, l.Evaluate(productURL, models.VerdictInStock))
}

func TestLedgerTracksURLsIndependently(t *testing.T) {
  l := NewLedger()

  other := "https://shop.example.com/product/lassi"

  l.MarkNotified(productURL)

  assert.Equal(t, models.DecisionNone, l.Evaluate(productURL, models.VerdictInStock))
  assert.Equal(t, models.DecisionSend, l.Evaluate(other, models.VerdictInStock))
}
