package notifier

import (
  "context"
  "errors"
  "strings"
  "sync"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "restockwatch/internal/deps/mail"
  "restockwatch/internal/models"
)

type fakeDialer struct {
  mu     sync.Mutex
  sent   []mail.SendParams
  failTo map[string]bool
}

func (d *fakeDialer) Send(params mail.SendParams) error {
  d.mu.Lock()
  defer d.mu.Unlock()

  if d.failTo[params.To] {
    return errors.New("smtp: connection refused")
  }

  d.sent = append(d.sent, params)

  return nil
}

var testParams = NotifyParams{
  Product: models.Product{
    Name:  "High Protein Buttermilk",
    URL:   "https://shop.example.com/product/buttermilk",
    Price: 600,
  },
  Pincode: "110001",
  Settings: models.EmailSettings{
    SenderEmail:     "monitor@example.com",
    SenderPassword:  "app-password",
    RecipientEmails: []string{"one@example.com", "two@example.com", "three@example.com"},
  },
}

func TestNotifyAllRecipients(t *testing.T) {
  dialer := &fakeDialer{}

  result := NewNotifier(dialer).Notify(context.Background(), testParams)

  assert.Equal(t, 3, result.Sent)
  assert.Equal(t, 0, result.Failed)
  assert.True(t, result.Delivered())

  require.Len(t, dialer.sent, 3)

  first := dialer.sent[0]

  assert.Equal(t, "monitor@example.com", first.From)
  assert.Contains(t, first.Subject, "High Protein Buttermilk")
  assert.Contains(t, first.Body, testParams.Product.URL)
  assert.Contains(t, first.Body, "110001")
  assert.Contains(t, first.Body, "₹600.00")
}

func TestNotifyPartialFailureStillDelivered(t *testing.T) {
  dialer := &fakeDialer{failTo: map[string]bool{"two@example.com": true}}

  result := NewNotifier(dialer).Notify(context.Background(), testParams)

  assert.Equal(t, 2, result.Sent)
  assert.Equal(t, 1, result.Failed)
  assert.True(t, result.Delivered())
}

func TestNotifyTotalFailure(t *testing.T) {
  dialer := &fakeDialer{failTo: map[string]bool{
    "one@example.com":   true,
    "two@example.com":   true,
    "three@example.com": true,
  }}

  result := NewNotifier(dialer).Notify(context.Background(), testParams)

  assert.Equal(t, 0, result.Sent)
  assert.Equal(t, 3, result.Failed)
  assert.False(t, result.Delivered())
}

func TestNotifyNoRecipients(t *testing.T) {
  dialer := &fakeDialer{}

  params := testParams
  params.Settings.RecipientEmails = nil

  result := NewNotifier(dialer).Notify(context.Background(), params)

  assert.False(t, result.Delivered())
  assert.Empty(t, dialer.sent)
}

func TestBuildSubjectTitleCasesName(t *testing.T) {
  subject := buildSubject(models.Product{Name: "high protein buttermilk"})

  assert.Equal(t, "Restock alert: High Protein Buttermilk is back in stock", subject)
}

func TestBuildBodyWithoutOptionalFields(t *testing.T) {
  body := buildBody(models.Product{
    Name: "Lassi",
    URL:  "https://shop.example.com/product/lassi",
  }, "")

  assert.Contains(t, body, "Lassi")
  assert.Contains(t, body, "https://shop.example.com/product/lassi")
  assert.False(t, strings.Contains(body, "pincode"))
  assert.False(t, strings.Contains(body, "₹"))
}
