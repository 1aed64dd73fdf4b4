package notifier

import (
  "context"
  "fmt"
  "sync/atomic"

  log "github.com/sirupsen/logrus"

  "restockwatch/internal/deps/mail"
  "restockwatch/internal/models"
  "restockwatch/pkg/money"
  "restockwatch/pkg/stringer"
  "restockwatch/pkg/worker"
)

type dialer interface {
  Send(params mail.SendParams) error
}

// Notifier fans a restock alert out to every recipient independently.
// One recipient's failure never blocks the others.
type Notifier struct {
  dialer dialer
}

func NewNotifier(dialer dialer) *Notifier {
  return &Notifier{
    dialer: dialer,
  }
}

type NotifyParams struct {
  Product  models.Product
  Pincode  string
  Settings models.EmailSettings
}

type NotifyResult struct {
  Sent   int
  Failed int
}

// Delivered reports whether at least one recipient got the alert.
func (r NotifyResult) Delivered() bool {
  return r.Sent > 0
}

func (n *Notifier) Notify(ctx context.Context, params NotifyParams) NotifyResult {
  recipients := params.Settings.RecipientEmails
  if len(recipients) == 0 {
    return NotifyResult{}
  }

  subject := buildSubject(params.Product)
  body := buildBody(params.Product, params.Pincode)

  count := len(recipients)
  if count > worker.DefaultCount {
    count = worker.DefaultCount
  }
  pool := worker.NewPool(ctx, uint8(count))

  var sent, failed atomic.Int64

  for _, recipient := range recipients {
    recipient := recipient

    pool.Push(ctx, func(ctx context.Context) error {
      err := n.dialer.Send(mail.SendParams{
        From:     params.Settings.SenderEmail,
        Password: params.Settings.SenderPassword,
        To:       recipient,
        Subject:  subject,
        Body:     body,
      })
      if err != nil {
        failed.Add(1)

        log.WithField("recipient", recipient).
          WithField("product_url", params.Product.URL).
          Errorf("notifier: send alert: %v", err)

        return fmt.Errorf("dialer.Send: %w", err)
      }
      sent.Add(1)

      return nil
    })
  }
  pool.StopWait()

  return NotifyResult{
    Sent:   int(sent.Load()),
    Failed: int(failed.Load()),
  }
}

func buildSubject(product models.Product) string {
  return fmt.Sprintf("Restock alert: %s is back in stock", stringer.ToTitle(product.Name))
}

func buildBody(product models.Product, pincode string) string {
  body := fmt.Sprintf("%s is available again", product.Name)

  if product.Price > 0 {
    body += fmt.Sprintf(" at %s", money.String(product.Price))
  }
  if pincode != "" {
    body += fmt.Sprintf(" for delivery pincode %s", pincode)
  }
  body += fmt.Sprintf(".\n\nGrab it here: %s\n", product.URL)

  return body
}
