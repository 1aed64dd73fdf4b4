package telegram

import (
  "context"
  "fmt"
  "strings"
  "time"

  telegram "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  tginline "github.com/go-telegram/ui/keyboard/inline"
  "github.com/samber/lo"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"

  "restockwatch/internal/deps/storage/mongodb"
  "restockwatch/internal/models"
  "restockwatch/pkg/money"
  "restockwatch/pkg/stringer"
  "restockwatch/pkg/validator"
)

const (
  callbackStatus     = "status"
  callbackProducts   = "manage_products"
  callbackEmails     = "manage_emails"
  callbackPincode    = "change_pincode"
  callbackInterval   = "manage_interval"
  callbackCheck      = "manual_check"
  callbackAddProduct = "add_product"
  callbackAddEmail   = "add_email"
  callbackBack       = "back_main"

  callbackRemoveProductPrefix = "remove_product:"
  callbackRemoveEmailPrefix   = "remove_email:"
  callbackSetIntervalPrefix   = "set_interval:"
)

const accessDeniedText = `This bot controls a private stock monitor 🔒
Access denied.`

func (b *Transport) isAllowedChat(chatId models.ChatId) bool {
  return b.deps.allowed.ContainsOne(chatId)
}

func (b *Transport) rejectChat(ctx context.Context, chatId models.ChatId) {
  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   accessDeniedText,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      Errorf("b.sendMessage: %v", err)
  }
}

type sendMessageParams struct {
  ChatId models.ChatId
  Text   string
  Reply  tgmodels.ReplyMarkup
}

func (b *Transport) sendMessage(ctx context.Context, params sendMessageParams) error {
  _, err := b.deps.sender.SendMessage(ctx, &telegram.SendMessageParams{
    ChatID:      params.ChatId,
    Text:        params.Text,
    ParseMode:   tgmodels.ParseModeHTML,
    ReplyMarkup: params.Reply,
    LinkPreviewOptions: &tgmodels.LinkPreviewOptions{
      IsDisabled: lo.ToPtr(true),
    },
  })
  if err != nil {
    return fmt.Errorf("b.deps.sender.SendMessage: %w", err)
  }

  return nil
}

func (b *Transport) findSession(ctx context.Context, chatId models.ChatId) (*models.Session, error) {
  res, err := b.deps.Mongodb.Get(ctx, mongodb.GetParams{
    CommonParams: mongodb.CommonParams{
      Database:   "restockwatch",
      Collection: "sessions",
      StructType: models.Session{},
    },
    Filters: map[string]any{
      "chat_id": chatId,
    },
  })
  if err != nil {
    return nil, fmt.Errorf("b.deps.Mongodb.Get: %w", err)
  }

  session, ok := res.(*models.Session)
  if !ok {
    return nil, fmt.Errorf("cast %v with type: %[1]T to: %T failed", res, new(models.Session))
  }

  return session, nil
}

type upsertSessionParams struct {
  ChatId models.ChatId
  Menu   models.SessionMenu
  Draft  *models.ProductDraft
}

func (b *Transport) upsertSession(ctx context.Context, params upsertSessionParams) error {
  session := models.Session{
    ChatId: params.ChatId,
    Message: models.SessionMessage{
      Menu: params.Menu,
    },
    Draft:     params.Draft,
    UpdatedAt: time.Now(),
  }

  // Whole-document write: a session without a draft must also clear
  // the draft stored before it.
  err := b.deps.Mongodb.Replace(ctx, mongodb.ReplaceParams{
    GetParams: mongodb.GetParams{
      CommonParams: mongodb.CommonParams{
        Database:   "restockwatch",
        Collection: "sessions",
        StructType: models.Session{},
      },
      Filters: map[string]any{
        "chat_id": session.ChatId,
      },
    },
    Document: session,
  })
  if err != nil {
    return fmt.Errorf("b.deps.Mongodb.Replace: %w", err)
  }

  return nil
}

func parsePincode(fields string) (pincode string, err string) {
  pincode = stringer.SanitizeString(fields)

  if e := validator.Pincode(pincode); e != nil {
    err = `A pincode consists of exactly 6 digits 😟

Example 💬
110001

Try again 😉`
    return "", err
  }

  return pincode, ""
}

func parseRecipientEmail(fields string) (email string, err string) {
  email = stringer.SanitizeString(fields)

  if e := validator.Email(email); e != nil {
    err = `This does not look like an email address 😟

Example 💬
alerts@example.com

Try again 😉`
    return "", err
  }

  return email, ""
}

func parseProductName(fields string) (name string, err string) {
  name = stringer.SanitizeString(fields)

  if e := validator.ProductName(name); e != nil {
    err = `A product needs a readable name, at least 3 characters 😟

Example 💬
Amul High Protein Buttermilk

Try again 😉`
    return "", err
  }

  return name, ""
}

func parseProductURL(fields string) (url string, err string) {
  url = stringer.ExtractURL(fields)

  if e := validator.URL(url); e != nil {
    err = `The link must start with http:// or https:// 😟

Example 💬
https://shop.amul.com/en/product/amul-high-protein-buttermilk

Try again 😉`
    return "", err
  }

  return url, ""
}

func parseCallbackIndex(data []byte, prefix string) (int, bool) {
  value, found := strings.CutPrefix(string(data), prefix)
  if !found {
    return 0, false
  }

  index, err := cast.ToIntE(value)
  if err != nil {
    return 0, false
  }

  return index, true
}

func makeStatusText(stored *models.Settings) string {
  text := `<b>Monitor status 📊</b>
`

  if len(stored.Products) == 0 {
    text += `
No products tracked yet 📦`
  } else {
    text += `
<b>Tracked products 📦</b>
`
    for index, product := range stored.Products {
      text += fmt.Sprintf("%d. %s", index+1, product.Name)

      if product.Price > 0 {
        text += fmt.Sprintf(" (%s)", money.String(product.Price))
      }
      text += "\n"
    }
  }

  if len(stored.Email.RecipientEmails) == 0 {
    text += `
No alert recipients yet 📧`
  } else {
    text += `
<b>Alert recipients 📧</b>
`
    for index, email := range stored.Email.RecipientEmails {
      text += fmt.Sprintf("%d. %s\n", index+1, email)
    }
  }

  text += fmt.Sprintf(`
<b>Delivery pincode 📍</b> %s
<b>Check interval ⏱</b> every %d min`,
    lo.Ternary(stored.Pincode != "", stored.Pincode, "not set"),
    stored.Interval(),
  )

  return text
}

func findChatIdInUpdate(update *tgmodels.Update) (models.ChatId, bool) {
  if update != nil && update.Message != nil && update.Message.Chat.ID != 0 {
    return update.Message.Chat.ID, true
  }
  return 0, false
}

func findChatIdInMaybeInaccessible(msg tgmodels.MaybeInaccessibleMessage) (models.ChatId, bool) {
  if msg.Message != nil && msg.Message.Chat.ID != 0 {
    return msg.Message.Chat.ID, true
  }
  if msg.InaccessibleMessage != nil && msg.InaccessibleMessage.Chat.ID != 0 {
    return msg.InaccessibleMessage.Chat.ID, true
  }
  return 0, false
}

func newInlineKeyboard(bot *telegram.Bot, prefix string) *tginline.Keyboard {
  return tginline.New(bot,
    tginline.OnError(func(err error) {
      log.Errorf("telegram.InlineKeyboard: %v", err)
    }),
    tginline.WithPrefix(prefix),
    tginline.NoDeleteAfterClick(),
  )
}
