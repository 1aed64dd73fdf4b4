package telegram

import (
  "context"
  "errors"
  "fmt"

  telegram "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  tginline "github.com/go-telegram/ui/keyboard/inline"
  log "github.com/sirupsen/logrus"

  appmonitor "restockwatch/internal/app/monitor"
  "restockwatch/internal/models"
  "restockwatch/internal/settings"
  "restockwatch/pkg/cache"
)

func (b *Transport) handleStartMenu(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update) {
  chatId, ok := findChatIdInUpdate(update)
  if !ok {
    log.
      WithField("update.message", update.Message).
      WithField("menu", models.StartMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  text := `<b>This bot controls a stock monitor 💬</b>

<b>It emails you when:</b>
1. A sold out product is back in stock 📦

<b>From here you can:</b>
1. Check what is tracked and how 📊
2. Add and remove products 📦
3. Manage alert recipients 📧
4. Change the delivery pincode 📍
5. Tune the check interval ⏱
6. Run a check right now 🔄`

  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   text,
    Reply:  b.newMainKeyboard(bot),
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StartMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.StartMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StartMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) newMainKeyboard(bot *telegram.Bot) *tginline.Keyboard {
  return newInlineKeyboard(bot, models.StartMenu).
    Row().Button("Status 📊", []byte(callbackStatus), b.onStatus).
    Row().Button("Products 📦", []byte(callbackProducts), b.onProducts).
    Row().Button("Emails 📧", []byte(callbackEmails), b.onEmails).
    Row().Button("Pincode 📍", []byte(callbackPincode), b.onPincodePrompt).
    Row().Button("Interval ⏱", []byte(callbackInterval), b.onIntervalMenu).
    Row().Button("Check now 🔄", []byte(callbackCheck), b.onManualCheck)
}

func (b *Transport) showMainMenu(ctx context.Context, bot *telegram.Bot, chatId models.ChatId, text string) {
  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   text,
    Reply:  b.newMainKeyboard(bot),
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StartSilentMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.StartSilentMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StartSilentMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onBackMain(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.StartSilentMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  b.showMainMenu(ctx, bot, chatId, `You are back in the main menu 💬`)
}

func (b *Transport) onStatus(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.StatusMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  stored, err := b.deps.Settings.Load(ctx)
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StatusMenu).
      Errorf("b.deps.Settings.Load: %v", err)

    b.sendErrorMessage(ctx, chatId, models.StatusMenu)
    return
  }

  reply := newInlineKeyboard(bot, models.StatusMenu).
    Row().Button("Back", []byte(callbackBack), b.onBackMain)

  err = b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   makeStatusText(stored),
    Reply:  reply,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StatusMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.StatusMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.StatusMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onProducts(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.ProductsMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  b.showProducts(ctx, bot, chatId)
}

func (b *Transport) showProducts(ctx context.Context, bot *telegram.Bot, chatId models.ChatId) {
  stored, err := b.deps.Settings.Load(ctx)
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductsMenu).
      Errorf("b.deps.Settings.Load: %v", err)

    b.sendErrorMessage(ctx, chatId, models.ProductsMenu)
    return
  }

  b.deps.cache.ProductURLs.DeleteP(chatId)

  text := `<b>Tracked products 📦</b>
`
  reply := newInlineKeyboard(bot, models.ProductsMenu)

  for index, product := range stored.Products {
    text += fmt.Sprintf("\n%d. %s\n%s\n", index+1, product.Name, product.URL)

    b.deps.cache.ProductURLs.Set(cache.Key[models.ChatId, int]{P: chatId, S: index}, product.URL)

    reply = reply.Row().Button(
      fmt.Sprintf("Remove %d ❌", index+1),
      []byte(fmt.Sprintf("%s%d", callbackRemoveProductPrefix, index)),
      b.onRemoveProduct,
    )
  }

  if len(stored.Products) == 0 {
    text += `
Nothing tracked yet 👀`
  }

  reply = reply.
    Row().Button("Add product ➕", []byte(callbackAddProduct), b.onAddProduct).
    Row().Button("Back", []byte(callbackBack), b.onBackMain)

  err = b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   text,
    Reply:  reply,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductsMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.ProductsMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductsMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onRemoveProduct(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, data []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.ProductsMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  index, ok := parseCallbackIndex(data, callbackRemoveProductPrefix)
  if !ok {
    log.
      WithField("chat_id", chatId).
      WithField("callback.data", string(data)).
      Warn("malformed callback data")

    return
  }

  shown, _ := b.deps.cache.ProductURLs.Get(cache.Key[models.ChatId, int]{P: chatId, S: index})

  removed, err := b.deps.Settings.RemoveProduct(ctx, index)
  if err != nil {
    if errors.Is(err, settings.ErrBadIndex) {
      b.showProducts(ctx, bot, chatId)
      return
    }

    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductsMenu).
      Errorf("b.deps.Settings.RemoveProduct: %v", err)

    b.sendErrorMessage(ctx, chatId, models.ProductsMenu)
    return
  }

  if shown != "" && shown != removed.URL {
    log.
      WithField("chat_id", chatId).
      WithField("removed.url", removed.URL).
      WithField("shown.url", shown).
      Warn("product list changed between show and removal")
  }

  err = b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   fmt.Sprintf(`Product removed from tracking 🗑
%s`, removed.Name),
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductsMenu).
      Errorf("b.sendMessage: %v", err)
  }

  b.showProducts(ctx, bot, chatId)
}

func (b *Transport) onAddProduct(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.ProductNameInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   `Enter the product name 📦`,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductNameInputMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.ProductNameInputMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductNameInputMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onEmails(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.EmailsMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  b.showEmails(ctx, bot, chatId)
}

func (b *Transport) showEmails(ctx context.Context, bot *telegram.Bot, chatId models.ChatId) {
  stored, err := b.deps.Settings.Load(ctx)
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailsMenu).
      Errorf("b.deps.Settings.Load: %v", err)

    b.sendErrorMessage(ctx, chatId, models.EmailsMenu)
    return
  }

  b.deps.cache.Recipients.DeleteP(chatId)

  text := `<b>Alert recipients 📧</b>
`
  reply := newInlineKeyboard(bot, models.EmailsMenu)

  for index, email := range stored.Email.RecipientEmails {
    text += fmt.Sprintf("\n%d. %s", index+1, email)

    b.deps.cache.Recipients.Set(cache.Key[models.ChatId, int]{P: chatId, S: index}, email)

    reply = reply.Row().Button(
      fmt.Sprintf("Remove %d ❌", index+1),
      []byte(fmt.Sprintf("%s%d", callbackRemoveEmailPrefix, index)),
      b.onRemoveEmail,
    )
  }

  if len(stored.Email.RecipientEmails) == 0 {
    text += `
Nobody gets alerts yet 👀`
  }

  reply = reply.
    Row().Button("Add email ➕", []byte(callbackAddEmail), b.onAddEmail).
    Row().Button("Back", []byte(callbackBack), b.onBackMain)

  err = b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   text,
    Reply:  reply,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailsMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.EmailsMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailsMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onRemoveEmail(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, data []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.EmailsMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  index, ok := parseCallbackIndex(data, callbackRemoveEmailPrefix)
  if !ok {
    log.
      WithField("chat_id", chatId).
      WithField("callback.data", string(data)).
      Warn("malformed callback data")

    return
  }

  shown, _ := b.deps.cache.Recipients.Get(cache.Key[models.ChatId, int]{P: chatId, S: index})

  removed, err := b.deps.Settings.RemoveRecipient(ctx, index)
  if err != nil {
    if errors.Is(err, settings.ErrBadIndex) {
      b.showEmails(ctx, bot, chatId)
      return
    }

    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailsMenu).
      Errorf("b.deps.Settings.RemoveRecipient: %v", err)

    b.sendErrorMessage(ctx, chatId, models.EmailsMenu)
    return
  }

  if shown != "" && shown != removed {
    log.
      WithField("chat_id", chatId).
      WithField("removed.email", removed).
      WithField("shown.email", shown).
      Warn("recipient list changed between show and removal")
  }

  err = b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   fmt.Sprintf(`Recipient removed 🗑
%s`, removed),
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailsMenu).
      Errorf("b.sendMessage: %v", err)
  }

  b.showEmails(ctx, bot, chatId)
}

func (b *Transport) onAddEmail(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.EmailInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   `Enter the email address for alerts 📧`,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailInputMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.EmailInputMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailInputMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onPincodePrompt(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.PincodeInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   `Enter the delivery pincode, 6 digits 📍`,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.PincodeInputMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.PincodeInputMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.PincodeInputMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onIntervalMenu(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.IntervalMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  reply := newInlineKeyboard(bot, models.IntervalMenu).
    Row().Button("Every 5 min", []byte(callbackSetIntervalPrefix+"5"), b.onSetInterval).
    Row().Button("Every 10 min", []byte(callbackSetIntervalPrefix+"10"), b.onSetInterval).
    Row().Button("Every 15 min", []byte(callbackSetIntervalPrefix+"15"), b.onSetInterval).
    Row().Button("Back", []byte(callbackBack), b.onBackMain)

  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text: `How often should products be checked? ⏱

The new interval applies after the monitor restarts.`,
    Reply: reply,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.IntervalMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.IntervalMenu,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.IntervalMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) onSetInterval(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, data []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.IntervalMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  minutes, ok := parseCallbackIndex(data, callbackSetIntervalPrefix)
  if !ok {
    log.
      WithField("chat_id", chatId).
      WithField("callback.data", string(data)).
      Warn("malformed callback data")

    return
  }

  if err := b.deps.Settings.SetInterval(ctx, minutes); err != nil {
    if errors.Is(err, settings.ErrBadInterval) {
      log.
        WithField("chat_id", chatId).
        WithField("interval.minutes", minutes).
        Warn("interval not allowed")

      return
    }

    log.
      WithField("chat_id", chatId).
      WithField("menu", models.IntervalMenu).
      Errorf("b.deps.Settings.SetInterval: %v", err)

    b.sendErrorMessage(ctx, chatId, models.IntervalMenu)
    return
  }

  b.showMainMenu(ctx, bot, chatId, fmt.Sprintf(`Check interval set to %d minutes ⏱
It applies after the monitor restarts.`, minutes))
}

func (b *Transport) onManualCheck(ctx context.Context, bot *telegram.Bot, message tgmodels.MaybeInaccessibleMessage, _ []byte) {
  chatId, ok := findChatIdInMaybeInaccessible(message)
  if !ok {
    log.
      WithField("inaccessible_message", message).
      WithField("menu", models.StartSilentMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  err := b.deps.Scheduler.Trigger(ctx)

  if errors.Is(err, appmonitor.ErrBusy) {
    b.showMainMenu(ctx, bot, chatId, `A check is already running, hold on 🔄`)
    return
  }
  if err != nil {
    log.
      WithField("chat_id", chatId).
      Errorf("b.deps.Scheduler.Trigger: %v", err)

    b.sendErrorMessage(ctx, chatId, models.StartSilentMenu)
    return
  }

  b.showMainMenu(ctx, bot, chatId, `Check started, alerts follow if anything restocked 🔄`)
}

func (b *Transport) sendErrorMessage(ctx context.Context, chatId models.ChatId, menu models.SessionMenu) {
  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text: `Something went wrong 😟
Try again a bit later.`,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", menu).
      Errorf("b.sendMessage: %v", err)
  }
}
