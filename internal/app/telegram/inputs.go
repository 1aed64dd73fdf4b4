package telegram

import (
  "context"
  "errors"
  "fmt"

  telegram "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  log "github.com/sirupsen/logrus"

  "restockwatch/internal/models"
  "restockwatch/internal/settings"
)

// Input handlers receive free text routed by the session menu. A failed
// validation re-prompts and leaves the session untouched, so the next
// message lands in the same handler.

func (b *Transport) handlePincodeInput(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update) {
  chatId, ok := findChatIdInUpdate(update)
  if !ok {
    log.
      WithField("update.message", update.Message).
      WithField("menu", models.PincodeInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  pincode, errMessage := parsePincode(update.Message.Text)

  if errMessage != "" {
    err := b.sendMessage(ctx, sendMessageParams{
      ChatId: chatId,
      Text:   errMessage,
    })
    if err != nil {
      log.
        WithField("chat_id", chatId).
        WithField("menu", models.PincodeInputMenu).
        Errorf("b.sendMessage: %v", err)
    }

    return
  }

  if err := b.deps.Settings.SetPincode(ctx, pincode); err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.PincodeInputMenu).
      Errorf("b.deps.Settings.SetPincode: %v", err)

    b.sendErrorMessage(ctx, chatId, models.PincodeInputMenu)
    return
  }

  b.showMainMenu(ctx, bot, chatId, fmt.Sprintf(`Delivery pincode set to %s 📍
It applies from the next check on.`, pincode))
}

func (b *Transport) handleEmailInput(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update) {
  chatId, ok := findChatIdInUpdate(update)
  if !ok {
    log.
      WithField("update.message", update.Message).
      WithField("menu", models.EmailInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  email, errMessage := parseRecipientEmail(update.Message.Text)

  if errMessage != "" {
    err := b.sendMessage(ctx, sendMessageParams{
      ChatId: chatId,
      Text:   errMessage,
    })
    if err != nil {
      log.
        WithField("chat_id", chatId).
        WithField("menu", models.EmailInputMenu).
        Errorf("b.sendMessage: %v", err)
    }

    return
  }

  err := b.deps.Settings.AddRecipient(ctx, email)

  if errors.Is(err, settings.ErrRecipientExists) {
    b.showMainMenu(ctx, bot, chatId, fmt.Sprintf(`%s already gets alerts 👀`, email))
    return
  }
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.EmailInputMenu).
      Errorf("b.deps.Settings.AddRecipient: %v", err)

    b.sendErrorMessage(ctx, chatId, models.EmailInputMenu)
    return
  }

  b.showMainMenu(ctx, bot, chatId, fmt.Sprintf(`%s will now get restock alerts 📧`, email))
}

func (b *Transport) handleProductNameInput(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update) {
  chatId, ok := findChatIdInUpdate(update)
  if !ok {
    log.
      WithField("update.message", update.Message).
      WithField("menu", models.ProductNameInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  name, errMessage := parseProductName(update.Message.Text)

  if errMessage != "" {
    err := b.sendMessage(ctx, sendMessageParams{
      ChatId: chatId,
      Text:   errMessage,
    })
    if err != nil {
      log.
        WithField("chat_id", chatId).
        WithField("menu", models.ProductNameInputMenu).
        Errorf("b.sendMessage: %v", err)
    }

    return
  }

  err := b.sendMessage(ctx, sendMessageParams{
    ChatId: chatId,
    Text:   `Now send the product page link 🔗`,
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductURLInputMenu).
      Errorf("b.sendMessage: %v", err)

    return
  }

  err = b.upsertSession(ctx, upsertSessionParams{
    ChatId: chatId,
    Menu:   models.ProductURLInputMenu,
    Draft:  &models.ProductDraft{Name: name},
  })
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductURLInputMenu).
      Errorf("b.upsertSession: %v", err)

    return
  }
}

func (b *Transport) handleProductURLInput(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update) {
  chatId, ok := findChatIdInUpdate(update)
  if !ok {
    log.
      WithField("update.message", update.Message).
      WithField("menu", models.ProductURLInputMenu).
      Warn("chat_id not found")

    return
  }

  if !b.isAllowedChat(chatId) {
    b.rejectChat(ctx, chatId)
    return
  }

  session, err := b.findSession(ctx, chatId)
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductURLInputMenu).
      Errorf("b.findSession: %v", err)

    b.sendErrorMessage(ctx, chatId, models.ProductURLInputMenu)
    return
  }

  if session.Draft == nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductURLInputMenu).
      Warn("product draft missing")

    b.showMainMenu(ctx, bot, chatId, `Let's start the product over, something got lost 😟`)
    return
  }

  url, errMessage := parseProductURL(update.Message.Text)

  if errMessage != "" {
    err = b.sendMessage(ctx, sendMessageParams{
      ChatId: chatId,
      Text:   errMessage,
    })
    if err != nil {
      log.
        WithField("chat_id", chatId).
        WithField("menu", models.ProductURLInputMenu).
        Errorf("b.sendMessage: %v", err)
    }

    return
  }

  err = b.deps.Settings.AddProduct(ctx, models.Product{
    Name: session.Draft.Name,
    URL:  url,
  })

  if errors.Is(err, settings.ErrProductExists) {
    b.showMainMenu(ctx, bot, chatId, `This product is already tracked 👀`)
    return
  }
  if err != nil {
    log.
      WithField("chat_id", chatId).
      WithField("menu", models.ProductURLInputMenu).
      Errorf("b.deps.Settings.AddProduct: %v", err)

    b.sendErrorMessage(ctx, chatId, models.ProductURLInputMenu)
    return
  }

  b.showMainMenu(ctx, bot, chatId, fmt.Sprintf(`%s is now tracked 📦
It will be checked on the next cycle.`, session.Draft.Name))
}
