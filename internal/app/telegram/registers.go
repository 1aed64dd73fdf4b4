package telegram

import (
  "context"

  telegram "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  log "github.com/sirupsen/logrus"

  "restockwatch/internal/models"
)

func (b *Transport) registerHandlers(ctx context.Context) {
  b.registerCommandHandler(ctx, registerCommandHandlerParams{
    Command: "/start",
    Handler: b.handleStartMenu,
  })

  b.registerTextHandler(ctx, registerTextHandlerParams{
    Menus:   []models.SessionMenu{models.PincodeInputMenu},
    Handler: b.handlePincodeInput,
  })

  b.registerTextHandler(ctx, registerTextHandlerParams{
    Menus:   []models.SessionMenu{models.EmailInputMenu},
    Handler: b.handleEmailInput,
  })

  b.registerTextHandler(ctx, registerTextHandlerParams{
    Menus:   []models.SessionMenu{models.ProductNameInputMenu},
    Handler: b.handleProductNameInput,
  })

  b.registerTextHandler(ctx, registerTextHandlerParams{
    Menus:   []models.SessionMenu{models.ProductURLInputMenu},
    Handler: b.handleProductURLInput,
  })
}

type registerCommandHandlerParams struct {
  Command string
  Handler func(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update)
}

func (b *Transport) registerCommandHandler(_ context.Context, params registerCommandHandlerParams) {
  b.deps.Telegram.RegisterHandler(
    telegram.HandlerTypeMessageText, params.Command,
    telegram.MatchTypeExact, params.Handler,
  )
}

type registerTextHandlerParams struct {
  Menus   []models.SessionMenu
  Handler func(ctx context.Context, bot *telegram.Bot, update *tgmodels.Update)
}

func (b *Transport) registerTextHandler(ctx context.Context, params registerTextHandlerParams) {
  b.deps.Telegram.RegisterHandlerMatchFunc(
    func(update *tgmodels.Update) bool {
      chatId, ok := findChatIdInUpdate(update)
      if !ok {
        return false
      }

      session, err := b.findSession(ctx, chatId)
      if err != nil {
        log.
          WithField("chat_id", chatId).
          WithField("menus", params.Menus).
          Errorf("b.findSession: %v", err)

        return false
      }

      for _, menu := range params.Menus {
        if session.Message.Menu == menu {
          return true
        }
      }

      return false
    },
    params.Handler,
  )
}
