package telegram

import (
  "context"

  set "github.com/deckarep/golang-set/v2"
  telegram "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"

  "restockwatch/internal/deps/storage/mongodb"
  "restockwatch/internal/models"
  "restockwatch/pkg/cache"
)

type checkTrigger interface {
  Trigger(ctx context.Context) error
}

type messageSender interface {
  SendMessage(ctx context.Context, params *telegram.SendMessageParams) (*tgmodels.Message, error)
}

type sessionStorage interface {
  Get(ctx context.Context, params mongodb.GetParams) (any, error)
  Replace(ctx context.Context, params mongodb.ReplaceParams) error
}

type settingsStore interface {
  Load(ctx context.Context) (*models.Settings, error)
  SetPincode(ctx context.Context, pincode string) error
  SetInterval(ctx context.Context, minutes int) error
  AddProduct(ctx context.Context, product models.Product) error
  RemoveProduct(ctx context.Context, index int) (models.Product, error)
  AddRecipient(ctx context.Context, email string) error
  RemoveRecipient(ctx context.Context, index int) (string, error)
}

type Transport struct {
  deps Dependencies
}

type Dependencies struct {
  Telegram  *telegram.Bot
  Mongodb   sessionStorage
  Settings  settingsStore
  Scheduler checkTrigger

  // Chats allowed to control the monitor. Everyone else gets a fixed
  // rejection.
  ChatIds []models.ChatId

  sender  messageSender
  allowed set.Set[models.ChatId]
  cache   Cache
}

// Cache remembers what list positions were shown to a chat, so a
// removal callback can be checked against the item it was issued for.
type Cache struct {
  ProductURLs *cache.Cache[models.ChatId, int, string]
  Recipients  *cache.Cache[models.ChatId, int, string]
}

func NewTransport(deps Dependencies) *Transport {
  if deps.sender == nil {
    deps.sender = deps.Telegram
  }

  deps.allowed = set.NewSet(deps.ChatIds...)

  deps.cache = Cache{
    ProductURLs: cache.NewCache[models.ChatId, int, string](),
    Recipients:  cache.NewCache[models.ChatId, int, string](),
  }

  return &Transport{deps: deps}
}

func (b *Transport) Start(ctx context.Context) {
  b.registerHandlers(ctx)

  go b.deps.Telegram.Start(ctx)
}
