package telegram

import (
  "context"
  "fmt"
  "testing"

  telegram "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "restockwatch/internal/deps/storage/mongodb"
  "restockwatch/internal/models"
)

const allowedChatId models.ChatId = 100

type fakeSender struct {
  sent []*telegram.SendMessageParams
}

func (f *fakeSender) SendMessage(_ context.Context, params *telegram.SendMessageParams) (*tgmodels.Message, error) {
  f.sent = append(f.sent, params)
  return &tgmodels.Message{}, nil
}

func (f *fakeSender) lastText(t *testing.T) string {
  t.Helper()
  require.NotEmpty(t, f.sent)

  return f.sent[len(f.sent)-1].Text
}

type fakeSessionStorage struct {
  byChat map[models.ChatId]models.Session
}

func newFakeSessionStorage() *fakeSessionStorage {
  return &fakeSessionStorage{byChat: map[models.ChatId]models.Session{}}
}

func (f *fakeSessionStorage) Get(_ context.Context, params mongodb.GetParams) (any, error) {
  chatId, ok := params.Filters["chat_id"].(models.ChatId)
  if !ok {
    return nil, fmt.Errorf("cast %v with type: %[1]T to: %T failed", params.Filters["chat_id"], models.ChatId(0))
  }

  session, found := f.byChat[chatId]
  if !found {
    return nil, mongodb.ErrNotFound
  }

  out := session
  if session.Draft != nil {
    draft := *session.Draft
    out.Draft = &draft
  }

  return &out, nil
}

func (f *fakeSessionStorage) Replace(_ context.Context, params mongodb.ReplaceParams) error {
  session, ok := params.Document.(models.Session)
  if !ok {
    return fmt.Errorf("cast %v with type: %[1]T to: %T failed", params.Document, models.Session{})
  }

  f.byChat[session.ChatId] = session

  return nil
}

type fakeSettingsStore struct {
  pincode    string
  intervals  []int
  products   []models.Product
  recipients []string
}

func (f *fakeSettingsStore) Load(context.Context) (*models.Settings, error) {
  return &models.Settings{
    Pincode:  f.pincode,
    Products: f.products,
    Email:    models.EmailSettings{RecipientEmails: f.recipients},
  }, nil
}

func (f *fakeSettingsStore) SetPincode(_ context.Context, pincode string) error {
  f.pincode = pincode
  return nil
}

func (f *fakeSettingsStore) SetInterval(_ context.Context, minutes int) error {
  f.intervals = append(f.intervals, minutes)
  return nil
}

func (f *fakeSettingsStore) AddProduct(_ context.Context, product models.Product) error {
  f.products = append(f.products, product)
  return nil
}

func (f *fakeSettingsStore) RemoveProduct(_ context.Context, index int) (models.Product, error) {
  removed := f.products[index]
  f.products = append(f.products[:index], f.products[index+1:]...)

  return removed, nil
}

func (f *fakeSettingsStore) AddRecipient(_ context.Context, email string) error {
  f.recipients = append(f.recipients, email)
  return nil
}

func (f *fakeSettingsStore) RemoveRecipient(_ context.Context, index int) (string, error) {
  removed := f.recipients[index]
  f.recipients = append(f.recipients[:index], f.recipients[index+1:]...)

  return removed, nil
}

type fakeTrigger struct {
  calls int
}

func (f *fakeTrigger) Trigger(context.Context) error {
  f.calls++
  return nil
}

type transportFixture struct {
  transport *Transport
  bot       *telegram.Bot
  sender    *fakeSender
  sessions  *fakeSessionStorage
  store     *fakeSettingsStore
  trigger   *fakeTrigger
}

func newTransportFixture(t *testing.T) *transportFixture {
  t.Helper()

  bot, err := telegram.New("100000:testing-token", telegram.WithSkipGetMe())
  require.NoError(t, err)

  f := &transportFixture{
    bot:      bot,
    sender:   &fakeSender{},
    sessions: newFakeSessionStorage(),
    store:    &fakeSettingsStore{},
    trigger:  &fakeTrigger{},
  }

  f.transport = NewTransport(Dependencies{
    Telegram:  bot,
    Mongodb:   f.sessions,
    Settings:  f.store,
    Scheduler: f.trigger,
    ChatIds:   []models.ChatId{allowedChatId},
    sender:    f.sender,
  })

  return f
}

func (f *transportFixture) seedSession(session models.Session) {
  f.sessions.byChat[session.ChatId] = session
}

func textUpdate(chatId models.ChatId, text string) *tgmodels.Update {
  return &tgmodels.Update{
    Message: &tgmodels.Message{
      Text: text,
      Chat: tgmodels.Chat{ID: chatId},
    },
  }
}

func callbackMessage(chatId models.ChatId) tgmodels.MaybeInaccessibleMessage {
  return tgmodels.MaybeInaccessibleMessage{
    Message: &tgmodels.Message{
      Chat: tgmodels.Chat{ID: chatId},
    },
  }
}

func TestPincodeInputRejectedKeepsAwaitingState(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.seedSession(models.Session{
    ChatId:  allowedChatId,
    Message: models.SessionMessage{Menu: models.PincodeInputMenu},
  })

  f.transport.handlePincodeInput(ctx, f.bot, textUpdate(allowedChatId, "12AB56"))

  assert.Empty(t, f.store.pincode)
  assert.Equal(t, models.PincodeInputMenu, f.sessions.byChat[allowedChatId].Message.Menu)
  assert.Contains(t, f.sender.lastText(t), "Try again")

  f.transport.handlePincodeInput(ctx, f.bot, textUpdate(allowedChatId, "500018"))

  assert.Equal(t, "500018", f.store.pincode)
  assert.Equal(t, models.StartSilentMenu, f.sessions.byChat[allowedChatId].Message.Menu)
}

func TestProductNameInputStoresDraft(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.seedSession(models.Session{
    ChatId:  allowedChatId,
    Message: models.SessionMessage{Menu: models.ProductNameInputMenu},
  })

  f.transport.handleProductNameInput(ctx, f.bot, textUpdate(allowedChatId, "High Protein Buttermilk"))

  stored := f.sessions.byChat[allowedChatId]

  assert.Equal(t, models.ProductURLInputMenu, stored.Message.Menu)
  require.NotNil(t, stored.Draft)
  assert.Equal(t, "High Protein Buttermilk", stored.Draft.Name)
  assert.Empty(t, f.store.products)
}

func TestProductURLInputConsumesDraft(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.seedSession(models.Session{
    ChatId:  allowedChatId,
    Message: models.SessionMessage{Menu: models.ProductURLInputMenu},
    Draft:   &models.ProductDraft{Name: "High Protein Buttermilk"},
  })

  f.transport.handleProductURLInput(ctx, f.bot,
    textUpdate(allowedChatId, "https://shop.example.com/product/buttermilk"))

  require.Len(t, f.store.products, 1)
  assert.Equal(t, "High Protein Buttermilk", f.store.products[0].Name)
  assert.Equal(t, "https://shop.example.com/product/buttermilk", f.store.products[0].URL)

  stored := f.sessions.byChat[allowedChatId]

  assert.Equal(t, models.StartSilentMenu, stored.Message.Menu)
  assert.Nil(t, stored.Draft)
}

func TestProductURLInputInvalidKeepsDraft(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.seedSession(models.Session{
    ChatId:  allowedChatId,
    Message: models.SessionMessage{Menu: models.ProductURLInputMenu},
    Draft:   &models.ProductDraft{Name: "High Protein Buttermilk"},
  })

  f.transport.handleProductURLInput(ctx, f.bot, textUpdate(allowedChatId, "not a link"))

  assert.Empty(t, f.store.products)
  assert.Contains(t, f.sender.lastText(t), "Try again")

  stored := f.sessions.byChat[allowedChatId]

  assert.Equal(t, models.ProductURLInputMenu, stored.Message.Menu)
  require.NotNil(t, stored.Draft)
  assert.Equal(t, "High Protein Buttermilk", stored.Draft.Name)
}

func TestProductURLInputWithoutDraftRestarts(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.seedSession(models.Session{
    ChatId:  allowedChatId,
    Message: models.SessionMessage{Menu: models.ProductURLInputMenu},
  })

  f.transport.handleProductURLInput(ctx, f.bot,
    textUpdate(allowedChatId, "https://shop.example.com/product/buttermilk"))

  assert.Empty(t, f.store.products)
  assert.Equal(t, models.StartSilentMenu, f.sessions.byChat[allowedChatId].Message.Menu)
}

func TestUnauthorizedManualCheckNotTriggered(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.transport.onManualCheck(ctx, f.bot, callbackMessage(999), []byte(callbackCheck))

  assert.Zero(t, f.trigger.calls)
  assert.Equal(t, accessDeniedText, f.sender.lastText(t))
  assert.Empty(t, f.sessions.byChat)
}

func TestManualCheckTriggersScheduler(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.transport.onManualCheck(ctx, f.bot, callbackMessage(allowedChatId), []byte(callbackCheck))

  assert.Equal(t, 1, f.trigger.calls)
  assert.Contains(t, f.sender.lastText(t), "Check started")
}

func TestUnauthorizedTextInputIgnored(t *testing.T) {
  f := newTransportFixture(t)
  ctx := context.Background()

  f.transport.handlePincodeInput(ctx, f.bot, textUpdate(999, "500018"))

  assert.Empty(t, f.store.pincode)
  assert.Equal(t, accessDeniedText, f.sender.lastText(t))
}
