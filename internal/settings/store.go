package settings

import (
  "context"
  "errors"
  "fmt"
  "sync"

  set "github.com/deckarep/golang-set/v2"

  "restockwatch/internal/deps/storage/mongodb"
  "restockwatch/internal/models"
)

const (
  databaseName   = "restockwatch"
  collectionName = "settings"
  documentId     = "settings"
)

var (
  ErrNotFound        = errors.New("settings document not found")
  ErrProductExists   = errors.New("product already tracked")
  ErrRecipientExists = errors.New("recipient already registered")
  ErrBadIndex        = errors.New("index out of range")
  ErrBadInterval     = errors.New("interval not allowed")
)

var allowedIntervals = set.NewSet(5, 10, 15)

type storage interface {
  Get(ctx context.Context, params mongodb.GetParams) (any, error)
  Replace(ctx context.Context, params mongodb.ReplaceParams) error
}

// document wraps the settings with a fixed storage identity: the whole
// configuration lives in a single replaceable record.
type document struct {
  Id       string          `bson:"_id" json:"_id"`
  Settings models.Settings `bson:"settings" json:"settings"`
}

// Store owns the persisted configuration. Every mutation runs the whole
// read-modify-write sequence under one mutex: the monitor cycle and the
// remote controller mutate the same document and must not interleave.
type Store struct {
  mu   sync.Mutex
  deps Dependencies
}

type Dependencies struct {
  Storage storage
}

func NewStore(deps Dependencies) *Store {
  return &Store{deps: deps}
}

func (s *Store) Load(ctx context.Context) (*models.Settings, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*models.Settings, error) {
  res, err := s.deps.Storage.Get(ctx, mongodb.GetParams{
    CommonParams: mongodb.CommonParams{
      Database:   databaseName,
      Collection: collectionName,
      StructType: document{},
    },
    Filters: map[string]any{
      "_id": documentId,
    },
  })
  if err != nil {
    if errors.Is(err, mongodb.ErrNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("s.deps.Storage.Get: %w", err)
  }

  doc, ok := res.(*document)
  if !ok {
    return nil, fmt.Errorf("cast %v with type: %[1]T to: %T failed", res, new(document))
  }

  return &doc.Settings, nil
}

// Update applies mutate to the current document and writes the whole
// document back. Partial-field updates do not exist for this store.
func (s *Store) Update(ctx context.Context, mutate func(settings *models.Settings) error) error {
  s.mu.Lock()
  defer s.mu.Unlock()

  stored, err := s.load(ctx)
  if err != nil {
    if !errors.Is(err, ErrNotFound) {
      return fmt.Errorf("s.load: %w", err)
    }
    stored = defaultSettings()
  }

  if err = mutate(stored); err != nil {
    return err
  }

  err = s.deps.Storage.Replace(ctx, mongodb.ReplaceParams{
    GetParams: mongodb.GetParams{
      CommonParams: mongodb.CommonParams{
        Database:   databaseName,
        Collection: collectionName,
        StructType: document{},
      },
      Filters: map[string]any{
        "_id": documentId,
      },
    },
    Document: document{
      Id:       documentId,
      Settings: *stored,
    },
  })
  if err != nil {
    return fmt.Errorf("s.deps.Storage.Replace: %w", err)
  }

  return nil
}

// Seed creates the settings document on first boot.
func (s *Store) Seed(ctx context.Context) error {
  return s.Update(ctx, func(_ *models.Settings) error {
    return nil
  })
}

func defaultSettings() *models.Settings {
  return &models.Settings{
    Monitoring: models.MonitoringSettings{
      CheckIntervalMinutes: models.DefaultCheckIntervalMinutes,
    },
  }
}
