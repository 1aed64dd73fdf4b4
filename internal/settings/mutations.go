package settings

import (
  "context"
  "slices"

  set "github.com/deckarep/golang-set/v2"

  "restockwatch/internal/models"
)

func (s *Store) SetPincode(ctx context.Context, pincode string) error {
  return s.Update(ctx, func(settings *models.Settings) error {
    settings.Pincode = pincode
    return nil
  })
}

func (s *Store) SetInterval(ctx context.Context, minutes int) error {
  if !allowedIntervals.ContainsOne(minutes) {
    return ErrBadInterval
  }

  return s.Update(ctx, func(settings *models.Settings) error {
    settings.Monitoring.CheckIntervalMinutes = minutes
    return nil
  })
}

func (s *Store) AddProduct(ctx context.Context, product models.Product) error {
  product.URL = models.NormalizeProductURL(product.URL)

  return s.Update(ctx, func(settings *models.Settings) error {
    for _, stored := range settings.Products {
      if stored.URL == product.URL {
        return ErrProductExists
      }
    }

    settings.Products = append(settings.Products, product)
    return nil
  })
}

func (s *Store) RemoveProduct(ctx context.Context, index int) (removed models.Product, err error) {
  err = s.Update(ctx, func(settings *models.Settings) error {
    if index < 0 || index >= len(settings.Products) {
      return ErrBadIndex
    }

    removed = settings.Products[index]
    settings.Products = slices.Delete(settings.Products, index, index+1)

    return nil
  })

  return removed, err
}

func (s *Store) AddRecipient(ctx context.Context, email string) error {
  return s.Update(ctx, func(settings *models.Settings) error {
    stored := set.NewSet(settings.Email.RecipientEmails...)

    if stored.ContainsOne(email) {
      return ErrRecipientExists
    }

    settings.Email.RecipientEmails = append(settings.Email.RecipientEmails, email)
    return nil
  })
}

func (s *Store) RemoveRecipient(ctx context.Context, index int) (removed string, err error) {
  err = s.Update(ctx, func(settings *models.Settings) error {
    if index < 0 || index >= len(settings.Email.RecipientEmails) {
      return ErrBadIndex
    }

    removed = settings.Email.RecipientEmails[index]
    settings.Email.RecipientEmails = slices.Delete(settings.Email.RecipientEmails, index, index+1)

    return nil
  })

  return removed, err
}
