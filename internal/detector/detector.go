package detector

import (
  "context"

  log "github.com/sirupsen/logrus"

  "restockwatch/internal/models"
)

const (
  cartButtonText = "add to cart"
  soldOutText    = "sold out"

  // Markers are searched in the container this many levels above the
  // cart button; badges for unrelated products live further away.
  ancestorLevels      = 3
  titleAncestorLevels = 2

  // Vertical distance within which a sold out marker is attributed to
  // the cart button rather than to another section of the page.
  proximityThreshold = 200.0

  // Elements with shorter text are fragments, not the product title.
  titleMinTextRunes = 20
)

var disabledClassVocabulary = []string{"sold", "out", "unavailable", "disabled"}

// Page is the capability surface the detector needs from a rendered
// product page. Implementations must return visible elements in document
// order and match text case-insensitively.
type Page interface {
  FindVisibleByText(ctx context.Context, value string) ([]Element, error)
}

type Element interface {
  Text() string
  // VerticalPosition reports the top coordinate of the element box.
  VerticalPosition() (float64, error)
  // Attribute returns "" for an absent attribute.
  Attribute(name string) (string, error)
  // Ancestor walks the given number of levels up the parent chain,
  // clamping at the document root. Returns nil for a detached element.
  Ancestor(levels int) Element
  // FindVisibleByText searches the element subtree.
  FindVisibleByText(ctx context.Context, value string) ([]Element, error)
}

type Detector struct{}

func NewDetector() *Detector {
  return &Detector{}
}

// Detect classifies a rendered product page. Faults in any sub-check
// degrade the verdict toward out of stock instead of propagating: a
// missed cycle is cheaper than a false restock alert.
func (d *Detector) Detect(ctx context.Context, page Page, product models.Product) models.Verdict {
  buttons, err := page.FindVisibleByText(ctx, cartButtonText)
  if err != nil {
    log.
      WithField("product.url", product.URL).
      Errorf("page.FindVisibleByText: %v", err)

    return models.VerdictUnknown
  }

  if len(buttons) == 0 {
    log.
      WithField("product.url", product.URL).
      Info("no cart button found: treating as sold out")

    return models.VerdictOutOfStock
  }

  // Single-product pages expose at most one primary affordance:
  // the first match in document order is the canonical one.
  button := buttons[0]

  if verdict, decided := d.checkNearbyMarker(ctx, button, product); decided {
    return verdict
  }

  if verdict, decided := d.checkDisabledButton(ctx, page, button, product); decided {
    return verdict
  }

  return models.VerdictInStock
}

func (d *Detector) checkNearbyMarker(ctx context.Context, button Element, product models.Product) (models.Verdict, bool) {
  container := button.Ancestor(ancestorLevels)
  if container == nil {
    return "", false
  }

  markers, err := container.FindVisibleByText(ctx, soldOutText)
  if err != nil {
    log.
      WithField("product.url", product.URL).
      WithField("step", "nearby_marker").
      Errorf("container.FindVisibleByText: %v", err)

    return "", false
  }

  if len(markers) == 0 {
    return "", false
  }

  buttonY, err := button.VerticalPosition()
  if err != nil {
    // Marker present but positions unreadable: fail toward sold out.
    log.
      WithField("product.url", product.URL).
      WithField("step", "nearby_marker").
      Warnf("button.VerticalPosition: %v", err)

    return models.VerdictOutOfStock, true
  }

  for _, marker := range markers {
    markerY, err := marker.VerticalPosition()
    if err != nil {
      log.
        WithField("product.url", product.URL).
        WithField("step", "nearby_marker").
        Warnf("marker.VerticalPosition: %v", err)

      return models.VerdictOutOfStock, true
    }

    distance := markerY - buttonY
    if distance < 0 {
      distance = -distance
    }

    if distance < proximityThreshold {
      log.
        WithField("product.url", product.URL).
        WithField("marker.distance", distance).
        Info("sold out marker near cart button")

      return models.VerdictOutOfStock, true
    }
  }

  return "", false
}

func (d *Detector) checkDisabledButton(ctx context.Context, page Page, button Element, product models.Product) (models.Verdict, bool) {
  disabled, err := button.Attribute("disabled")
  if err != nil {
    log.
      WithField("product.url", product.URL).
      WithField("step", "disabled_button").
      Errorf("button.Attribute: %v", err)

    return "", false
  }

  class, err := button.Attribute("class")
  if err != nil {
    log.
      WithField("product.url", product.URL).
      WithField("step", "disabled_button").
      Errorf("button.Attribute: %v", err)

    return "", false
  }

  if disabled != "true" || !containsVocabulary(class) {
    return "", false
  }

  // The disabled state alone is ambiguous: cross-check for a sold out
  // marker in the product title area before trusting it.
  if d.soldOutNearTitle(ctx, page, product) {
    return models.VerdictOutOfStock, true
  }

  return "", false
}

func (d *Detector) soldOutNearTitle(ctx context.Context, page Page, product models.Product) bool {
  titles, err := page.FindVisibleByText(ctx, product.Name)
  if err != nil {
    log.
      WithField("product.url", product.URL).
      WithField("step", "title_cross_check").
      Errorf("page.FindVisibleByText: %v", err)

    return false
  }

  for _, title := range titles {
    if runeCount(title.Text()) <= titleMinTextRunes {
      continue
    }

    area := title.Ancestor(titleAncestorLevels)
    if area == nil {
      continue
    }

    markers, err := area.FindVisibleByText(ctx, soldOutText)
    if err != nil {
      log.
        WithField("product.url", product.URL).
        WithField("step", "title_cross_check").
        Errorf("area.FindVisibleByText: %v", err)

      continue
    }

    if len(markers) > 0 {
      log.
        WithField("product.url", product.URL).
        Info("sold out marker in title area")

      return true
    }

    // Only the main title is checked; shorter matches were fragments.
    break
  }

  return false
}
