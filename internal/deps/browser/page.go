package browser

import (
  "context"
  "fmt"

  "github.com/go-rod/rod"
  "github.com/go-rod/rod/lib/proto"

  "restockwatch/internal/detector"
)

type page struct {
  page *rod.Page
}

func (p *page) FindVisibleByText(ctx context.Context, value string) ([]detector.Element, error) {
  found, err := p.findByText(ctx, value)
  if err != nil {
    return nil, err
  }

  out := make([]detector.Element, 0, len(found))
  for _, el := range found {
    out = append(out, el)
  }

  return out, nil
}

func (p *page) FindClickableByText(ctx context.Context, value string) ([]Element, error) {
  return p.findByText(ctx, value)
}

func (p *page) findByText(ctx context.Context, value string) ([]Element, error) {
  found, err := p.page.Context(ctx).ElementsX(textMatchXPath("", value))
  if err != nil {
    return nil, fmt.Errorf("rod.Page.ElementsX: %w", err)
  }

  return filterVisible(found), nil
}

func (p *page) FindVisibleBySelector(ctx context.Context, selector string) (Element, error) {
  has, el, err := p.page.Context(ctx).Timeout(lookupTimeout).Has(selector)
  if err != nil {
    return nil, fmt.Errorf("rod.Page.Has: %w", err)
  }

  if !has {
    return nil, ErrElementNotFound
  }

  if visible, err := el.Visible(); err != nil || !visible {
    return nil, ErrElementNotFound
  }

  return &element{el: el}, nil
}

func (p *page) Close() error {
  if err := p.page.Close(); err != nil {
    return fmt.Errorf("rod.Page.Close: %w", err)
  }
  return nil
}

type element struct {
  el *rod.Element
}

func (e *element) Text() string {
  text, err := e.el.Text()
  if err != nil {
    return ""
  }
  return text
}

func (e *element) VerticalPosition() (float64, error) {
  shape, err := e.el.Shape()
  if err != nil {
    return 0, fmt.Errorf("rod.Element.Shape: %w", err)
  }

  box := shape.Box()
  if box == nil {
    return 0, fmt.Errorf("element has no layout box")
  }

  return box.Y, nil
}

func (e *element) Attribute(name string) (string, error) {
  value, err := e.el.Attribute(name)
  if err != nil {
    return "", fmt.Errorf("rod.Element.Attribute: %w", err)
  }

  if value == nil {
    return "", nil
  }
  return *value, nil
}

func (e *element) Ancestor(levels int) detector.Element {
  current := e.el

  climbed := 0

  for index := 0; index < levels; index++ {
    parent, err := current.Parent()
    if err != nil {
      break
    }
    current = parent
    climbed++
  }

  if climbed == 0 {
    return nil
  }

  return &element{el: current}
}

func (e *element) FindVisibleByText(ctx context.Context, value string) ([]detector.Element, error) {
  found, err := e.el.Context(ctx).ElementsX(textMatchXPath(".", value))
  if err != nil {
    return nil, fmt.Errorf("rod.Element.ElementsX: %w", err)
  }

  visible := filterVisible(found)

  out := make([]detector.Element, 0, len(visible))
  for _, el := range visible {
    out = append(out, el)
  }

  return out, nil
}

func (e *element) Input(value string) error {
  if err := e.el.SelectAllText(); err != nil {
    return fmt.Errorf("rod.Element.SelectAllText: %w", err)
  }

  if err := e.el.Input(value); err != nil {
    return fmt.Errorf("rod.Element.Input: %w", err)
  }

  return nil
}

func (e *element) Click() error {
  if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
    return fmt.Errorf("rod.Element.Click: %w", err)
  }
  return nil
}

func filterVisible(found rod.Elements) []Element {
  out := make([]Element, 0, len(found))

  for _, el := range found {
    visible, err := el.Visible()
    if err != nil || !visible {
      continue
    }
    out = append(out, &element{el: el})
  }

  return out
}
