package browser

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestTextMatchXPath(t *testing.T) {
  xpath := textMatchXPath("", "Add to Cart")

  assert.Equal(t,
    `//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'add to cart')]`,
    xpath,
  )
}

func TestTextMatchXPathSubtree(t *testing.T) {
  xpath := textMatchXPath(".", "sold out")

  assert.Equal(t,
    `.//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'sold out')]`,
    xpath,
  )
}

func TestXpathString(t *testing.T) {
  assert.Equal(t, `'sold out'`, xpathString("sold out"))

  // Apostrophes cannot be escaped in xpath 1.0 literals.
  assert.Equal(t, `concat('amul', "'", 's dairy')`, xpathString("amul's dairy"))
}
