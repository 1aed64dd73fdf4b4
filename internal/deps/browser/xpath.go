package browser

import (
  "fmt"
  "strings"
)

const (
  xpathUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
  xpathLower = "abcdefghijklmnopqrstuvwxyz"
)

// textMatchXPath matches elements whose own text nodes contain value,
// case-insensitively. prefix "." scopes the search to a subtree.
func textMatchXPath(prefix, value string) string {
  return fmt.Sprintf(
    `%s//*[contains(translate(text(), '%s', '%s'), %s)]`,
    prefix, xpathUpper, xpathLower, xpathString(strings.ToLower(value)),
  )
}

// xpathString quotes a literal for XPath 1.0, which has no escape
// sequences: values with apostrophes are built with concat().
func xpathString(value string) string {
  if !strings.Contains(value, "'") {
    return "'" + value + "'"
  }

  parts := strings.Split(value, "'")

  quoted := make([]string, 0, 2*len(parts))

  for index, part := range parts {
    if index > 0 {
      quoted = append(quoted, `"'"`)
    }
    quoted = append(quoted, "'"+part+"'")
  }

  return "concat(" + strings.Join(quoted, ", ") + ")"
}
