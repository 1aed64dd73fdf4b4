package stringer

import (
  "regexp"
  "strings"

  "github.com/microcosm-cc/bluemonday"
  "golang.org/x/net/html"
  "golang.org/x/text/cases"
  "golang.org/x/text/language"
)

var (
  policy         = bluemonday.StrictPolicy()
  RegexRepeatSep = regexp.MustCompile(`\s{2,}`)
  RegexURL       = regexp.MustCompile(`https?://\S+`)
)

// SanitizeString prepares free text for validation and storage: markup
// is stripped, entities decoded, repeated whitespace collapsed.
func SanitizeString(s string) string {
  s = policy.Sanitize(s)
  s = html.UnescapeString(s)
  s = RegexRepeatSep.ReplaceAllLiteralString(s, " ")
  s = strings.TrimSpace(s)
  return s
}

func ExtractURL(s string) string {
  return RegexURL.FindString(s)
}

func ToTitle(s string, lang ...language.Tag) string {
  lTag := language.Und
  for _, l := range lang {
    lTag = l
    break
  }
  return cases.Title(lTag, cases.NoLower).String(s)
}
