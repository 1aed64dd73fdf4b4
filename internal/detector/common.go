package detector

import (
  "strings"
  "unicode/utf8"
)

func containsVocabulary(class string) bool {
  class = strings.ToLower(class)

  for _, word := range disabledClassVocabulary {
    if strings.Contains(class, word) {
      return true
    }
  }

  return false
}

func runeCount(s string) int {
  return utf8.RuneCountInString(strings.TrimSpace(s))
}
