package validator

import (
  "fmt"
  "net/url"
  "regexp"
  "unicode/utf8"

  playground "github.com/go-playground/validator/v10"
)

var (
  validate = playground.New()

  regexPincode = regexp.MustCompile(`^\d{6}$`)
)

func URL(value string) error {
  parsed, err := url.ParseRequestURI(value)
  if err != nil {
    return err
  }

  if parsed.Scheme != "http" && parsed.Scheme != "https" {
    return fmt.Errorf("url scheme %q is not http(s)", parsed.Scheme)
  }

  return nil
}

func Email(value string) error {
  return validate.Var(value, "required,email")
}

func Pincode(value string) error {
  if !regexPincode.MatchString(value) {
    return fmt.Errorf("pincode %q is not a 6 digit code", value)
  }
  return nil
}

func ProductName(value string) error {
  const minRunes = 3

  if utf8.RuneCountInString(value) < minRunes {
    return fmt.Errorf("product name shorter than %d characters", minRunes)
  }
  return nil
}
