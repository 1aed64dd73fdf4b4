package models

import (
  neturl "net/url"
  "strings"
)

const DefaultCheckIntervalMinutes = 10

type Settings struct {
  Pincode    string             `bson:"pincode" json:"pincode"`
  Products   []Product          `bson:"products" json:"products"`
  Email      EmailSettings      `bson:"email" json:"email"`
  Monitoring MonitoringSettings `bson:"monitoring" json:"monitoring"`
}

type Product struct {
  Name  string  `bson:"name" json:"name"`
  URL   string  `bson:"url" json:"url"`
  Price float64 `bson:"price" json:"price"`
}

type EmailSettings struct {
  SenderEmail     string   `bson:"sender_email" json:"sender_email"`
  SenderPassword  string   `bson:"sender_password" json:"sender_password"`
  RecipientEmails []string `bson:"recipient_emails" json:"recipient_emails"`
}

type MonitoringSettings struct {
  CheckIntervalMinutes int `bson:"check_interval_minutes" json:"check_interval_minutes"`
}

func (s *Settings) Interval() int {
  if s.Monitoring.CheckIntervalMinutes <= 0 {
    return DefaultCheckIntervalMinutes
  }
  return s.Monitoring.CheckIntervalMinutes
}

// NormalizeProductURL builds the stable product identity: lowercased host,
// no fragment, no trailing slash.
func NormalizeProductURL(url string) string {
  parsed, err := neturl.Parse(strings.TrimSpace(url))
  if err != nil {
    return strings.TrimSpace(url)
  }

  parsed.Host = strings.ToLower(parsed.Host)
  parsed.Fragment = ""
  parsed.Path = strings.TrimRight(parsed.Path, "/")

  return parsed.String()
}
