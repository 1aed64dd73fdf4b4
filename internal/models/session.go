package models

import "time"

const (
  StartMenu        SessionMenu = "start_menu"
  StartSilentMenu  SessionMenu = "start_silent_menu"
  StatusMenu       SessionMenu = "status_menu"
  ProductsMenu     SessionMenu = "products_menu"
  EmailsMenu       SessionMenu = "emails_menu"
  IntervalMenu     SessionMenu = "interval_menu"

  PincodeInputMenu     SessionMenu = "pincode_input_menu"
  EmailInputMenu       SessionMenu = "email_input_menu"
  ProductNameInputMenu SessionMenu = "product_name_input_menu"
  ProductURLInputMenu  SessionMenu = "product_url_input_menu"
)

type SessionMenu = string

type ChatId = int64

type Session struct {
  ChatId    ChatId          `bson:"chat_id" json:"chat_id"`
  Message   SessionMessage  `bson:"message" json:"message"`
  Draft     *ProductDraft   `bson:"draft" json:"draft"`
  UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

type SessionMessage struct {
  Id   *int        `bson:"id" json:"id"`
  Menu SessionMenu `bson:"menu" json:"menu"`
}

// ProductDraft carries the name collected on the first step of product
// creation until the url arrives.
type ProductDraft struct {
  Name string `bson:"name" json:"name"`
}
