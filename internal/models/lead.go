package models

import "time"

// Lead is one completed flow, appended to the lead log.
type Lead struct {
  ChatId    ChatId    `bson:"chat_id" json:"chat_id"`
  Name      string    `bson:"name" json:"name"`
  Flow      Flow      `bson:"flow" json:"flow"`
  Payload   string    `bson:"payload" json:"payload"`
  CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
