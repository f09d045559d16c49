package models

import "strings"

// Inbound is one incoming chat message as delivered by the gateway.
type Inbound struct {
  ChatId        ChatId `json:"chat_id"`
  Text          string `json:"text"`
  PushName      string `json:"push_name"`
  FormattedName string `json:"formatted_name"`
  NotifyName    string `json:"notify_name"`
  IsGroup       bool   `json:"is_group"`
}

// SenderName resolves the display name through the optional name fields.
func (m Inbound) SenderName() string {
  for _, name := range []string{m.PushName, m.FormattedName, m.NotifyName} {
    if strings.TrimSpace(name) != "" {
      return name
    }
  }
  return "User"
}
