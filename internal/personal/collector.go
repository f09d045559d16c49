package personal

import (
  "fmt"

  "github.com/migratehq/visabot/internal/models"
)

type AdvanceResult struct {
  Complete bool
  Prompt   string
}

// Advance consumes one raw input for the field under the session cursor.
// On rejection the session is left untouched and Prompt carries the
// correction message. On acceptance the value is stored, the cursor moves
// and Prompt carries the next question, or Complete is set once the last
// field is filled. Calling Advance on a completed session is a no-op.
func Advance(session *models.Session, text string) (AdvanceResult, error) {
  if session.PersonalComplete() {
    return AdvanceResult{Complete: true}, nil
  }

  field := models.PersonalFields[session.PersonalIndex]

  value, errMessage, err := Validate(field, text)
  if err != nil {
    return AdvanceResult{}, fmt.Errorf("personal.Validate: %w", err)
  }
  if errMessage != "" {
    return AdvanceResult{Prompt: errMessage}, nil
  }

  if err = setDetail(&session.Personal, field, value); err != nil {
    return AdvanceResult{}, fmt.Errorf("personal.setDetail: %w", err)
  }
  session.PersonalIndex++

  if session.PersonalComplete() {
    return AdvanceResult{Complete: true}, nil
  }

  next := models.PersonalFields[session.PersonalIndex]

  question, err := Question(next)
  if err != nil {
    return AdvanceResult{}, fmt.Errorf("personal.Question: %w", err)
  }

  return AdvanceResult{Prompt: question}, nil
}
