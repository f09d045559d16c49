package personal

import (
  "fmt"
  "regexp"
  "strings"

  "github.com/migratehq/visabot/internal/models"
  "github.com/migratehq/visabot/pkg/stringer"
  "github.com/spf13/cast"
)

const minPhoneDigits = 8

var regexEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var questions = map[models.PersonalField]string{
  models.FieldName:       "Please share your <b>full name</b>:",
  models.FieldPhone:      "Send your <b>phone number</b> with country code:",
  models.FieldEmail:      "Enter your <b>email address</b> (or type N/A):",
  models.FieldAge:        "What is your <b>age</b>?",
  models.FieldCity:       "Which <b>city</b> are you in?",
  models.FieldCountry:    "Which <b>country</b> are you living in?",
  models.FieldEducation:  "Your <b>highest education</b>?",
  models.FieldExperience: "Your <b>work experience</b> (in years)?",
}

// Value is a validated, normalized field value: either text or a number,
// depending on the field.
type Value struct {
  Text     string
  Number   float64
  IsNumber bool
}

func Question(field models.PersonalField) (string, error) {
  question, ok := questions[field]
  if !ok {
    return "", fmt.Errorf("unknown personal field: %q", field)
  }
  return question, nil
}

func FirstQuestion() string {
  return questions[models.FieldName]
}

// Validate checks raw input against the field's rules. A non-empty
// errMessage is a user-facing correction prompt; err is returned only for
// an unknown field, which is a defect rather than bad input.
func Validate(field models.PersonalField, text string) (value Value, errMessage string, err error) {
  text = stringer.Strip(text)

  switch field {

  case models.FieldPhone:
    digits := stringer.ExtractDigits(text)
    if len(digits) < minPhoneDigits {
      return Value{}, "Invalid phone. Send again with country code.", nil
    }
    return Value{Text: digits}, "", nil

  case models.FieldEmail:
    if strings.EqualFold(text, "n/a") {
      return Value{}, "", nil
    }
    if !regexEmail.MatchString(text) {
      return Value{}, "Invalid email. Send again or type N/A.", nil
    }
    return Value{Text: text}, "", nil

  case models.FieldAge, models.FieldExperience:
    number, castErr := cast.ToFloat64E(text)
    if castErr != nil || number < 0 {
      return Value{}, fmt.Sprintf("Please send a valid number for %s.", field), nil
    }
    return Value{Number: number, IsNumber: true}, "", nil

  case models.FieldName, models.FieldCity, models.FieldCountry, models.FieldEducation:
    if stringer.IsEmptyStr(text) {
      return Value{}, fmt.Sprintf("Please enter your %s.", field), nil
    }
    return Value{Text: text}, "", nil
  }

  return Value{}, "", fmt.Errorf("unknown personal field: %q", field)
}

func setDetail(details *models.PersonalDetails, field models.PersonalField, value Value) error {
  switch field {
  case models.FieldName:
    details.Name = value.Text
  case models.FieldPhone:
    details.Phone = value.Text
  case models.FieldEmail:
    details.Email = value.Text
  case models.FieldAge:
    details.Age = value.Number
  case models.FieldCity:
    details.City = value.Text
  case models.FieldCountry:
    details.Country = value.Text
  case models.FieldEducation:
    details.Education = value.Text
  case models.FieldExperience:
    details.Experience = value.Number
  default:
    return fmt.Errorf("unknown personal field: %q", field)
  }

  return nil
}
