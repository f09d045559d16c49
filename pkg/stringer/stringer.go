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
  RegexNonDigit  = regexp.MustCompile(`[^0-9]`)
  RegexRepeatSep = regexp.MustCompile(`\s{2,}`)
)

func Strip(s string) string {
  return strings.TrimSpace(s)
}

func IsEmptyStr(s string) bool {
  return Strip(s) == ""
}

func StripTags(s string) string {
  return strings.TrimSpace(policy.Sanitize(s))
}

// SanitizeString prepares raw inbound text: markup stripped, entities
// unescaped, repeated separators collapsed.
func SanitizeString(s string) string {
  s = policy.Sanitize(s)
  s = html.UnescapeString(s)
  s = RegexRepeatSep.ReplaceAllLiteralString(s, " ")
  s = strings.TrimSpace(s)
  return s
}

func ExtractDigits(s string) string {
  return RegexNonDigit.ReplaceAllLiteralString(s, "")
}

func ToTitle(s string, lang ...language.Tag) string {
  lTag := language.Und
  for _, l := range lang {
    lTag = l
    break
  }
  return cases.Title(lTag, cases.NoLower).String(s)
}
