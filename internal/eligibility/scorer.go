package eligibility

import "strings"

const (
  ResultHigh     = "High chance"
  ResultPossible = "Possible"
  ResultLow      = "Low chance"
)

const (
  minAge = 18
  maxAge = 45

  minExperienceYears = 2
  minLanguageScore   = 6

  highThreshold     = 7
  possibleThreshold = 4

  // MaxScore is the sum of all criteria weights.
  MaxScore = 9
)

var educationKeywords = []string{"bachelor", "master", "phd"}

type Params struct {
  Age           float64
  Education     string
  Experience    float64
  LanguageScore float64
  Country       string
  HomeCountry   string
}

type Verdict struct {
  Result string `json:"result"`
  Score  int    `json:"score"`
}

// Evaluate scores a completed personal-details record. All criteria are
// additive and independent.
func Evaluate(params Params) Verdict {
  var score int

  if params.Age >= minAge && params.Age <= maxAge {
    score += 2
  }

  education := strings.ToLower(params.Education)
  for _, keyword := range educationKeywords {
    if strings.Contains(education, keyword) {
      score += 2
      break
    }
  }

  if params.Experience >= minExperienceYears {
    score += 2
  }

  if params.LanguageScore >= minLanguageScore {
    score += 2
  }

  if params.Country != "" && !strings.EqualFold(params.Country, params.HomeCountry) {
    score++
  }

  switch {
  case score >= highThreshold:
    return Verdict{Result: ResultHigh, Score: score}
  case score >= possibleThreshold:
    return Verdict{Result: ResultPossible, Score: score}
  }

  return Verdict{Result: ResultLow, Score: score}
}
