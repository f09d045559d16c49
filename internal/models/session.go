package models

import "time"

const (
  FlowNone         Flow = ""
  FlowCanadaPR     Flow = "canada_pr"
  FlowStudentVisa  Flow = "student_visa"
  FlowWorkPermit   Flow = "work_permit"
  FlowTouristVisa  Flow = "tourist_visa"
  FlowBusinessVisa Flow = "business_visa"
  FlowEligibility  Flow = "eligibility"
  FlowHandoff      Flow = "handoff"
)

const (
  StepNone            Step = ""
  StepCollectPersonal Step = "collect_personal"
  StepLanguageScore   Step = "language_score"
  StepDone            Step = "done"
)

type Flow string

type Step string

type ChatId = string

type Session struct {
  ChatId        ChatId           `bson:"chat_id" json:"chat_id"`
  Flow          Flow             `bson:"flow" json:"flow"`
  Step          Step             `bson:"step" json:"step"`
  Personal      PersonalDetails  `bson:"personal" json:"personal"`
  PersonalIndex int              `bson:"personal_index" json:"personal_index"`
  Greeted       bool             `bson:"greeted" json:"greeted"`
  Entities      *SessionEntities `bson:"entities" json:"entities"`
  UpdatedAt     time.Time        `bson:"updated_at" json:"updated_at"`
}

type SessionEntities struct {
  Eligibility *EligibilityInputs `bson:"eligibility" json:"eligibility"`
}

type EligibilityInputs struct {
  LanguageScore float64 `bson:"language_score" json:"language_score"`
}

func NewSession(chatId ChatId) *Session {
  return &Session{
    ChatId:    chatId,
    UpdatedAt: time.Now(),
  }
}

// ResetToMenu drops the selected flow and collected personal details,
// keeping the greeted flag and flow scratch data.
func (s *Session) ResetToMenu() {
  s.Flow = FlowNone
  s.Step = StepNone
  s.Personal = PersonalDetails{}
  s.PersonalIndex = 0
}

// Restart resets the session to its defaults. The greeted flag is forced
// true so the user is not greeted a second time.
func (s *Session) Restart() {
  *s = *NewSession(s.ChatId)
  s.Greeted = true
}

func (s *Session) StartFlow(flow Flow) {
  s.Flow = flow
  s.Step = StepCollectPersonal
  s.Personal = PersonalDetails{}
  s.PersonalIndex = 0
  s.Entities = nil
}

func (s *Session) PersonalComplete() bool {
  return s.PersonalIndex >= len(PersonalFields)
}
