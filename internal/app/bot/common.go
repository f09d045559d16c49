package bot

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "strings"
  "time"

  set "github.com/deckarep/golang-set/v2"
  "github.com/migratehq/visabot/internal/eligibility"
  "github.com/migratehq/visabot/internal/models"
  "github.com/migratehq/visabot/internal/sessions"
  "github.com/migratehq/visabot/pkg/stringer"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
)

const (
  commandMenu    = "menu"
  commandRestart = "restart"
)

const menuText = `Welcome to Immigration Help 👋
Please choose an option by typing the number:

1️⃣ Canada PR
2️⃣ Student Visa
3️⃣ Work Permit
4️⃣ Tourist Visa
5️⃣ Business / Startup Visa
6️⃣ Eligibility Check
7️⃣ Talk to an Expert (Human Support)

Type <b>menu</b> anytime to see this menu again.
Type <b>restart</b> to restart the conversation.`

const handoffText = `Thank you! 🤝
An immigration expert will contact you shortly.`

const languageScoreQuestion = `What is your <b>IELTS score</b>?
(or type N/A if you have not taken a language test)`

var greetingWords = set.NewSet("hi", "hello", "hey")

var flowByDigit = map[string]models.Flow{
  "1": models.FlowCanadaPR,
  "2": models.FlowStudentVisa,
  "3": models.FlowWorkPermit,
  "4": models.FlowTouristVisa,
  "5": models.FlowBusinessVisa,
  "6": models.FlowEligibility,
  "7": models.FlowHandoff,
}

var flowTitles = map[models.Flow]string{
  models.FlowCanadaPR:     "Canada PR",
  models.FlowStudentVisa:  "Student Visa",
  models.FlowWorkPermit:   "Work Permit",
  models.FlowTouristVisa:  "Tourist Visa",
  models.FlowBusinessVisa: "Business / Startup Visa",
  models.FlowEligibility:  "Eligibility Check",
  models.FlowHandoff:      "Human Support",
}

func flowTitle(flow models.Flow) string {
  if title, ok := flowTitles[flow]; ok {
    return title
  }
  return string(flow)
}

func (b *Bot) findOrCreateSession(ctx context.Context, chatId models.ChatId) (*models.Session, error) {
  session, err := b.deps.Sessions.Find(ctx, chatId)
  if err != nil {
    if errors.Is(err, sessions.ErrNotFound) {
      return models.NewSession(chatId), nil
    }
    return nil, fmt.Errorf("b.deps.Sessions.Find: %w", err)
  }

  return session, nil
}

func (b *Bot) saveSession(ctx context.Context, session *models.Session) error {
  if err := b.deps.Sessions.Upsert(ctx, session); err != nil {
    return fmt.Errorf("b.deps.Sessions.Upsert: %w", err)
  }

  return nil
}

// send delivers one outbound text. Delivery failures are logged and
// swallowed: state already committed must not be rolled back over them.
func (b *Bot) send(ctx context.Context, chatId models.ChatId, text string) {
  if err := b.deps.Gateway.SendText(ctx, chatId, text); err != nil {
    log.
      WithField("chat_id", chatId).
      Errorf("b.deps.Gateway.SendText: %v", err)
  }
}

func (b *Bot) sendGreeting(ctx context.Context, chatId models.ChatId, name string) {
  caption := fmt.Sprintf("Hello %s! 👋\n\n%s", stringer.ToTitle(name), menuText)

  if path, filename, ok := b.deps.Welcome.Find(); ok {
    err := b.deps.Gateway.SendFile(ctx, chatId, path, filename, caption)
    if err == nil {
      return
    }

    log.
      WithField("chat_id", chatId).
      WithField("path", path).
      Warnf("b.deps.Gateway.SendFile: %v: falling back to text greeting", err)
  }

  b.send(ctx, chatId, caption)
}

type leadPayload struct {
  Personal    models.PersonalDetails    `json:"personal"`
  Eligibility *models.EligibilityInputs `json:"eligibility,omitempty"`
  Verdict     *eligibility.Verdict      `json:"verdict,omitempty"`
}

func (b *Bot) appendLead(ctx context.Context, session *models.Session, name string, verdict *eligibility.Verdict) {
  payload := leadPayload{
    Personal: session.Personal,
    Verdict:  verdict,
  }
  if session.Entities != nil {
    payload.Eligibility = session.Entities.Eligibility
  }

  content, err := json.Marshal(payload)
  if err != nil {
    log.
      WithField("chat_id", session.ChatId).
      WithField("flow", session.Flow).
      Errorf("json.Marshal: %v", err)

    return
  }

  err = b.deps.Leads.Append(ctx, models.Lead{
    ChatId:    session.ChatId,
    Name:      name,
    Flow:      session.Flow,
    Payload:   string(content),
    CreatedAt: time.Now(),
  })
  if err != nil {
    log.
      WithField("chat_id", session.ChatId).
      WithField("flow", session.Flow).
      Errorf("b.deps.Leads.Append: %v", err)
  }
}

func personalSummary(p models.PersonalDetails) string {
  return fmt.Sprintf(`<b>Your details</b>
Name: %s
Phone: %s
Email: %s
Age: %s
City: %s
Country: %s
Education: %s
Experience: %s years`,
    p.Name, p.Phone, p.Email, cast.ToString(p.Age),
    p.City, p.Country, p.Education, cast.ToString(p.Experience))
}

func parseLanguageScore(text string) (score float64, errMessage string) {
  if strings.EqualFold(stringer.Strip(text), "n/a") {
    return 0, ""
  }

  score, err := cast.ToFloat64E(stringer.Strip(text))
  if err != nil || score < 0 {
    return 0, "Please send a valid number for your IELTS score, or type N/A."
  }

  return score, ""
}
