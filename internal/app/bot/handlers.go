package bot

import (
  "context"
  "fmt"
  "strings"

  "github.com/migratehq/visabot/internal/eligibility"
  "github.com/migratehq/visabot/internal/models"
  "github.com/migratehq/visabot/internal/personal"
  "github.com/migratehq/visabot/pkg/stringer"
)

// HandleInbound runs one full handling cycle: load session, decide the
// transition, persist, reply. The session save is the commit point; when
// it fails the cycle aborts without replying, so the user never sees a
// response based on state that was not durably stored.
func (b *Bot) HandleInbound(ctx context.Context, msg models.Inbound) error {
  if msg.IsGroup {
    return nil
  }

  text := stringer.SanitizeString(msg.Text)

  session, err := b.findOrCreateSession(ctx, msg.ChatId)
  if err != nil {
    return fmt.Errorf("b.findOrCreateSession: %w", err)
  }

  if !session.Greeted {
    return b.handleFirstContact(ctx, session, msg)
  }

  if greetingWords.ContainsOne(strings.ToLower(text)) {
    b.sendGreeting(ctx, session.ChatId, msg.SenderName())
    return nil
  }

  switch strings.ToLower(text) {
  case commandMenu:
    return b.handleMenuCommand(ctx, session)
  case commandRestart:
    return b.handleRestartCommand(ctx, session)
  }

  if session.Flow == models.FlowNone {
    return b.handleMenuSelect(ctx, session, text)
  }

  switch session.Step {
  case models.StepCollectPersonal:
    return b.handleCollectPersonal(ctx, session, msg, text)
  case models.StepLanguageScore:
    return b.handleLanguageScore(ctx, session, msg, text)
  default:
    return b.handleOutOfFlow(ctx, session)
  }
}

// handleFirstContact greets a never-seen conversation. The message content
// itself is not processed this cycle.
func (b *Bot) handleFirstContact(ctx context.Context, session *models.Session, msg models.Inbound) error {
  session.Greeted = true

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  b.sendGreeting(ctx, session.ChatId, msg.SenderName())

  return nil
}

func (b *Bot) handleMenuCommand(ctx context.Context, session *models.Session) error {
  session.ResetToMenu()

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  b.send(ctx, session.ChatId, menuText)

  return nil
}

func (b *Bot) handleRestartCommand(ctx context.Context, session *models.Session) error {
  session.Restart()

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  b.send(ctx, session.ChatId, "Conversation restarted.\n\n"+menuText)

  return nil
}

func (b *Bot) handleMenuSelect(ctx context.Context, session *models.Session, text string) error {
  flow, ok := flowByDigit[text]
  if !ok {
    b.send(ctx, session.ChatId, "I didn't understand.\n\n"+menuText)
    return nil
  }

  session.StartFlow(flow)

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  b.send(ctx, session.ChatId, personal.FirstQuestion())

  return nil
}

func (b *Bot) handleCollectPersonal(ctx context.Context, session *models.Session, msg models.Inbound, text string) error {
  indexBefore := session.PersonalIndex

  res, err := personal.Advance(session, text)
  if err != nil {
    return fmt.Errorf("personal.Advance: %w", err)
  }

  if res.Complete {
    return b.finishPersonal(ctx, session, msg)
  }

  // A rejection leaves the session untouched, so there is nothing to save.
  if session.PersonalIndex != indexBefore {
    if err = b.saveSession(ctx, session); err != nil {
      return fmt.Errorf("b.saveSession: %w", err)
    }
  }

  b.send(ctx, session.ChatId, res.Prompt)

  return nil
}

func (b *Bot) finishPersonal(ctx context.Context, session *models.Session, msg models.Inbound) error {
  summary := personalSummary(session.Personal)

  switch session.Flow {

  case models.FlowEligibility:
    session.Step = models.StepLanguageScore
    session.Entities = &models.SessionEntities{
      Eligibility: &models.EligibilityInputs{},
    }

    if err := b.saveSession(ctx, session); err != nil {
      return fmt.Errorf("b.saveSession: %w", err)
    }

    b.send(ctx, session.ChatId, summary)
    b.send(ctx, session.ChatId, languageScoreQuestion)

    return nil

  case models.FlowHandoff:
    session.Step = models.StepDone

    if err := b.saveSession(ctx, session); err != nil {
      return fmt.Errorf("b.saveSession: %w", err)
    }

    b.send(ctx, session.ChatId, summary+"\n\n"+handoffText)
    b.appendLead(ctx, session, msg.SenderName(), nil)

    return nil
  }

  session.Step = models.StepDone

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  ack := fmt.Sprintf(`Thanks! We received your details for <b>%s</b>.
Our team will reach out with the next steps 📋`, flowTitle(session.Flow))

  b.send(ctx, session.ChatId, summary+"\n\n"+ack)
  b.appendLead(ctx, session, msg.SenderName(), nil)

  return nil
}

func (b *Bot) handleLanguageScore(ctx context.Context, session *models.Session, msg models.Inbound, text string) error {
  score, errMessage := parseLanguageScore(text)
  if errMessage != "" {
    b.send(ctx, session.ChatId, errMessage)
    return nil
  }

  // Entities may be lost on a restart mid-flow; rebuild rather than crash.
  if session.Entities == nil || session.Entities.Eligibility == nil {
    session.Entities = &models.SessionEntities{
      Eligibility: &models.EligibilityInputs{},
    }
  }
  session.Entities.Eligibility.LanguageScore = score

  verdict := eligibility.Evaluate(eligibility.Params{
    Age:           session.Personal.Age,
    Education:     session.Personal.Education,
    Experience:    session.Personal.Experience,
    LanguageScore: score,
    Country:       session.Personal.Country,
    HomeCountry:   b.config.HomeCountry,
  })

  session.Step = models.StepDone

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  b.send(ctx, session.ChatId, fmt.Sprintf(`Eligibility result: <b>%s</b>
Score: %d of %d

Type <b>menu</b> to explore other options.`,
    verdict.Result, verdict.Score, eligibility.MaxScore))

  b.appendLead(ctx, session, msg.SenderName(), &verdict)

  return nil
}

// handleOutOfFlow catches free text after a flow finished: the completed
// flow is cleared and the menu offered again, instead of silently
// discarding the input.
func (b *Bot) handleOutOfFlow(ctx context.Context, session *models.Session) error {
  session.ResetToMenu()

  if err := b.saveSession(ctx, session); err != nil {
    return fmt.Errorf("b.saveSession: %w", err)
  }

  b.send(ctx, session.ChatId, "Your previous request is complete ✅\n\n"+menuText)

  return nil
}
