package bot

import (
  "context"
  "encoding/json"
  "errors"
  "os"
  "path/filepath"
  "sync"
  "testing"

  "github.com/go-resty/resty/v2"
  "github.com/migratehq/visabot/internal/eligibility"
  "github.com/migratehq/visabot/internal/media"
  "github.com/migratehq/visabot/internal/models"
  "github.com/migratehq/visabot/internal/sessions"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

type sentText struct {
  chatId models.ChatId
  text   string
}

type fakeGateway struct {
  mu      sync.Mutex
  texts   []sentText
  files   []sentText
  fileErr error
}

func (g *fakeGateway) SendText(_ context.Context, chatId models.ChatId, text string) error {
  g.mu.Lock()
  defer g.mu.Unlock()

  g.texts = append(g.texts, sentText{chatId: chatId, text: text})
  return nil
}

func (g *fakeGateway) SendFile(_ context.Context, chatId models.ChatId, _ string, _ string, caption string) error {
  g.mu.Lock()
  defer g.mu.Unlock()

  if g.fileErr != nil {
    return g.fileErr
  }

  g.files = append(g.files, sentText{chatId: chatId, text: caption})
  return nil
}

func (g *fakeGateway) lastText() string {
  g.mu.Lock()
  defer g.mu.Unlock()

  if len(g.texts) == 0 {
    return ""
  }
  return g.texts[len(g.texts)-1].text
}

type fakeLeads struct {
  mu    sync.Mutex
  leads []models.Lead
}

func (l *fakeLeads) Append(_ context.Context, lead models.Lead) error {
  l.mu.Lock()
  defer l.mu.Unlock()

  l.leads = append(l.leads, lead)
  return nil
}

// failingStore reads fine but refuses every write.
type failingStore struct {
  inner sessions.Store
}

func (s *failingStore) Find(ctx context.Context, chatId models.ChatId) (*models.Session, error) {
  return s.inner.Find(ctx, chatId)
}

func (s *failingStore) Upsert(context.Context, *models.Session) error {
  return errors.New("storage unavailable")
}

type testEnv struct {
  bot     *Bot
  gateway *fakeGateway
  store   *sessions.Memory
  leads   *fakeLeads
}

func newTestEnv(t *testing.T) *testEnv {
  t.Helper()

  env := &testEnv{
    gateway: &fakeGateway{},
    store:   sessions.NewMemory(),
    leads:   &fakeLeads{},
  }

  env.bot = NewBot(Config{}, Dependencies{
    Gateway:  env.gateway,
    Sessions: env.store,
    Leads:    env.leads,
  })

  return env
}

func (e *testEnv) greet(t *testing.T, chatId models.ChatId) {
  t.Helper()

  session := models.NewSession(chatId)
  session.Greeted = true
  require.NoError(t, e.store.Upsert(context.Background(), session))
}

func (e *testEnv) drive(t *testing.T, chatId models.ChatId, texts ...string) {
  t.Helper()

  for _, text := range texts {
    err := e.bot.HandleInbound(context.Background(), models.Inbound{
      ChatId: chatId,
      Text:   text,
    })
    require.NoError(t, err)
  }
}

func (e *testEnv) session(t *testing.T, chatId models.ChatId) *models.Session {
  t.Helper()

  session, err := e.store.Find(context.Background(), chatId)
  require.NoError(t, err)
  return session
}

var personalAnswers = []string{
  "John Doe",
  "+1 234 567 8901",
  "john@example.com",
  "30",
  "Toronto",
  "Canada",
  "Master's degree",
  "5",
}

func TestGroupMessagesIgnored(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)

  err := env.bot.HandleInbound(context.Background(), models.Inbound{
    ChatId:  "group-1",
    Text:    "hello",
    IsGroup: true,
  })
  require.NoError(t, err)
  assert.Empty(t, env.gateway.texts)

  _, err = env.store.Find(context.Background(), "group-1")
  assert.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestFirstContactGreets(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)

  err := env.bot.HandleInbound(context.Background(), models.Inbound{
    ChatId:   "chat-1",
    Text:     "1",
    PushName: "john",
  })
  require.NoError(t, err)

  // The first message only triggers the greeting; it never selects a flow.
  session := env.session(t, "chat-1")
  assert.True(t, session.Greeted)
  assert.Equal(t, models.FlowNone, session.Flow)

  require.Len(t, env.gateway.texts, 1)
  assert.Contains(t, env.gateway.lastText(), "Hello John! 👋")
  assert.Contains(t, env.gateway.lastText(), "1️⃣ Canada PR")
}

func TestGreetingWordRepeatsGreeting(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "1", "John Doe")

  before := *env.session(t, "chat-1")

  env.drive(t, "chat-1", "Hello")

  assert.Contains(t, env.gateway.lastText(), "Hello User! 👋")

  after := env.session(t, "chat-1")
  assert.Equal(t, before.Flow, after.Flow)
  assert.Equal(t, before.PersonalIndex, after.PersonalIndex)
  assert.Equal(t, before.Personal, after.Personal)
}

func TestMenuSelectUnknownInput(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "visa please")

  assert.Contains(t, env.gateway.lastText(), "I didn't understand.")
  assert.Contains(t, env.gateway.lastText(), "1️⃣ Canada PR")
  assert.Equal(t, models.FlowNone, env.session(t, "chat-1").Flow)
}

func TestMenuSelectStartsFlow(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "1")

  session := env.session(t, "chat-1")
  assert.Equal(t, models.FlowCanadaPR, session.Flow)
  assert.Equal(t, models.StepCollectPersonal, session.Step)
  assert.Contains(t, env.gateway.lastText(), "full name")
}

func TestVisaFlowEndToEnd(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "3")
  env.drive(t, "chat-1", personalAnswers...)

  session := env.session(t, "chat-1")
  assert.Equal(t, models.FlowWorkPermit, session.Flow)
  assert.Equal(t, models.StepDone, session.Step)

  last := env.gateway.lastText()
  assert.Contains(t, last, "Name: John Doe")
  assert.Contains(t, last, "Phone: 12345678901")
  assert.Contains(t, last, "Experience: 5 years")
  assert.Contains(t, last, "<b>Work Permit</b>")

  require.Len(t, env.leads.leads, 1)
  lead := env.leads.leads[0]
  assert.Equal(t, models.FlowWorkPermit, lead.Flow)
  assert.Equal(t, "chat-1", lead.ChatId)

  var payload leadPayload
  require.NoError(t, json.Unmarshal([]byte(lead.Payload), &payload))
  assert.Equal(t, "John Doe", payload.Personal.Name)
  assert.Nil(t, payload.Verdict)
}

func TestInvalidFieldRePrompts(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "2", "Jane Roe", "12")

  assert.Equal(t, "Invalid phone. Send again with country code.", env.gateway.lastText())

  session := env.session(t, "chat-1")
  assert.Equal(t, 1, session.PersonalIndex)
  assert.Empty(t, session.Personal.Phone)

  // A valid retry continues where the flow left off.
  env.drive(t, "chat-1", "+44 1234 567890")
  assert.Equal(t, "441234567890", env.session(t, "chat-1").Personal.Phone)
  assert.Contains(t, env.gateway.lastText(), "email")
}

func TestEligibilityFlowEndToEnd(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "6")
  env.drive(t, "chat-1", personalAnswers...)

  session := env.session(t, "chat-1")
  assert.Equal(t, models.StepLanguageScore, session.Step)
  assert.Contains(t, env.gateway.lastText(), "IELTS score")
  assert.Empty(t, env.leads.leads)

  env.drive(t, "chat-1", "7.5")

  session = env.session(t, "chat-1")
  assert.Equal(t, models.StepDone, session.Step)
  require.NotNil(t, session.Entities)
  require.NotNil(t, session.Entities.Eligibility)
  assert.Equal(t, 7.5, session.Entities.Eligibility.LanguageScore)

  last := env.gateway.lastText()
  assert.Contains(t, last, "Eligibility result: <b>High chance</b>")
  assert.Contains(t, last, "Score: 9 of 9")

  require.Len(t, env.leads.leads, 1)

  var payload leadPayload
  require.NoError(t, json.Unmarshal([]byte(env.leads.leads[0].Payload), &payload))
  require.NotNil(t, payload.Verdict)
  assert.Equal(t, eligibility.Verdict{Result: eligibility.ResultHigh, Score: 9}, *payload.Verdict)
  require.NotNil(t, payload.Eligibility)
  assert.Equal(t, 7.5, payload.Eligibility.LanguageScore)
}

func TestEligibilityLanguageScoreOptOut(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "6")
  env.drive(t, "chat-1", personalAnswers...)

  env.drive(t, "chat-1", "n/a")

  // Age +2, education +2, experience +2, abroad +1: still high without a test.
  last := env.gateway.lastText()
  assert.Contains(t, last, "Eligibility result: <b>High chance</b>")
  assert.Contains(t, last, "Score: 7 of 9")
}

func TestEligibilityInvalidScoreRePrompts(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "6")
  env.drive(t, "chat-1", personalAnswers...)

  env.drive(t, "chat-1", "dunno")

  assert.Contains(t, env.gateway.lastText(), "valid number for your IELTS score")
  assert.Equal(t, models.StepLanguageScore, env.session(t, "chat-1").Step)
  assert.Empty(t, env.leads.leads)
}

func TestHandoffFlow(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "7")
  env.drive(t, "chat-1", personalAnswers...)

  last := env.gateway.lastText()
  assert.Contains(t, last, "Name: John Doe")
  assert.Contains(t, last, "An immigration expert will contact you shortly.")

  require.Len(t, env.leads.leads, 1)
  assert.Equal(t, models.FlowHandoff, env.leads.leads[0].Flow)
}

func TestMenuCommandResetsFlow(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "1", "John Doe", "MENU")

  session := env.session(t, "chat-1")
  assert.Equal(t, models.FlowNone, session.Flow)
  assert.Equal(t, 0, session.PersonalIndex)
  assert.Empty(t, session.Personal.Name)
  assert.True(t, session.Greeted)
  assert.Contains(t, env.gateway.lastText(), "1️⃣ Canada PR")
}

func TestRestartCommand(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "4", "John Doe", "restart")

  session := env.session(t, "chat-1")
  assert.Equal(t, models.FlowNone, session.Flow)
  assert.True(t, session.Greeted)
  assert.Contains(t, env.gateway.lastText(), "Conversation restarted.")
}

func TestOutOfFlowInputOffersMenu(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.drive(t, "chat-1", "5")
  env.drive(t, "chat-1", personalAnswers...)
  env.drive(t, "chat-1", "thanks a lot")

  session := env.session(t, "chat-1")
  assert.Equal(t, models.FlowNone, session.Flow)
  assert.Equal(t, models.StepNone, session.Step)

  last := env.gateway.lastText()
  assert.Contains(t, last, "Your previous request is complete ✅")
  assert.Contains(t, last, "1️⃣ Canada PR")
}

func TestChatsAreIsolated(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")
  env.greet(t, "chat-2")

  env.drive(t, "chat-1", "1", "John Doe")
  env.drive(t, "chat-2", "6")
  env.drive(t, "chat-1", "+1 234 567 8901")
  env.drive(t, "chat-2", "Jane Roe")

  first := env.session(t, "chat-1")
  assert.Equal(t, models.FlowCanadaPR, first.Flow)
  assert.Equal(t, "John Doe", first.Personal.Name)
  assert.Equal(t, "12345678901", first.Personal.Phone)

  second := env.session(t, "chat-2")
  assert.Equal(t, models.FlowEligibility, second.Flow)
  assert.Equal(t, "Jane Roe", second.Personal.Name)
  assert.Empty(t, second.Personal.Phone)
}

func TestSaveFailureAbortsReplies(t *testing.T) {
  t.Parallel()

  env := newTestEnv(t)
  env.greet(t, "chat-1")

  failing := NewBot(Config{}, Dependencies{
    Gateway:  env.gateway,
    Sessions: &failingStore{inner: env.store},
    Leads:    env.leads,
  })

  err := failing.HandleInbound(context.Background(), models.Inbound{
    ChatId: "chat-1",
    Text:   "1",
  })
  require.Error(t, err)
  assert.Empty(t, env.gateway.texts)
  assert.Equal(t, models.FlowNone, env.session(t, "chat-1").Flow)
}

func TestGreetingSendsWelcomeImage(t *testing.T) {
  t.Parallel()

  path := filepath.Join(t.TempDir(), "welcome.jpg")
  require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))

  welcome := media.NewWelcome(context.Background(),
    media.Config{Path: path},
    media.Dependencies{Client: resty.New()})

  env := newTestEnv(t)
  env.bot = NewBot(Config{}, Dependencies{
    Gateway:  env.gateway,
    Sessions: env.store,
    Leads:    env.leads,
    Welcome:  welcome,
  })

  env.drive(t, "chat-1", "hi")

  require.Len(t, env.gateway.files, 1)
  assert.Contains(t, env.gateway.files[0].text, "Hello User! 👋")
  assert.Empty(t, env.gateway.texts)
}

func TestGreetingFallsBackToTextOnFileError(t *testing.T) {
  t.Parallel()

  path := filepath.Join(t.TempDir(), "welcome.jpg")
  require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))

  welcome := media.NewWelcome(context.Background(),
    media.Config{Path: path},
    media.Dependencies{Client: resty.New()})

  env := newTestEnv(t)
  env.gateway.fileErr = errors.New("media upload rejected")
  env.bot = NewBot(Config{}, Dependencies{
    Gateway:  env.gateway,
    Sessions: env.store,
    Leads:    env.leads,
    Welcome:  welcome,
  })

  env.drive(t, "chat-1", "hi")

  assert.Empty(t, env.gateway.files)
  require.Len(t, env.gateway.texts, 1)
  assert.Contains(t, env.gateway.lastText(), "Hello User! 👋")
}
