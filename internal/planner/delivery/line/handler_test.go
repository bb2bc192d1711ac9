package line

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/model"
	pkgLine "dinner-planner/pkg/line"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

type mockUseCase struct {
	gotScope model.Scope
	gotQuery string
	text     string
	err      error
}

func (m *mockUseCase) Handle(ctx context.Context, sc model.Scope, query string) (string, error) {
	m.gotScope = sc
	m.gotQuery = query
	return m.text, m.err
}

const testSecret = "channel-secret"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookBody(t *testing.T, events ...pkgLine.Event) []byte {
	t.Helper()
	body, err := json.Marshal(pkgLine.WebhookRequest{Events: events})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func textEvent(userID, text string) pkgLine.Event {
	return pkgLine.Event{
		Type:       "message",
		ReplyToken: "reply-token",
		Source:     &pkgLine.Source{Type: "user", UserID: userID},
		Message:    &pkgLine.MessageContent{Type: "text", Text: text},
	}
}

func serveWebhook(h Handler, body []byte, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook/line", h.HandleWebhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/line", strings.NewReader(string(body)))
	req.Header.Set("X-Line-Signature", signature)
	r.ServeHTTP(w, req)
	return w
}

func TestHandleWebhook_RejectsBadSignature(t *testing.T) {
	uc := &mockUseCase{}
	h := New(&mockLogger{}, uc, pkgLine.NewBot("token"), testSecret)

	body := webhookBody(t, textEvent("user-1", "和食"))
	w := serveWebhook(h, body, "invalid-signature")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad signature, got %d", w.Code)
	}
	if uc.gotQuery != "" {
		t.Error("use case must not run for unsigned requests")
	}
}

func TestHandleWebhook_AcksImmediately(t *testing.T) {
	uc := &mockUseCase{text: "recipe"}
	h := New(&mockLogger{}, uc, pkgLine.NewBot("token"), testSecret)

	body := webhookBody(t, textEvent("user-1", "和食"))
	w := serveWebhook(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 ack, got %d", w.Code)
	}
}

func TestHandleWebhook_IgnoresNonTextEvents(t *testing.T) {
	uc := &mockUseCase{}
	h := New(&mockLogger{}, uc, pkgLine.NewBot("token"), testSecret)

	sticker := pkgLine.Event{
		Type:    "message",
		Source:  &pkgLine.Source{Type: "user", UserID: "user-1"},
		Message: &pkgLine.MessageContent{Type: "sticker"},
	}
	follow := pkgLine.Event{Type: "follow", Source: &pkgLine.Source{Type: "user", UserID: "user-1"}}

	body := webhookBody(t, sticker, follow)
	w := serveWebhook(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if uc.gotQuery != "" {
		t.Error("use case must not run for non-text events")
	}
}

func TestProcessEvent_PushesPipelineResult(t *testing.T) {
	var pushed struct {
		To       string                `json:"to"`
		Messages []pkgLine.TextMessage `json:"messages"`
	}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&pushed); err != nil {
			t.Errorf("bad push payload: %v", err)
		}
		w.Write([]byte("{}"))
	}))
	defer api.Close()

	bot := pkgLine.NewBot("token")
	bot.SetAPIURL(api.URL)

	uc := &mockUseCase{text: "## 料理のアイデア\n麻婆豆腐..."}
	h := New(&mockLogger{}, uc, bot, testSecret).(*handler)

	h.processEvent(context.Background(), textEvent("user-1", "中華"))

	if uc.gotQuery != "中華" {
		t.Errorf("query = %q", uc.gotQuery)
	}
	if uc.gotScope.UserID != "user-1" || uc.gotScope.ConversationID != "user-1" {
		t.Errorf("scope = %+v", uc.gotScope)
	}
	if uc.gotScope.Platform != "line" {
		t.Errorf("platform = %q", uc.gotScope.Platform)
	}

	if pushed.To != "user-1" {
		t.Errorf("push target = %q", pushed.To)
	}
	if len(pushed.Messages) != 1 || pushed.Messages[0].Text != uc.text {
		t.Errorf("pushed messages = %+v", pushed.Messages)
	}
}

func TestProcessEvent_GroupMessageRepliesToGroup(t *testing.T) {
	var pushed struct {
		To string `json:"to"`
	}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&pushed)
		w.Write([]byte("{}"))
	}))
	defer api.Close()

	bot := pkgLine.NewBot("token")
	bot.SetAPIURL(api.URL)

	uc := &mockUseCase{text: "recipe"}
	h := New(&mockLogger{}, uc, bot, testSecret).(*handler)

	ev := textEvent("user-1", "和食")
	ev.Source = &pkgLine.Source{Type: "group", UserID: "user-1", GroupID: "group-9"}
	h.processEvent(context.Background(), ev)

	if uc.gotScope.ConversationID != "group-9" {
		t.Errorf("conversation = %q, want the group", uc.gotScope.ConversationID)
	}
	if pushed.To != "group-9" {
		t.Errorf("push target = %q, want the group", pushed.To)
	}
}

func TestProcessEvent_SendsApologyOnFailure(t *testing.T) {
	var pushed struct {
		Messages []pkgLine.TextMessage `json:"messages"`
	}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&pushed)
		w.Write([]byte("{}"))
	}))
	defer api.Close()

	bot := pkgLine.NewBot("token")
	bot.SetAPIURL(api.URL)

	uc := &mockUseCase{err: errors.New("stage ShoppingStage: generation returned empty text")}
	h := New(&mockLogger{}, uc, bot, testSecret).(*handler)

	h.processEvent(context.Background(), textEvent("user-1", "和食"))

	if len(pushed.Messages) != 1 {
		t.Fatalf("expected one message, got %+v", pushed.Messages)
	}
	if pushed.Messages[0].Text != ErrReplyText {
		t.Errorf("expected the generic apology, got %q", pushed.Messages[0].Text)
	}
	if strings.Contains(pushed.Messages[0].Text, "ShoppingStage") {
		t.Error("internal error details must not reach the user")
	}
}
