package line

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/model"
	pkgLine "dinner-planner/pkg/line"
	pkgResponse "dinner-planner/pkg/response"
)

// ErrReplyText is the generic apology sent when a turn fails. Internal error
// text never reaches the user.
const ErrReplyText = "申し訳ありません。リクエストを完了できませんでした。もう一度お試しください。"

// HandleWebhook is the Gin handler for incoming LINE webhook events.
// It verifies the signature, responds with HTTP 200 immediately, and runs the
// planning pipeline in a background goroutine: the three-stage chain can take
// well over LINE's webhook timeout, so replies are delivered via the push API.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		h.l.Errorf(ctx, "line handler: failed to read body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if err := pkgLine.ValidateSignature(h.channelSecret, body, c.GetHeader("X-Line-Signature")); err != nil {
		h.l.Warnf(ctx, "line handler: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	var req pkgLine.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.l.Errorf(ctx, "line handler: failed to parse webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	for _, event := range req.Events {
		if event.Type != "message" || event.Source == nil || event.Message == nil || event.Message.Type != "text" {
			continue
		}

		// Snapshot before spawning the goroutine to avoid races on the loop variable
		ev := event

		go func() {
			// Detach from the HTTP request context, which is cancelled as
			// soon as the 200 goes out
			bgCtx := context.Background()
			h.processEvent(bgCtx, ev)
		}()
	}

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processEvent runs one planning turn and pushes the result back to the chat.
func (h *handler) processEvent(ctx context.Context, ev pkgLine.Event) {
	sc := model.Scope{
		UserID:         ev.Source.UserID,
		ConversationID: ev.Source.ConversationID(),
		Platform:       "line",
	}

	text, err := h.uc.Handle(ctx, sc, ev.Message.Text)
	if err != nil {
		h.l.Errorf(ctx, "line handler: turn failed: %v", err)
		text = ErrReplyText
	}

	if err := h.bot.PushMessage(ctx, sc.ConversationID, pkgLine.NewTextMessage(text)); err != nil {
		h.l.Errorf(ctx, "line handler: failed to push reply: %v", err)
	}
}
