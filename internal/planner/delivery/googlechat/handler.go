package googlechat

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/model"
	pkgGchat "dinner-planner/pkg/gchat"
)

const (
	// ErrReplyText is the generic apology sent when a turn fails.
	ErrReplyText = "申し訳ありません。リクエストを完了できませんでした。もう一度お試しください。"

	greetingText = "こんにちは！今晩の気分を教えてもらえれば、献立と買い物リストとレシピを考えます。"
)

// HandleWebhook is the Gin handler for Google Chat webhook events.
// Unlike LINE, Google Chat renders the webhook response body as the bot's
// reply, so the default path runs the pipeline inline and answers in the
// same HTTP exchange.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var ev pkgGchat.MessageEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		h.l.Errorf(ctx, "googlechat handler: failed to parse event: %v", err)
		c.JSON(http.StatusBadRequest, pkgGchat.TextResponse{Text: "invalid event"})
		return
	}

	if ev.Type == "ADDED_TO_SPACE" {
		c.JSON(http.StatusOK, pkgGchat.TextResponse{Text: greetingText})
		return
	}
	if ev.Type != "MESSAGE" || ev.Message == nil || ev.Space == nil || ev.User == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	// ArgumentText strips the @bot mention; fall back to the raw text for DMs
	query := strings.TrimSpace(ev.Message.ArgumentText)
	if query == "" {
		query = ev.Message.Text
	}

	sc := model.Scope{
		UserID:         ev.User.Name,
		ConversationID: ev.Space.Name,
		Platform:       "googlechat",
		DisplayName:    ev.User.DisplayName,
	}

	if h.chat != nil {
		go h.processAsync(context.Background(), sc, query)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, h.syncTimeout)
	defer cancel()

	text, err := h.uc.Handle(runCtx, sc, query)
	if err != nil {
		h.l.Errorf(ctx, "googlechat handler: turn failed: %v", err)
		text = ErrReplyText
	}

	c.JSON(http.StatusOK, pkgGchat.TextResponse{Text: text})
}

// processAsync runs a turn detached from the webhook exchange and posts the
// reply into the space through the Chat API.
func (h *handler) processAsync(ctx context.Context, sc model.Scope, query string) {
	text, err := h.uc.Handle(ctx, sc, query)
	if err != nil {
		h.l.Errorf(ctx, "googlechat handler: turn failed: %v", err)
		text = ErrReplyText
	}

	if err := h.chat.CreateMessage(ctx, sc.ConversationID, text); err != nil {
		h.l.Errorf(ctx, "googlechat handler: failed to post reply: %v", err)
	}
}
