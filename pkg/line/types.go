package line

// WebhookRequest is the body LINE POSTs to the webhook endpoint.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event.
type Event struct {
	Type       string          `json:"type"` // "message", "follow", ...
	ReplyToken string          `json:"replyToken,omitempty"`
	Source     *Source         `json:"source,omitempty"`
	Timestamp  int64           `json:"timestamp"`
	Message    *MessageContent `json:"message,omitempty"`
}

// Source identifies who sent the event and from which conversation.
type Source struct {
	Type    string `json:"type"` // "user", "group", "room"
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// ConversationID returns the identity of the conversation the event came
// from: the group or room when present, otherwise the 1:1 chat with the user.
func (s *Source) ConversationID() string {
	switch {
	case s == nil:
		return ""
	case s.GroupID != "":
		return s.GroupID
	case s.RoomID != "":
		return s.RoomID
	default:
		return s.UserID
	}
}

// MessageContent is the message payload of a message event.
type MessageContent struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "text", "sticker", ...
	Text string `json:"text,omitempty"`
}

// TextMessage is an outgoing text message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextMessage builds an outgoing text message.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []TextMessage `json:"messages"`
}

// APIResponse is the error body the Messaging API returns on failure.
type APIResponse struct {
	Message string `json:"message"`
}
