package gchat

// MessageEvent is the Google Chat webhook event body.
type MessageEvent struct {
	Type    string   `json:"type"` // "MESSAGE", "ADDED_TO_SPACE", ...
	Message *Message `json:"message,omitempty"`
	Space   *Space   `json:"space,omitempty"`
	User    *User    `json:"user,omitempty"`
}

// Message is the chat message payload of an event.
type Message struct {
	Name         string `json:"name,omitempty"`
	Text         string `json:"text,omitempty"`
	ArgumentText string `json:"argumentText,omitempty"`
}

// Space identifies the conversation the event came from.
type Space struct {
	Name        string `json:"name,omitempty"` // "spaces/AAAA..."
	DisplayName string `json:"displayName,omitempty"`
}

// User identifies the sender.
type User struct {
	Name        string `json:"name,omitempty"` // "users/1234..."
	DisplayName string `json:"displayName,omitempty"`
}

// TextResponse is the synchronous reply body Google Chat expects.
type TextResponse struct {
	Text string `json:"text"`
}
