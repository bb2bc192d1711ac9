package model

// Scope identifies who a request acts on behalf of and in which conversation.
// Delivery handlers build it from platform payloads; everything below them is
// platform-agnostic.
type Scope struct {
	UserID         string
	ConversationID string
	Platform       string // "line", "googlechat"
	DisplayName    string
}
