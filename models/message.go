package models

// Message is immutable once appended to a chat log. Timestamp is Unix
// milliseconds and doubles as the log score.
type Message struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// ChatMessage is the enriched copy delivered to the counterpart's chats
// channel so the sidebar can render a preview without another lookup.
type ChatMessage struct {
	Message
	SenderName string `json:"senderName"`
	SenderImg  string `json:"senderImg,omitempty"`
}
