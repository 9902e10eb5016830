package store

import "strings"

// Key patterns are the wire contract with the store; changing them orphans
// existing data.

func UserKey(id string) string {
	return "user:" + id
}

func UserEmailKey(email string) string {
	return "user:email:" + email
}

// PasswordKey holds the bcrypt hash separately from the user record, which is
// published verbatim in new_friend events.
func PasswordKey(id string) string {
	return "user:" + id + ":password"
}

func FriendsKey(id string) string {
	return "user:" + id + ":friends"
}

func IncomingRequestsKey(id string) string {
	return "user:" + id + ":incoming_friend_requests"
}

const chatIDSeparator = "--"

// ChatID builds the canonical id for a two-party chat: both participant ids
// in ascending order joined by "--", identical no matter which side asks.
func ChatID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + chatIDSeparator + b
}

// SplitChatID returns the two participant ids, or ok=false if the id is not
// exactly two non-empty ids.
func SplitChatID(chatID string) (string, string, bool) {
	parts := strings.Split(chatID, chatIDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func ChatMessagesKey(chatID string) string {
	return "chat:" + chatID + ":messages"
}

// Channel names for the publisher. The deployment prefix is applied by the
// Publisher implementation, not by callers.

func FriendsChannel(id string) string {
	return "user:" + id + ":friends"
}

func ChatsChannel(id string) string {
	return "user:" + id + ":chats"
}

func ChatChannel(chatID string) string {
	return "chat:" + chatID + ":messages"
}
