package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatwire/models"
	"chatwire/store"
)

// Messages appends to per-chat ordered logs and fans live copies out to the
// chat channel and the counterpart's chats channel. Only the log append is
// awaited; the publishes are advisory.
type Messages struct {
	store store.Store
	pub   store.Publisher
	log   *zap.Logger
}

func NewMessages(s store.Store, p store.Publisher, log *zap.Logger) *Messages {
	return &Messages{store: s, pub: p, log: log}
}

// Send validates that senderID is a participant of chatID and friends with
// the counterpart, then appends the message and publishes it.
func (m *Messages) Send(ctx context.Context, senderID, chatID, text string) (*models.Message, error) {
	friendID, err := m.authorize(ctx, senderID, chatID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	rawSender, err := m.store.Get(ctx, store.UserKey(senderID))
	if err != nil {
		return nil, fmt.Errorf("load sender record: %w", err)
	}
	var sender models.User
	if err := json.Unmarshal([]byte(rawSender), &sender); err != nil {
		return nil, fmt.Errorf("decode sender record: %w", err)
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := m.pub.Publish(ctx, store.ChatChannel(chatID), "incoming-message", msg); err != nil {
		m.log.Warn("publish incoming-message", zap.String("chat_id", chatID), zap.Error(err))
	}
	enriched := models.ChatMessage{Message: msg, SenderName: sender.Name, SenderImg: sender.Image}
	if err := m.pub.Publish(ctx, store.ChatsChannel(friendID), "new_message", enriched); err != nil {
		m.log.Warn("publish new_message", zap.String("user_id", friendID), zap.Error(err))
	}

	member, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	if err := m.store.ZAdd(ctx, store.ChatMessagesKey(chatID), float64(msg.Timestamp), string(member)); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return &msg, nil
}

// History returns the chat's full log in insertion order.
func (m *Messages) History(ctx context.Context, userID, chatID string) ([]models.Message, error) {
	if _, err := m.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}

	raw, err := m.store.ZRange(ctx, store.ChatMessagesKey(chatID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	messages := make([]models.Message, 0, len(raw))
	for _, entry := range raw {
		var msg models.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			m.log.Warn("skip malformed log entry", zap.String("chat_id", chatID), zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Last returns the newest message between userID and friendID, or nil for an
// empty log. Used for chat list previews.
func (m *Messages) Last(ctx context.Context, userID, friendID string) (*models.Message, error) {
	chatID := store.ChatID(userID, friendID)
	raw, err := m.store.ZRange(ctx, store.ChatMessagesKey(chatID), -1, -1)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var msg models.Message
	if err := json.Unmarshal([]byte(raw[0]), &msg); err != nil {
		return nil, fmt.Errorf("decode log entry: %w", err)
	}
	return &msg, nil
}

// authorize checks chat id shape, participation and friendship, returning
// the counterpart id.
func (m *Messages) authorize(ctx context.Context, userID, chatID string) (string, error) {
	a, b, ok := store.SplitChatID(chatID)
	if !ok {
		return "", ErrBadChatID
	}

	if userID != a && userID != b {
		return "", ErrNotParticipant
	}

	friendID := a
	if userID == a {
		friendID = b
	}

	friends, err := m.store.SIsMember(ctx, store.FriendsKey(userID), friendID)
	if err != nil {
		return "", fmt.Errorf("check friendship: %w", err)
	}
	if !friends {
		return "", ErrNotFriends
	}
	return friendID, nil
}
