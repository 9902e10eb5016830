package websocket

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"chatwire/store"
)

// Bridge forwards store pub/sub events to locally connected clients. Events
// on a user channel go to that user; events on a chat channel go to both
// participants named by the chat id.
type Bridge struct {
	rdb *store.Redis
	hub *Hub
	log *zap.Logger
}

func NewBridge(rdb *store.Redis, hub *Hub, log *zap.Logger) *Bridge {
	return &Bridge{rdb: rdb, hub: hub, log: log}
}

func (b *Bridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.route(b.rdb.ChannelName(msg.Channel), []byte(msg.Payload))
		}
	}
}

func (b *Bridge) route(channel string, payload []byte) {
	parts := strings.Split(channel, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[0] {
	case "user":
		b.hub.SendToUser(parts[1], payload)
	case "chat":
		a, c, ok := store.SplitChatID(parts[1])
		if !ok {
			b.log.Warn("unroutable chat channel", zap.String("channel", channel))
			return
		}
		b.hub.SendToUser(a, payload)
		b.hub.SendToUser(c, payload)
	}
}
