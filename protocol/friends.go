package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"chatwire/models"
	"chatwire/store"
)

// Friends drives the friend-request state machine. The store is the single
// source of truth; a request and an edge for the same pair never coexist.
type Friends struct {
	store store.Store
	pub   store.Publisher
	log   *zap.Logger
}

func NewFriends(s store.Store, p store.Publisher, log *zap.Logger) *Friends {
	return &Friends{store: s, pub: p, log: log}
}

// Request is a pending incoming friend request as shown to the recipient.
type Request struct {
	SenderID    string `json:"senderId"`
	SenderEmail string `json:"senderEmail"`
}

// SendRequest records requesterID in the recipient's incoming-request set.
// No event is published; the recipient's request page polls the set.
func (f *Friends) SendRequest(ctx context.Context, requesterID, email string) error {
	recipientID, err := f.store.Get(ctx, store.UserEmailKey(email))
	if err != nil {
		if err == store.ErrNotFound {
			return ErrUserNotFound
		}
		return fmt.Errorf("resolve email: %w", err)
	}

	if recipientID == requesterID {
		return ErrSelfRequest
	}

	pending, err := f.store.SIsMember(ctx, store.IncomingRequestsKey(recipientID), requesterID)
	if err != nil {
		return fmt.Errorf("check pending request: %w", err)
	}
	if pending {
		return ErrRequestExists
	}

	friends, err := f.store.SIsMember(ctx, store.FriendsKey(requesterID), recipientID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return ErrAlreadyFriends
	}

	return f.store.SAdd(ctx, store.IncomingRequestsKey(recipientID), requesterID)
}

// Accept converts a pending request into a symmetric friendship edge and
// notifies both sides. The edge writes and the request removal are the
// durable part; publish failures are logged and never rolled back.
func (f *Friends) Accept(ctx context.Context, userID, requesterID string) error {
	friends, err := f.store.SIsMember(ctx, store.FriendsKey(userID), requesterID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return ErrAlreadyFriends
	}

	pending, err := f.store.SIsMember(ctx, store.IncomingRequestsKey(userID), requesterID)
	if err != nil {
		return fmt.Errorf("check pending request: %w", err)
	}
	if !pending {
		return ErrNoRequest
	}

	if err := f.store.SAdd(ctx, store.FriendsKey(userID), requesterID); err != nil {
		return fmt.Errorf("add friend edge: %w", err)
	}
	if err := f.store.SAdd(ctx, store.FriendsKey(requesterID), userID); err != nil {
		return fmt.Errorf("add friend edge: %w", err)
	}
	if err := f.store.SRem(ctx, store.IncomingRequestsKey(userID), requesterID); err != nil {
		return fmt.Errorf("remove request: %w", err)
	}

	f.notifyNewFriend(ctx, requesterID, userID)
	f.notifyNewFriend(ctx, userID, requesterID)
	return nil
}

// notifyNewFriend tells `to` about its new friend `friendID`.
func (f *Friends) notifyNewFriend(ctx context.Context, to, friendID string) {
	friend, err := f.getUser(ctx, friendID)
	if err != nil {
		f.log.Warn("load friend record for notify", zap.String("user_id", friendID), zap.Error(err))
		return
	}
	if err := f.pub.Publish(ctx, store.FriendsChannel(to), "new_friend", friend); err != nil {
		f.log.Warn("publish new_friend", zap.String("channel", store.FriendsChannel(to)), zap.Error(err))
	}
}

// Decline drops a pending request without creating an edge. No event.
func (f *Friends) Decline(ctx context.Context, userID, requesterID string) error {
	pending, err := f.store.SIsMember(ctx, store.IncomingRequestsKey(userID), requesterID)
	if err != nil {
		return fmt.Errorf("check pending request: %w", err)
	}
	if !pending {
		return ErrNoRequest
	}
	return f.store.SRem(ctx, store.IncomingRequestsKey(userID), requesterID)
}

// List returns the user records of all established friends.
func (f *Friends) List(ctx context.Context, userID string) ([]models.User, error) {
	ids, err := f.store.SMembers(ctx, store.FriendsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	friends := make([]models.User, 0, len(ids))
	for _, id := range ids {
		friend, err := f.getUser(ctx, id)
		if err != nil {
			f.log.Warn("load friend record", zap.String("user_id", id), zap.Error(err))
			continue
		}
		friends = append(friends, *friend)
	}
	return friends, nil
}

// Requests returns the pending incoming requests with sender emails resolved.
func (f *Friends) Requests(ctx context.Context, userID string) ([]Request, error) {
	ids, err := f.store.SMembers(ctx, store.IncomingRequestsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	requests := make([]Request, 0, len(ids))
	for _, id := range ids {
		sender, err := f.getUser(ctx, id)
		if err != nil {
			f.log.Warn("load requester record", zap.String("user_id", id), zap.Error(err))
			continue
		}
		requests = append(requests, Request{SenderID: id, SenderEmail: sender.Email})
	}
	return requests, nil
}

func (f *Friends) getUser(ctx context.Context, id string) (*models.User, error) {
	raw, err := f.store.Get(ctx, store.UserKey(id))
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
