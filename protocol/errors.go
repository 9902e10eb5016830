// Package protocol implements the friend-relationship and messaging state
// transitions over an injected store. All guards are check-then-act: the
// store's per-command atomicity is the only synchronization, so concurrent
// duplicate accepts can publish twice but can never create a second edge.
package protocol

import "errors"

// Sentinels for stable error mapping at the HTTP layer.
var (
	// ErrUserNotFound indicates the email resolves to no known user.
	ErrUserNotFound = errors.New("user not found")

	// ErrSelfRequest indicates an attempt to friend-request yourself.
	ErrSelfRequest = errors.New("cannot add yourself")

	// ErrRequestExists indicates a pending request for the same pair.
	ErrRequestExists = errors.New("friend request already sent")

	// ErrAlreadyFriends indicates the edge already exists.
	ErrAlreadyFriends = errors.New("already friends")

	// ErrNoRequest indicates no pending request to accept or decline.
	ErrNoRequest = errors.New("friend request does not exist")

	// ErrBadChatID indicates a chat id that does not name exactly two users.
	ErrBadChatID = errors.New("malformed chat id")

	// ErrNotParticipant indicates the actor is not part of the chat.
	ErrNotParticipant = errors.New("not a participant of this chat")

	// ErrNotFriends indicates the counterpart is not in the actor's friend set.
	ErrNotFriends = errors.New("can only message friends")

	// ErrEmptyMessage indicates a message with no text.
	ErrEmptyMessage = errors.New("message text is empty")
)
