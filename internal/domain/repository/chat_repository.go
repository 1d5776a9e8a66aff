package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

// MessageSubscription is a standing subscription to a thread's messages.
// Every store-side change delivers the full refreshed sequence, ordered by
// createdAt ascending. Cancel stops delivery and closes the channel; callers
// must cancel when they leave the thread view.
type MessageSubscription interface {
	Updates() <-chan []*entity.Message
	Cancel()
}

// ThreadSubscription is a standing subscription to a user's thread list,
// sorted by last activity, newest first.
type ThreadSubscription interface {
	Updates() <-chan []*entity.ChatThread
	Cancel()
}

type ChatRepository interface {
	// CreateThread persists a thread under its pre-derived id. If a thread
	// with the same id already exists the call is a no-op success; the
	// existing document wins.
	CreateThread(ctx context.Context, thread *entity.ChatThread) error
	GetThread(ctx context.Context, id string) (*entity.ChatThread, error)
	ListThreadsByUser(ctx context.Context, userID string) ([]*entity.ChatThread, error)

	// AppendMessage writes the message and the thread's last-message preview
	// fields in a single transaction. The message's CreatedAt and the
	// thread's lastMessageAt are assigned by the store; the passed message's
	// ID and CreatedAt reflect the stored document when the call returns.
	AppendMessage(ctx context.Context, threadID string, message *entity.Message) error
	ListMessages(ctx context.Context, threadID string) ([]*entity.Message, error)

	SubscribeMessages(ctx context.Context, threadID string) (MessageSubscription, error)
	SubscribeThreads(ctx context.Context, userID string) (ThreadSubscription, error)
}
