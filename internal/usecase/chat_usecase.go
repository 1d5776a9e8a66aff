package usecase

import (
	"context"
	"strings"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

// ChatUseCase owns thread lifecycle, message append and participant
// authorization, plus the contact workflow that links a listing to its
// unique thread per participant pair.
type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	listingRepo repository.ListingRepository
}

func NewChatUseCase(chatRepo repository.ChatRepository, listingRepo repository.ListingRepository) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		listingRepo: listingRepo,
	}
}

// ThreadResponse decorates a thread with the viewer-dependent unread flag.
type ThreadResponse struct {
	*entity.ChatThread
	Unread bool `json:"unread"`
}

// GetOrCreateThread returns the single thread between the viewer and the
// listing's owner for that listing, creating it on first contact. The thread
// id is derived from the sorted participant pair and the listing id, so
// concurrent first contacts converge on the same document instead of racing
// a query-then-create. An owner contacting their own listing is not blocked
// here; the UI hides the affordance.
func (uc *ChatUseCase) GetOrCreateThread(ctx context.Context, viewer entity.AuthUser, listingID string) (*entity.ChatThread, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to contact the seller", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	threadID := entity.ThreadID(viewer.UID, listing.UserID, listing.ID)

	thread := &entity.ChatThread{
		ID:           threadID,
		Participants: []string{viewer.UID, listing.UserID},
		ParticipantNames: map[string]string{
			viewer.UID:     viewer.SenderName(),
			listing.UserID: listing.UserDisplayName,
		},
		ParticipantPhotos: map[string]string{
			viewer.UID:     viewer.PhotoURL,
			listing.UserID: listing.UserPhotoURL,
		},
		ListingID:           listing.ID,
		ListingTitle:        listing.Title,
		LastMessage:         "",
		LastMessageSenderID: "",
	}

	if err := uc.chatRepo.CreateThread(ctx, thread); err != nil {
		logger.Error("GetOrCreateThread: failed to create thread %s: %v", threadID, err)
		return nil, err
	}

	// Read back so that a thread created by an earlier contact keeps its
	// original snapshots.
	return uc.chatRepo.GetThread(ctx, threadID)
}

// GetThread loads a thread and authorizes the viewer as a participant.
func (uc *ChatUseCase) GetThread(ctx context.Context, viewer entity.AuthUser, threadID string) (*ThreadResponse, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to view messages", nil)
	}

	thread, err := uc.chatRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !uc.AuthorizeParticipant(thread, viewer.UID) {
		return nil, errors.AccessDenied("You are not a participant in this conversation", nil)
	}

	return &ThreadResponse{
		ChatThread: thread,
		Unread:     thread.UnreadFor(viewer.UID),
	}, nil
}

// AuthorizeParticipant reports whether uid may access the thread. This is
// the sole access-control gate for thread content.
func (uc *ChatUseCase) AuthorizeParticipant(thread *entity.ChatThread, uid string) bool {
	return thread.HasParticipant(uid)
}

// ListThreads returns the viewer's threads, most recently active first, each
// carrying its unread flag.
func (uc *ChatUseCase) ListThreads(ctx context.Context, viewer entity.AuthUser) ([]*ThreadResponse, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to view messages", nil)
	}

	threads, err := uc.chatRepo.ListThreadsByUser(ctx, viewer.UID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		responses = append(responses, &ThreadResponse{
			ChatThread: thread,
			Unread:     thread.UnreadFor(viewer.UID),
		})
	}

	return responses, nil
}

// ListMessages returns the thread's full message history, oldest first.
func (uc *ChatUseCase) ListMessages(ctx context.Context, viewer entity.AuthUser, threadID string) ([]*entity.Message, error) {
	if _, err := uc.GetThread(ctx, viewer, threadID); err != nil {
		return nil, err
	}

	return uc.chatRepo.ListMessages(ctx, threadID)
}

// SubscribeMessages establishes a live stream of the thread's ordered
// message history. Every store-side change delivers the full refreshed
// sequence. The caller must Cancel the subscription when leaving the thread
// view.
func (uc *ChatUseCase) SubscribeMessages(ctx context.Context, viewer entity.AuthUser, threadID string) (repository.MessageSubscription, error) {
	if _, err := uc.GetThread(ctx, viewer, threadID); err != nil {
		return nil, err
	}

	return uc.chatRepo.SubscribeMessages(ctx, threadID)
}

// SubscribeThreads establishes a live stream of the viewer's thread list.
func (uc *ChatUseCase) SubscribeThreads(ctx context.Context, viewer entity.AuthUser) (repository.ThreadSubscription, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to view messages", nil)
	}

	return uc.chatRepo.SubscribeThreads(ctx, viewer.UID)
}

// SendMessage appends a message to the thread and refreshes the thread's
// last-message preview in the same store transaction. The message timestamp
// is assigned server-side.
func (uc *ChatUseCase) SendMessage(ctx context.Context, viewer entity.AuthUser, threadID, text string) (*entity.Message, error) {
	if viewer.IsZero() {
		return nil, errors.NotAuthenticated("Sign in to send messages", nil)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.Validation("Message text must not be empty", nil)
	}

	thread, err := uc.chatRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !uc.AuthorizeParticipant(thread, viewer.UID) {
		logger.Warn("SendMessage: user %s is not a participant in thread %s", viewer.UID, threadID)
		return nil, errors.AccessDenied("You are not a participant in this conversation", nil)
	}

	message := &entity.Message{
		SenderID:   viewer.UID,
		SenderName: viewer.SenderName(),
		Text:       trimmed,
	}

	if err := uc.chatRepo.AppendMessage(ctx, threadID, message); err != nil {
		logger.Error("SendMessage: failed to append message to thread %s: %v", threadID, err)
		return nil, err
	}

	return message, nil
}
