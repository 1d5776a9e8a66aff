package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/entity"
	"unimarket/pkg/errors"
)

var (
	seller = entity.AuthUser{UID: "seller-1", Email: "marta@edu.rtu.lv", DisplayName: "Marta"}
	buyer  = entity.AuthUser{UID: "buyer-1", Email: "janis@edu.rtu.lv", DisplayName: "Janis"}
	other  = entity.AuthUser{UID: "other-1", Email: "eva@edu.rtu.lv", DisplayName: "Eva"}
)

func newChatFixture(t *testing.T) (*ChatUseCase, *fakeChatRepository, *entity.Listing) {
	t.Helper()

	chatRepo := newFakeChatRepository()
	listingRepo := newFakeListingRepository()

	listing := &entity.Listing{
		ID:              "listing-desk",
		Title:           "Standing desk",
		UserID:          seller.UID,
		UserEmail:       seller.Email,
		UserDisplayName: seller.DisplayName,
		Status:          entity.ListingStatusActive,
	}
	require.NoError(t, listingRepo.Create(context.Background(), listing))

	return NewChatUseCase(chatRepo, listingRepo), chatRepo, listing
}

func TestGetOrCreateThreadIsIdempotent(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	first, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)
	second, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.ElementsMatch(t, []string{buyer.UID, seller.UID}, first.Participants)
	assert.Equal(t, listing.ID, first.ListingID)
	assert.Equal(t, "Standing desk", first.ListingTitle)
	assert.Equal(t, "", first.LastMessage)
	assert.Nil(t, first.LastMessageAt)
	assert.Equal(t, "", first.LastMessageSenderID)
}

func TestGetOrCreateThreadCapturesSnapshots(t *testing.T) {
	uc, _, listing := newChatFixture(t)

	thread, err := uc.GetOrCreateThread(context.Background(), buyer, listing.ID)
	require.NoError(t, err)

	assert.Equal(t, "Janis", thread.ParticipantNames[buyer.UID])
	assert.Equal(t, "Marta", thread.ParticipantNames[seller.UID])
}

func TestGetOrCreateThreadRepeatedContactsYieldOneThread(t *testing.T) {
	uc, repo, listing := newChatFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ThreadID(buyer.UID, seller.UID, listing.ID), thread.ID)
	}

	assert.Len(t, repo.threads, 1)
}

func TestGetOrCreateThreadConcurrentCallsConverge(t *testing.T) {
	uc, repo, listing := newChatFixture(t)

	var wg sync.WaitGroup
	ids := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			thread, err := uc.GetOrCreateThread(context.Background(), buyer, listing.ID)
			if assert.NoError(t, err) {
				ids <- thread.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1)
	assert.Len(t, repo.threads, 1)
}

func TestGetOrCreateThreadRequiresAuth(t *testing.T) {
	uc, _, listing := newChatFixture(t)

	_, err := uc.GetOrCreateThread(context.Background(), entity.AuthUser{}, listing.ID)
	assert.True(t, errors.Is(err, "NOT_AUTHENTICATED"))
}

func TestGetOrCreateThreadUnknownListing(t *testing.T) {
	uc, _, _ := newChatFixture(t)

	_, err := uc.GetOrCreateThread(context.Background(), buyer, "no-such-listing")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestGetThreadDeniesNonParticipant(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	_, err = uc.GetThread(ctx, other, thread.ID)
	assert.True(t, errors.Is(err, "ACCESS_DENIED"))

	_, err = uc.ListMessages(ctx, other, thread.ID)
	assert.True(t, errors.Is(err, "ACCESS_DENIED"))

	_, err = uc.SubscribeMessages(ctx, other, thread.ID)
	assert.True(t, errors.Is(err, "ACCESS_DENIED"))
}

func TestGetThreadNotFound(t *testing.T) {
	uc, _, _ := newChatFixture(t)

	_, err := uc.GetThread(context.Background(), buyer, "missing-thread")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	uc, repo, listing := newChatFixture(t)
	ctx := context.Background()

	thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := uc.SendMessage(ctx, buyer, thread.ID, text)
		assert.True(t, errors.Is(err, "VALIDATION_FAILED"))
	}

	// Nothing was written and the preview is untouched.
	messages, err := repo.ListMessages(ctx, thread.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	stored, err := repo.GetThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.LastMessage)
	assert.Nil(t, stored.LastMessageAt)
}

func TestSendMessageDeniesNonParticipant(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, other, thread.ID, "hello")
	assert.True(t, errors.Is(err, "ACCESS_DENIED"))
}

func TestSendMessageUpdatesPreview(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	sent, err := uc.SendMessage(ctx, buyer, thread.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", sent.Text)
	assert.Equal(t, "Janis", sent.SenderName)
	assert.NotEmpty(t, sent.ID)
	assert.False(t, sent.CreatedAt.IsZero())

	view, err := uc.GetThread(ctx, seller, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", view.LastMessage)
	assert.Equal(t, buyer.UID, view.LastMessageSenderID)
	require.NotNil(t, view.LastMessageAt)

	messages, err := uc.ListMessages(ctx, seller, thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Equal(t, buyer.UID, messages[0].SenderID)
}

func TestSendMessageSenderNameFallsBackToEmail(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	anon := entity.AuthUser{UID: buyer.UID, Email: "janis@edu.rtu.lv"}
	thread, err := uc.GetOrCreateThread(ctx, anon, listing.ID)
	require.NoError(t, err)

	sent, err := uc.SendMessage(ctx, anon, thread.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "janis", sent.SenderName)
}

func TestSubscribeMessagesDeliversOrderedSequences(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	sub, err := uc.SubscribeMessages(ctx, buyer, thread.ID)
	require.NoError(t, err)
	defer sub.Cancel()

	// Initial snapshot is the empty history.
	assert.Empty(t, <-sub.Updates())

	_, err = uc.SendMessage(ctx, buyer, thread.ID, "first")
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, seller, thread.ID, "second")
	require.NoError(t, err)

	snapshot := <-sub.Updates()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "first", snapshot[0].Text)

	snapshot = <-sub.Updates()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "first", snapshot[0].Text)
	assert.Equal(t, "second", snapshot[1].Text)
	assert.False(t, snapshot[1].CreatedAt.Before(snapshot[0].CreatedAt))
}

func TestUnreadFlagFlipsOnReply(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	thread, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, buyer, thread.ID, "is this still available?")
	require.NoError(t, err)

	sellerView, err := uc.GetThread(ctx, seller, thread.ID)
	require.NoError(t, err)
	assert.True(t, sellerView.Unread)

	buyerView, err := uc.GetThread(ctx, buyer, thread.ID)
	require.NoError(t, err)
	assert.False(t, buyerView.Unread)

	// Replying clears it for the replier with no separate mark-read step.
	_, err = uc.SendMessage(ctx, seller, thread.ID, "yes it is")
	require.NoError(t, err)

	sellerView, err = uc.GetThread(ctx, seller, thread.ID)
	require.NoError(t, err)
	assert.False(t, sellerView.Unread)

	buyerView, err = uc.GetThread(ctx, buyer, thread.ID)
	require.NoError(t, err)
	assert.True(t, buyerView.Unread)
}

func TestListThreadsOnlyReturnsOwn(t *testing.T) {
	uc, _, listing := newChatFixture(t)
	ctx := context.Background()

	_, err := uc.GetOrCreateThread(ctx, buyer, listing.ID)
	require.NoError(t, err)

	mine, err := uc.ListThreads(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := uc.ListThreads(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOwnerMayContactOwnListing(t *testing.T) {
	uc, repo, listing := newChatFixture(t)

	// Not blocked by the workflow; the UI merely hides the affordance.
	thread, err := uc.GetOrCreateThread(context.Background(), seller, listing.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, thread.ID)
	assert.Len(t, repo.threads, 1)
}
