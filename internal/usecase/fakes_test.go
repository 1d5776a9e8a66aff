package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

// fakeChatRepository mimics the document store in memory: thread creation is
// idempotent on the document id, message timestamps are assigned by the
// store, and the preview update commits together with the append.
type fakeChatRepository struct {
	mu       sync.Mutex
	threads  map[string]*entity.ChatThread
	messages map[string][]*entity.Message
	clock    time.Time
	subs     []*fakeMessageSub
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		threads:  make(map[string]*entity.ChatThread),
		messages: make(map[string][]*entity.Message),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeChatRepository) serverNow() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeChatRepository) CreateThread(ctx context.Context, thread *entity.ChatThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.threads[thread.ID]; exists {
		return nil
	}

	stored := *thread
	stored.CreatedAt = r.serverNow()
	r.threads[thread.ID] = &stored
	return nil
}

func (r *fakeChatRepository) GetThread(ctx context.Context, id string) (*entity.ChatThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	thread, ok := r.threads[id]
	if !ok {
		return nil, errors.NotFound("Chat thread", nil)
	}
	copied := *thread
	return &copied, nil
}

func (r *fakeChatRepository) ListThreadsByUser(ctx context.Context, userID string) ([]*entity.ChatThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var threads []*entity.ChatThread
	for _, thread := range r.threads {
		if thread.HasParticipant(userID) {
			copied := *thread
			threads = append(threads, &copied)
		}
	}
	return threads, nil
}

func (r *fakeChatRepository) AppendMessage(ctx context.Context, threadID string, message *entity.Message) error {
	r.mu.Lock()

	thread, ok := r.threads[threadID]
	if !ok {
		r.mu.Unlock()
		return errors.NotFound("Chat thread", nil)
	}

	now := r.serverNow()
	message.ID = threadID + "-" + now.Format("150405")
	message.CreatedAt = now

	stored := *message
	r.messages[threadID] = append(r.messages[threadID], &stored)

	thread.LastMessage = message.Text
	thread.LastMessageAt = &now
	thread.LastMessageSenderID = message.SenderID

	snapshot := r.snapshotLocked(threadID)
	subs := make([]*fakeMessageSub, 0, len(r.subs))
	for _, sub := range r.subs {
		if sub.threadID == threadID {
			subs = append(subs, sub)
		}
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.push(snapshot)
	}
	return nil
}

func (r *fakeChatRepository) snapshotLocked(threadID string) []*entity.Message {
	msgs := r.messages[threadID]
	snapshot := make([]*entity.Message, len(msgs))
	for i, m := range msgs {
		copied := *m
		snapshot[i] = &copied
	}
	return snapshot
}

func (r *fakeChatRepository) ListMessages(ctx context.Context, threadID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(threadID), nil
}

func (r *fakeChatRepository) SubscribeMessages(ctx context.Context, threadID string) (repository.MessageSubscription, error) {
	r.mu.Lock()
	sub := &fakeMessageSub{
		threadID: threadID,
		updates:  make(chan []*entity.Message, 16),
	}
	sub.updates <- r.snapshotLocked(threadID)
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return sub, nil
}

func (r *fakeChatRepository) SubscribeThreads(ctx context.Context, userID string) (repository.ThreadSubscription, error) {
	threads, _ := r.ListThreadsByUser(ctx, userID)
	sub := &fakeThreadSub{updates: make(chan []*entity.ChatThread, 1)}
	sub.updates <- threads
	return sub, nil
}

type fakeMessageSub struct {
	threadID string
	updates  chan []*entity.Message

	mu        sync.Mutex
	cancelled bool
}

func (s *fakeMessageSub) Updates() <-chan []*entity.Message { return s.updates }

func (s *fakeMessageSub) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cancelled {
		s.cancelled = true
		close(s.updates)
	}
}

// push delivers a snapshot unless the subscription is already cancelled.
// The mutex spans the send so Cancel can never close the channel between
// the check and the send.
func (s *fakeMessageSub) push(snapshot []*entity.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.updates <- snapshot
}

type fakeThreadSub struct {
	updates chan []*entity.ChatThread
}

func (s *fakeThreadSub) Updates() <-chan []*entity.ChatThread { return s.updates }
func (s *fakeThreadSub) Cancel()                              { close(s.updates) }

type fakeListingRepository struct {
	mu       sync.Mutex
	listings map[string]*entity.Listing
	nextID   int
}

func newFakeListingRepository() *fakeListingRepository {
	return &fakeListingRepository{listings: make(map[string]*entity.Listing)}
}

func (r *fakeListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		r.nextID++
		listing.ID = fmt.Sprintf("listing-%d", r.nextID)
	}
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeListingRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Listing
	for _, l := range r.listings {
		if l.Status == status {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeListingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Listing
	for _, l := range r.listings {
		if l.UserID == userID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Listing
	for _, l := range r.listings {
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.UpdatedAt = time.Now()
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.Status = status
	return nil
}

func (r *fakeListingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.listings, id)
	return nil
}

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.IsAdmin = isAdmin
	return nil
}

type fakeBlobStorage struct {
	mu      sync.Mutex
	deleted []string
	failOn  map[string]bool
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{failOn: make(map[string]bool)}
}

func (s *fakeBlobStorage) Upload(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	return "https://storage.example.com/" + folder + "/object", nil
}

func (s *fakeBlobStorage) Delete(ctx context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[fileURL] {
		return errors.NotFound("Object", nil)
	}
	s.deleted = append(s.deleted, fileURL)
	return nil
}

type fakeIdentityClient struct {
	mu       sync.Mutex
	nextUID  int
	profiles map[string][2]string
}

func newFakeIdentityClient() *fakeIdentityClient {
	return &fakeIdentityClient{profiles: make(map[string][2]string)}
}

func (c *fakeIdentityClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextUID++
	uid := fmt.Sprintf("uid-%d", c.nextUID)
	c.profiles[uid] = [2]string{displayName, ""}
	return uid, nil
}

func (c *fakeIdentityClient) VerifyToken(ctx context.Context, token string) (string, error) {
	return token, nil
}

func (c *fakeIdentityClient) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	profile := c.profiles[uid]
	if displayName != "" {
		profile[0] = displayName
	}
	if photoURL != "" {
		profile[1] = photoURL
	}
	c.profiles[uid] = profile
	return nil
}
