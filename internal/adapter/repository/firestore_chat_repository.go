package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) CreateThread(ctx context.Context, thread *entity.ChatThread) error {
	_, err := r.client.Collection("chats").Doc(thread.ID).Create(ctx, thread)
	if err != nil {
		// A concurrent or earlier contact attempt already created this
		// thread; the existing document wins.
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return mapStoreError("Failed to create chat thread", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetThread(ctx context.Context, id string) (*entity.ChatThread, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat thread", err)
		}
		return nil, mapStoreError("Failed to get chat thread", err)
	}

	var thread entity.ChatThread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse chat thread data", err)
	}
	thread.ID = doc.Ref.ID

	return &thread, nil
}

func (r *firestoreChatRepository) ListThreadsByUser(ctx context.Context, userID string) ([]*entity.ChatThread, error) {
	// Plain equality-free query to avoid a composite index; ordering by last
	// activity is applied in memory.
	query := r.client.Collection("chats").Where("participants", "array-contains", userID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching threads for user %s: %v", userID, err)
		return nil, mapStoreError("Failed to fetch chat threads", err)
	}

	threads := threadsFromDocs(docs)
	sortThreadsByActivity(threads)

	return threads, nil
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, threadID string, message *entity.Message) error {
	threadRef := r.client.Collection("chats").Doc(threadID)
	messageRef := threadRef.Collection("messages").NewDoc()
	message.ID = messageRef.ID

	// The message append and the thread's preview update commit together, so
	// readers can never observe a preview that is durably behind the message
	// history.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(threadRef); err != nil {
			return err
		}
		if err := tx.Create(messageRef, message); err != nil {
			return err
		}
		return tx.Update(threadRef, []firestore.Update{
			{Path: "lastMessage", Value: message.Text},
			{Path: "lastMessageAt", Value: firestore.ServerTimestamp},
			{Path: "lastMessageSenderId", Value: message.SenderID},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat thread", err)
		}
		return mapStoreError("Failed to append message", err)
	}

	// The server timestamp is only known after commit; read the document
	// back so callers return the stored CreatedAt instead of a zero value.
	doc, err := messageRef.Get(ctx)
	if err != nil {
		logger.Warn("Could not read back message %s in thread %s: %v", message.ID, threadID, err)
		return nil
	}

	var stored entity.Message
	if err := doc.DataTo(&stored); err != nil {
		logger.Warn("Could not parse stored message %s in thread %s: %v", message.ID, threadID, err)
		return nil
	}
	message.CreatedAt = stored.CreatedAt

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, threadID string) ([]*entity.Message, error) {
	query := r.client.Collection("chats").Doc(threadID).Collection("messages").OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for thread %s: %v", threadID, err)
			return nil, mapStoreError("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Error("Error parsing message data for thread %s: %v", threadID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) SubscribeMessages(ctx context.Context, threadID string) (repository.MessageSubscription, error) {
	query := r.client.Collection("chats").Doc(threadID).Collection("messages").OrderBy("createdAt", firestore.Asc)

	subCtx, cancel := context.WithCancel(ctx)
	sub := &messageSubscription{
		updates: make(chan []*entity.Message, 1),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)

		snapshots := query.Snapshots(subCtx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Message snapshot stream for thread %s ended: %v", threadID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Message snapshot stream for thread %s ended: %v", threadID, err)
				return
			}

			var messages []*entity.Message
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					logger.Warn("Skipping unparseable message in thread %s: %v", threadID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			select {
			case sub.updates <- messages:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}

func (r *firestoreChatRepository) SubscribeThreads(ctx context.Context, userID string) (repository.ThreadSubscription, error) {
	query := r.client.Collection("chats").Where("participants", "array-contains", userID)

	subCtx, cancel := context.WithCancel(ctx)
	sub := &threadSubscription{
		updates: make(chan []*entity.ChatThread, 1),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)

		snapshots := query.Snapshots(subCtx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Thread snapshot stream for user %s ended: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Thread snapshot stream for user %s ended: %v", userID, err)
				return
			}

			threads := threadsFromDocs(docs)
			sortThreadsByActivity(threads)

			select {
			case sub.updates <- threads:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}

type messageSubscription struct {
	updates chan []*entity.Message
	cancel  context.CancelFunc
}

func (s *messageSubscription) Updates() <-chan []*entity.Message { return s.updates }
func (s *messageSubscription) Cancel()                           { s.cancel() }

type threadSubscription struct {
	updates chan []*entity.ChatThread
	cancel  context.CancelFunc
}

func (s *threadSubscription) Updates() <-chan []*entity.ChatThread { return s.updates }
func (s *threadSubscription) Cancel()                              { s.cancel() }

func threadsFromDocs(docs []*firestore.DocumentSnapshot) []*entity.ChatThread {
	var threads []*entity.ChatThread
	for _, doc := range docs {
		var thread entity.ChatThread
		if err := doc.DataTo(&thread); err != nil {
			logger.Warn("Skipping unparseable chat thread %s: %v", doc.Ref.ID, err)
			continue
		}
		thread.ID = doc.Ref.ID
		threads = append(threads, &thread)
	}
	return threads
}

func sortThreadsByActivity(threads []*entity.ChatThread) {
	sort.SliceStable(threads, func(i, j int) bool {
		ti, tj := threads[i].LastMessageAt, threads[j].LastMessageAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
}
