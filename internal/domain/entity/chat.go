package entity

import (
	"sort"
	"strings"
	"time"
)

// ChatThread is the conversation container between exactly two users about
// one listing. Participant names, photos and the listing title are snapshots
// taken at creation time; they are not re-synced on later profile or listing
// edits.
type ChatThread struct {
	ID                  string            `json:"id" firestore:"id"`
	Participants        []string          `json:"participants" firestore:"participants"`
	ParticipantNames    map[string]string `json:"participant_names" firestore:"participantNames"`
	ParticipantPhotos   map[string]string `json:"participant_photos" firestore:"participantPhotos"`
	ListingID           string            `json:"listing_id" firestore:"listingId"`
	ListingTitle        string            `json:"listing_title" firestore:"listingTitle"`
	LastMessage         string            `json:"last_message" firestore:"lastMessage"`
	LastMessageAt       *time.Time        `json:"last_message_at,omitempty" firestore:"lastMessageAt"`
	LastMessageSenderID string            `json:"last_message_sender_id" firestore:"lastMessageSenderId"`
	CreatedAt           time.Time         `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// ThreadID derives the document id for the thread between two users about a
// listing. The participant pair is sorted first, so the id is the same no
// matter who initiates contact, which makes thread creation idempotent and
// enforces the one-thread-per-pair-per-listing rule at the store level.
func ThreadID(uidA, uidB, listingID string) string {
	pair := []string{uidA, uidB}
	sort.Strings(pair)
	return strings.Join([]string{pair[0], pair[1], listingID}, "_")
}

// HasParticipant reports membership independent of stored order.
func (t *ChatThread) HasParticipant(uid string) bool {
	for _, p := range t.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// OtherParticipant returns the counterpart of uid, or "" when uid is not a
// participant.
func (t *ChatThread) OtherParticipant(uid string) string {
	for _, p := range t.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

// UnreadFor reports whether the thread shows as unread for the viewer. There
// are no per-user read receipts: a thread is unread exactly while the last
// message was sent by someone else, and it clears only when the viewer
// replies.
func (t *ChatThread) UnreadFor(viewerUID string) bool {
	return t.LastMessageSenderID != "" && t.LastMessageSenderID != viewerUID
}
