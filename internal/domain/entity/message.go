package entity

import "time"

// Message belongs to exactly one ChatThread. CreatedAt is assigned by the
// store at write time; client clocks are never used for ordering.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	SenderName string    `json:"sender_name" firestore:"senderName"`
	Text       string    `json:"text" firestore:"text"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
