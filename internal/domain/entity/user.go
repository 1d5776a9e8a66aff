package entity

import "time"

type User struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	PhotoURL    string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	University  string    `json:"university" firestore:"university"`
	IsAdmin     bool      `json:"is_admin" firestore:"isAdmin"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
