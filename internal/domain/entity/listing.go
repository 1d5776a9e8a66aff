package entity

import "time"

const (
	ListingStatusActive   = "active"
	ListingStatusReserved = "reserved"
	ListingStatusSold     = "sold"
)

var ListingCategories = []string{"electronics", "clean", "cooking", "home", "personal", "other"}

var ListingConditions = []string{"new", "like-new", "good", "fair"}

// Location is the meetup point attached to a listing.
type Location struct {
	Lat     float64 `json:"lat" firestore:"lat"`
	Lng     float64 `json:"lng" firestore:"lng"`
	Address string  `json:"address" firestore:"address"`
}

// Listing is a second-hand item offered by a student. The owner's email,
// display name and photo are denormalized at creation so listing cards and
// new chat threads can be built without extra user lookups.
type Listing struct {
	ID              string    `json:"id" firestore:"id"`
	Title           string    `json:"title" firestore:"title"`
	Description     string    `json:"description" firestore:"description"`
	Category        string    `json:"category" firestore:"category"`
	Condition       string    `json:"condition" firestore:"condition"`
	Price           float64   `json:"price" firestore:"price"` // 0 = free/donation
	Images          []string  `json:"images" firestore:"images"`
	Location        *Location `json:"location,omitempty" firestore:"location,omitempty"`
	UserID          string    `json:"user_id" firestore:"userId"`
	UserEmail       string    `json:"user_email" firestore:"userEmail"`
	UserDisplayName string    `json:"user_display_name" firestore:"userDisplayName"`
	UserPhotoURL    string    `json:"user_photo_url,omitempty" firestore:"userPhotoURL,omitempty"`
	Status          string    `json:"status" firestore:"status"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}

func ValidListingStatus(status string) bool {
	switch status {
	case ListingStatusActive, ListingStatusReserved, ListingStatusSold:
		return true
	}
	return false
}
