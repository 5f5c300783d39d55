package domain

import "time"

// Subscription is a user's newsletter record. There is at most one per user;
// subscribing again reactivates it.
type Subscription struct {
	ID           string          `json:"id" bson:"_id"`
	UserID       string          `json:"userId" bson:"user_id"`
	Email        string          `json:"email" bson:"email"`
	Preferences  map[string]bool `json:"preferences" bson:"preferences"`
	SubscribedAt time.Time       `json:"subscribedAt" bson:"subscribed_at"`
	IsActive     bool            `json:"isActive" bson:"is_active"`
}
