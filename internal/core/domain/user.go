package domain

import "time"

// Address is the postal address attached to a profile. Every field is optional.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}

// User is a registered shopper. PasswordHash never leaves the server: the json
// tag drops it, which is what makes every encoded User a redacted user.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Phone        string    `json:"phone" bson:"phone"`
	Address      Address   `json:"address" bson:"address"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	IsSubscribed bool      `json:"isSubscribed" bson:"is_subscribed"`
}

// Redacted returns a copy of u without the password hash.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

// AddressUpdate carries the address sub-fields a caller wants to change.
// Nil fields are left untouched.
type AddressUpdate struct {
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	ZipCode *string `json:"zipCode,omitempty"`
	Country *string `json:"country,omitempty"`
}

// ProfileUpdate is a partial profile mutation. Identity fields (id, email,
// creation time) are deliberately absent.
type ProfileUpdate struct {
	Name    *string        `json:"name,omitempty"`
	Phone   *string        `json:"phone,omitempty"`
	Address *AddressUpdate `json:"address,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if a := p.Address; a != nil {
		setIf(&u.Address.Street, a.Street)
		setIf(&u.Address.City, a.City)
		setIf(&u.Address.State, a.State)
		setIf(&u.Address.ZipCode, a.ZipCode)
		setIf(&u.Address.Country, a.Country)
	}
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// TokenClaims is the identity embedded in a session token.
type TokenClaims struct {
	UserID string
	Email  string
}
