package models

import "time"

type Role string

const (
	RoleUser         Role = "user"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
	RoleFamily       Role = "family"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganization, RoleAdmin, RoleFamily:
		return true
	}
	return false
}

type AdStatus string

const (
	AdInactive       AdStatus = "inactive"
	AdActive         AdStatus = "active"
	AdRemovedByAdmin AdStatus = "removed_by_admin"
)

type RequestStatus string

const (
	RequestActive  RequestStatus = "active"
	RequestRemoved RequestStatus = "removed"
)

type Condition string

const (
	ConditionExcellent Condition = "odlično"
	ConditionGood      Condition = "dobro"
	ConditionFair      Condition = "solidno"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair:
		return true
	}
	return false
}

type Profile struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Username     string    `bson:"username" json:"username"`
	FullName     string    `bson:"full_name" json:"full_name"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL    string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	LocationID   string    `bson:"location_id,omitempty" json:"location_id,omitempty"`
	Role         Role      `bson:"user_role" json:"user_role"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	IsVerified   bool      `bson:"is_verified" json:"is_verified"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

type Organization struct {
	ID               string    `bson:"_id" json:"id"`
	ProfileID        string    `bson:"profile_id" json:"profile_id"`
	OrganizationName string    `bson:"organization_name" json:"organization_name"`
	Description      string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

type Family struct {
	ID          string    `bson:"_id" json:"id"`
	ProfileID   string    `bson:"profile_id" json:"profile_id"`
	FamilyName  string    `bson:"family_name" json:"family_name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type Category struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string    `bson:"icon,omitempty" json:"icon,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type Location struct {
	ID         string    `bson:"_id" json:"id"`
	Address    string    `bson:"address" json:"address"`
	City       string    `bson:"city" json:"city"`
	Region     string    `bson:"region,omitempty" json:"region,omitempty"`
	PostalCode string    `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	Country    string    `bson:"country" json:"country"`
	Latitude   float64   `bson:"latitude" json:"latitude"`
	Longitude  float64   `bson:"longitude" json:"longitude"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

type Ad struct {
	ID            string            `bson:"_id" json:"id"`
	UserID        string            `bson:"user_id" json:"user_id"`
	Title         string            `bson:"title" json:"title"`
	Description   string            `bson:"description" json:"description"`
	CategoryID    string            `bson:"category_id" json:"category_id"`
	LocationID    string            `bson:"location_id" json:"location_id"`
	ImageURLs     []string          `bson:"image_urls" json:"image_urls"`
	Status        AdStatus          `bson:"status" json:"status"`
	Condition     Condition         `bson:"condition" json:"condition"`
	Metadata      map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	RemovedReason string            `bson:"removed_reason,omitempty" json:"removed_reason,omitempty"`
	ViewCount     int64             `bson:"view_count" json:"view_count"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updated_at"`
}

type DonationRequest struct {
	ID          string        `bson:"_id" json:"id"`
	RequesterID string        `bson:"requester_id" json:"requester_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	CategoryID  string        `bson:"category_id" json:"category_id"`
	Status      RequestStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// Conversation holds a direct thread between two users. Participant1 is
// always the lexicographically smaller id so a pair maps to exactly one row.
type Conversation struct {
	ID            string    `bson:"_id" json:"id"`
	Participant1  string    `bson:"participant_1_id" json:"participant_1_id"`
	Participant2  string    `bson:"participant_2_id" json:"participant_2_id"`
	LastMessageAt time.Time `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Peer returns the other participant relative to userID.
func (c *Conversation) Peer(userID string) string {
	if c.Participant1 == userID {
		return c.Participant2
	}
	return c.Participant1
}

func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participant1 == userID || c.Participant2 == userID
}

type Message struct {
	ID             string    `bson:"_id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	SenderID       string    `bson:"sender_id" json:"sender_id"`
	Content        string    `bson:"content,omitempty" json:"content,omitempty"`
	AttachmentURL  string    `bson:"attachment_url,omitempty" json:"attachment_url,omitempty"`
	IsRead         bool      `bson:"is_read" json:"is_read"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// AdRequest links a requester to an ad and the conversation handling the
// contact. Unique per (ad, requester).
type AdRequest struct {
	ID             string    `bson:"_id" json:"id"`
	AdID           string    `bson:"ad_id" json:"ad_id"`
	RequesterID    string    `bson:"requester_id" json:"requester_id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// FamilyRequestContact links a helper to a family's donation request and its
// conversation. Unique per (request, helper).
type FamilyRequestContact struct {
	ID             string    `bson:"_id" json:"id"`
	RequestID      string    `bson:"request_id" json:"request_id"`
	RequesterID    string    `bson:"requester_id" json:"requester_id"`
	HelperID       string    `bson:"helper_id" json:"helper_id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// NormalizePair orders two participant ids so the smaller one comes first.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
