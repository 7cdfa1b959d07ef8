package store

import (
	"database/sql"
	"time"
)

// Event status values
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
)

// Reservation status values
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusExpired   = "expired"
)

// Feedback status values
const (
	FeedbackStatusNew       = "new"
	FeedbackStatusResponded = "responded"
	FeedbackStatusArchived  = "archived"
)

// Team is a sports team the bar screens games for. Its event_type and
// image_url act as defaults for schedule-generated calendar events.
type Team struct {
	TeamID    int            `json:"team_id" db:"team_id"`
	Name      string         `json:"name" db:"name"`
	League    sql.NullString `json:"league,omitempty" db:"league"`
	EventType string         `json:"event_type" db:"event_type"`
	ImageURL  sql.NullString `json:"image_url,omitempty" db:"image_url"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Event is a calendar event shown on the website (watch parties, trivia
// nights, live music). Schedule-generated events always carry
// location "on-site" and allow_rsvp false.
type Event struct {
	EventID     int            `json:"event_id" db:"event_id"`
	EventTitle  string         `json:"event_title" db:"event_title"`
	EventDate   time.Time      `json:"event_date" db:"event_date"`
	EventType   string         `json:"event_type" db:"event_type"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Location    string         `json:"location" db:"location"`
	ImageURL    sql.NullString `json:"image_url,omitempty" db:"image_url"`
	IsFeatured  bool           `json:"is_featured" db:"is_featured"`
	Status      string         `json:"status" db:"status"`
	AllowRSVP   bool           `json:"allow_rsvp" db:"allow_rsvp"`
	SourceKey   sql.NullString `json:"source_key,omitempty" db:"source_key"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Reservation is a table reservation request from the website.
type Reservation struct {
	ReservationID int            `json:"reservation_id" db:"reservation_id"`
	GuestName     string         `json:"guest_name" db:"guest_name"`
	GuestEmail    string         `json:"guest_email" db:"guest_email"`
	GuestPhone    sql.NullString `json:"guest_phone,omitempty" db:"guest_phone"`
	PartySize     int            `json:"party_size" db:"party_size"`
	ReservedAt    time.Time      `json:"reserved_at" db:"reserved_at"`
	Status        string         `json:"status" db:"status"`
	Notes         sql.NullString `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Feedback is a guest feedback submission. AIResponse holds the
// model-drafted reply, which staff review before sending.
type Feedback struct {
	FeedbackID string         `json:"feedback_id" db:"feedback_id"`
	GuestName  string         `json:"guest_name" db:"guest_name"`
	GuestEmail sql.NullString `json:"guest_email,omitempty" db:"guest_email"`
	Rating     int            `json:"rating" db:"rating"`
	Message    string         `json:"message" db:"message"`
	AIResponse sql.NullString `json:"ai_response,omitempty" db:"ai_response"`
	Status     string         `json:"status" db:"status"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// MenuCategory groups menu items for display ordering.
type MenuCategory struct {
	CategoryID int    `json:"category_id" db:"category_id"`
	Name       string `json:"name" db:"name"`
	SortOrder  int    `json:"sort_order" db:"sort_order"`
}

// MenuItem is a single dish or drink.
type MenuItem struct {
	ItemID      int            `json:"item_id" db:"item_id"`
	CategoryID  int            `json:"category_id" db:"category_id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	PriceCents  int            `json:"price_cents" db:"price_cents"`
	IsAvailable bool           `json:"is_available" db:"is_available"`
	Tags        sql.NullString `json:"tags,omitempty" db:"tags"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Notice is a site-wide admin banner. Dismissal is explicit and persisted
// here rather than hidden in client-side storage.
type Notice struct {
	NoticeID    int          `json:"notice_id" db:"notice_id"`
	Message     string       `json:"message" db:"message"`
	Active      bool         `json:"active" db:"active"`
	DismissedAt sql.NullTime `json:"dismissed_at,omitempty" db:"dismissed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
