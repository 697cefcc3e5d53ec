package db

import (
	"time"
)

// Unlimited is the capacity sentinel for events without a participant cap.
const Unlimited = -1

// Relation kinds stored in event_relations.
const (
	RelationJoined = "joined"
	RelationLiked  = "liked"
	RelationBanned = "banned"
)

// Preferences are the feed filters a user configures. Embedded into users
// with the pref_ column prefix.
type Preferences struct {
	Interests        []string `gorm:"serializer:json;type:text"`
	Location         string   `gorm:"size:255"`
	DistanceKm       float64
	UsePersonLimit   bool
	PersonLimit      int
	MeetRequirements bool
	SearchByDate     bool
	StartDate        *time.Time
	EndDate          *time.Time
}

// User is a profile keyed by the auth subject. Individuals carry age/gender,
// organizations carry OrganizationName and an address.
type User struct {
	ID               string   `gorm:"primaryKey;size:64"`
	Name             string   `gorm:"size:128"`
	OrganizationName string   `gorm:"size:128"`
	IsOrganization   bool     `gorm:"default:false"`
	Age              *int
	Gender           string   `gorm:"size:16"`
	Street           string   `gorm:"size:255"`
	City             string   `gorm:"size:128"`
	Description      string   `gorm:"type:text"`
	Interests        []string `gorm:"serializer:json;type:text"`
	Lat              *float64
	Lng              *float64
	ProfileImage     string      `gorm:"size:512"`
	Preferences      Preferences `gorm:"embedded;embeddedPrefix:pref_"`
	CreatedAt        time.Time   `gorm:"autoCreateTime"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime"`
}

// DisplayName is the name shown on cards: the organization name for
// organizations, the personal name otherwise.
func (u *User) DisplayName() string {
	if u.IsOrganization && u.OrganizationName != "" {
		return u.OrganizationName
	}
	return u.Name
}

// Requirements are the eligibility constraints an event declares.
// Age is a "min-max" string.
type Requirements struct {
	None     bool   `json:"none,omitempty"`
	Age      string `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
	Other    string `json:"other,omitempty"`
}

// Event is a discoverable meetup.
//
// Indexes:
//   - idx_events_date_id(date, id) serves the feed cursor (date ASC, id ASC).
//   - idx_events_creator(creator_id) serves "created by me" and delete checks.
type Event struct {
	ID               string       `gorm:"primaryKey;size:64;index:idx_events_date_id,priority:2"`
	Name             string       `gorm:"size:255;not null"`
	Description      string       `gorm:"type:text"`
	Categories       []string     `gorm:"serializer:json;type:text"`
	Capacity         int          `gorm:"not null"`
	ParticipantCount int          `gorm:"not null;default:0"`
	Date             time.Time    `gorm:"not null;index:idx_events_date_id,priority:1"`
	EndDate          time.Time    `gorm:"not null"`
	Street           string       `gorm:"size:255"`
	City             string       `gorm:"size:128"`
	Lat              *float64
	Lng              *float64
	CreatorID        string       `gorm:"size:64;not null;index:idx_events_creator"`
	Requirements     Requirements `gorm:"serializer:json;type:text"`
	Liked            int          `gorm:"not null;default:0"`
	Disliked         int          `gorm:"not null;default:0"`
	Reported         int          `gorm:"not null;default:0"`
	Ended            bool         `gorm:"not null;default:false"`
	Image            string       `gorm:"size:512"`
	CreatedAt        time.Time    `gorm:"autoCreateTime"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime"`

	Participants []EventParticipant `gorm:"foreignKey:EventID"`
}

// Unlimited reports whether the event has no participant cap.
func (e *Event) Unlimited() bool { return e.Capacity == Unlimited }

// Full reports whether no more participants can join.
func (e *Event) Full() bool {
	return !e.Unlimited() && e.ParticipantCount >= e.Capacity
}

// ParticipantIDs returns the ids of the loaded participants in join order.
func (e *Event) ParticipantIDs() []string {
	ids := make([]string, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// EventParticipant is one entry in an event's participant list.
// Composite PK: (EventID, UserID).
type EventParticipant struct {
	EventID  string    `gorm:"primaryKey;size:64"`
	UserID   string    `gorm:"primaryKey;size:64;index:idx_participants_user"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// EventRelation records whether a user joined, liked, or banned an event.
//
// Composite PK: (UserID, EventID)
//   - A single row per pair, so an event sits in at most one of the
//     joined/liked/banned sets.
type EventRelation struct {
	UserID    string    `gorm:"primaryKey;size:64"`
	EventID   string    `gorm:"primaryKey;size:64"`
	Kind      string    `gorm:"size:16;not null;index:idx_relations_user_kind"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ChatParticipant mirrors a user's display data into an event chat roster.
// Refreshed whenever the user edits their profile.
type ChatParticipant struct {
	EventID      string    `gorm:"primaryKey;size:64"`
	UserID       string    `gorm:"primaryKey;size:64;index:idx_chat_participants_user"`
	Name         string    `gorm:"size:128"`
	ProfileImage string    `gorm:"size:512"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Message kinds stored in chat_messages.
const (
	MessageText  = "text"
	MessageImage = "image"
)

// ChatMessage is one entry of an event chat. Image messages carry the image
// URL as content.
//
// Index idx_chat_messages_event_created(event_id, created_at, id) serves the
// oldest-first history cursor.
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:64;index:idx_chat_messages_event_created,priority:3"`
	EventID   string    `gorm:"size:64;not null;index:idx_chat_messages_event_created,priority:1"`
	SenderID  string    `gorm:"size:64;not null"`
	Content   string    `gorm:"type:text;not null"`
	Type      string    `gorm:"size:16;not null;default:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_messages_event_created,priority:2"`
}

// Notification is an inbox entry created by server-side triggers.
//
// Index idx_notifications_user_created(user_id, created_at DESC, id) serves
// the newest-first inbox cursor.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:64;index:idx_notifications_user_created,priority:3"`
	UserID    string    `gorm:"size:64;not null;index:idx_notifications_user_created,priority:1"`
	Title     string    `gorm:"size:255"`
	Content   string    `gorm:"type:text"`
	Read      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2,sort:desc"`
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&Event{},
		&EventParticipant{},
		&EventRelation{},
		&ChatParticipant{},
		&ChatMessage{},
		&Notification{},
	}
}
