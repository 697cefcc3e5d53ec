package api

import "time"

type Requirements struct {
	None     bool   `json:"none,omitempty"`
	Age      string `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
	Other    string `json:"other,omitempty"`
}

type Event struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Categories       []string     `json:"categories,omitempty"`
	Capacity         int          `json:"capacity"`
	ParticipantCount int          `json:"participant_count"`
	Date             time.Time    `json:"date"`
	EndDate          time.Time    `json:"end_date"`
	Street           string       `json:"street,omitempty"`
	City             string       `json:"city,omitempty"`
	Lat              *float64     `json:"lat,omitempty"`
	Lng              *float64     `json:"lng,omitempty"`
	CreatorID        string       `json:"creator_id"`
	Requirements     Requirements `json:"requirements"`
	Liked            int          `json:"liked"`
	Disliked         int          `json:"disliked"`
	Image            string       `json:"image,omitempty"`
	ParticipantIDs   []string     `json:"participant_ids,omitempty"`
}

type TimeLeft struct {
	Status  string `json:"status"`
	Seconds int64  `json:"seconds"`
	Label   string `json:"label"`
}

// EventCard is an event decorated for display in the feed.
type EventCard struct {
	Event             Event    `json:"event"`
	CreatorName       string   `json:"creator_name"`
	ParticipantImages []string `json:"participant_images"`
	DistanceKm        *float64 `json:"distance_km,omitempty"`
	TimeLeft          TimeLeft `json:"time_left"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type Preferences struct {
	Interests        []string   `json:"interests,omitempty"`
	Location         string     `json:"location,omitempty"`
	DistanceKm       float64    `json:"distance_km"`
	UsePersonLimit   bool       `json:"use_person_limit"`
	PersonLimit      int        `json:"person_limit,omitempty"`
	MeetRequirements bool       `json:"meet_requirements"`
	SearchByDate     bool       `json:"search_by_date"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
}

type Profile struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	OrganizationName string      `json:"organization_name,omitempty"`
	IsOrganization   bool        `json:"is_organization"`
	Age              *int        `json:"age,omitempty"`
	Gender           string      `json:"gender,omitempty"`
	Street           string      `json:"street,omitempty"`
	City             string      `json:"city,omitempty"`
	Description      string      `json:"description,omitempty"`
	Interests        []string    `json:"interests,omitempty"`
	Lat              *float64    `json:"lat,omitempty"`
	Lng              *float64    `json:"lng,omitempty"`
	ProfileImage     string      `json:"profile_image,omitempty"`
	Preferences      Preferences `json:"preferences"`
}
