package explore

import (
	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/db"
	"github.com/oggyb/eventswipe/internal/feed"
)

func toEvent(e *db.Event) api.Event {
	return api.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Categories:       e.Categories,
		Capacity:         e.Capacity,
		ParticipantCount: e.ParticipantCount,
		Date:             e.Date,
		EndDate:          e.EndDate,
		Street:           e.Street,
		City:             e.City,
		Lat:              e.Lat,
		Lng:              e.Lng,
		CreatorID:        e.CreatorID,
		Requirements:     toRequirements(e.Requirements),
		Liked:            e.Liked,
		Disliked:         e.Disliked,
		Image:            e.Image,
		ParticipantIDs:   e.ParticipantIDs(),
	}
}

func toCard(c *feed.Card) api.EventCard {
	return api.EventCard{
		Event:             toEvent(&c.Event),
		CreatorName:       c.CreatorName,
		ParticipantImages: c.ParticipantImages,
		DistanceKm:        c.DistanceKm,
		TimeLeft: api.TimeLeft{
			Status:  string(c.TimeLeft.Status),
			Seconds: c.TimeLeft.Seconds,
			Label:   c.TimeLeft.String(),
		},
	}
}

func toRequirements(r db.Requirements) api.Requirements {
	return api.Requirements{None: r.None, Age: r.Age, Gender: r.Gender, Location: r.Location, Other: r.Other}
}

func fromRequirements(r api.Requirements) db.Requirements {
	return db.Requirements{None: r.None, Age: r.Age, Gender: r.Gender, Location: r.Location, Other: r.Other}
}
