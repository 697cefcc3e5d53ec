package profile

import (
	"context"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/logger"
	profiles "github.com/oggyb/eventswipe/internal/profile"
)

// Service implements the Profile gRPC API for the authenticated caller.
type Service struct {
	appCtx   *app.AppContext
	profiles *profiles.Service
}

func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: profiles.NewService(appCtx.DB, appCtx.Users(), appCtx.Geocoder, appCtx.Logger),
	}
}

func (s *Service) GetProfile(ctx context.Context, _ *api.Empty) (*api.Profile, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	u, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toProfile(u), nil
}

// Register creates the caller's profile once, keyed by the token subject.
func (s *Service) Register(ctx context.Context, req *api.RegisterRequest) (*api.Profile, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("Register called", "organization", req.IsOrganization)

	u := &db.User{
		ID:               userID,
		Name:             req.Name,
		OrganizationName: req.OrganizationName,
		IsOrganization:   req.IsOrganization,
		Age:              req.Age,
		Gender:           req.Gender,
		Street:           req.Street,
		City:             req.City,
		Description:      req.Description,
		Interests:        req.Interests,
		ProfileImage:     req.ProfileImage,
	}
	if err := s.profiles.Register(ctx, u); err != nil {
		log.Error("Register failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return toProfile(u), nil
}

// UpdateProfile changes name and avatar everywhere they are shown.
func (s *Service) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.Profile, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	u, err := s.profiles.UpdateProfile(ctx, userID, req.Name, req.ProfileImage)
	if err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Error("UpdateProfile failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return toProfile(u), nil
}

func (s *Service) UpdateLocation(ctx context.Context, req *api.UpdateLocationRequest) (*api.Profile, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	u, err := s.profiles.UpdateLocation(ctx, userID, req.Lat, req.Lng)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toProfile(u), nil
}

func (s *Service) UpdatePreferences(ctx context.Context, req *api.Preferences) (*api.Profile, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	u, err := s.profiles.UpdatePreferences(ctx, userID, db.Preferences{
		Interests:        req.Interests,
		Location:         req.Location,
		DistanceKm:       req.DistanceKm,
		UsePersonLimit:   req.UsePersonLimit,
		PersonLimit:      req.PersonLimit,
		MeetRequirements: req.MeetRequirements,
		SearchByDate:     req.SearchByDate,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toProfile(u), nil
}

func toProfile(u *db.User) *api.Profile {
	p := u.Preferences
	return &api.Profile{
		ID:               u.ID,
		Name:             u.Name,
		OrganizationName: u.OrganizationName,
		IsOrganization:   u.IsOrganization,
		Age:              u.Age,
		Gender:           u.Gender,
		Street:           u.Street,
		City:             u.City,
		Description:      u.Description,
		Interests:        u.Interests,
		Lat:              u.Lat,
		Lng:              u.Lng,
		ProfileImage:     u.ProfileImage,
		Preferences: api.Preferences{
			Interests:        p.Interests,
			Location:         p.Location,
			DistanceKm:       p.DistanceKm,
			UsePersonLimit:   p.UsePersonLimit,
			PersonLimit:      p.PersonLimit,
			MeetRequirements: p.MeetRequirements,
			SearchByDate:     p.SearchByDate,
			StartDate:        p.StartDate,
			EndDate:          p.EndDate,
		},
	}
}
