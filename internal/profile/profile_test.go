package profile_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/profile"
	"github.com/oggyb/eventswipe/internal/repository"
	"github.com/oggyb/eventswipe/internal/testutil"
)

type fakeGeocoder struct {
	points     map[string]geo.Point
	place      geocode.Place
	reverseErr error
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (geo.Point, error) {
	if p, ok := f.points[address]; ok {
		return p, nil
	}
	return geo.Point{}, geocode.ErrNoResults
}

func (f *fakeGeocoder) Reverse(context.Context, geo.Point) (geocode.Place, error) {
	if f.reverseErr != nil {
		return geocode.Place{}, f.reverseErr
	}
	return f.place, nil
}

type fixture struct {
	svc   *profile.Service
	gdb   *gorm.DB
	rc    *cache.RedisCache
	users *repository.UserRepository
	geo   *fakeGeocoder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	rc, _ := testutil.NewCache(t)
	users := repository.NewUserRepository(gdb, rc, time.Hour)
	g := &fakeGeocoder{
		points: map[string]geo.Point{"Rynek Główny 1, Kraków": {Lat: 50.0617, Lng: 19.9373}},
		place:  geocode.Place{Street: "Grodzka", City: "Kraków"},
	}
	svc := profile.NewService(gdb, users, g, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &fixture{svc: svc, gdb: gdb, rc: rc, users: users, geo: g}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.svc.Register(ctx, &db.User{ID: "u1", Name: " Ola ", Interests: []string{"music"}}))

	u, err := f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ola", u.Name)

	err = f.svc.Register(ctx, &db.User{ID: "u1", Name: "Again"})
	assert.ErrorIs(t, err, svcErr.ErrConflict)
}

func TestRegister_Organization(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	org := &db.User{
		ID:               "org",
		IsOrganization:   true,
		OrganizationName: "Klub Pod Jaszczurami",
		Street:           "Rynek Główny 1",
		City:             "Kraków",
	}
	require.NoError(t, f.svc.Register(ctx, org))

	u, err := f.svc.Get(ctx, "org")
	require.NoError(t, err)
	require.NotNil(t, u.Lat)
	assert.InDelta(t, 50.0617, *u.Lat, 1e-9)
	assert.Equal(t, "Klub Pod Jaszczurami", u.DisplayName())

	err = f.svc.Register(ctx, &db.User{ID: "org2", IsOrganization: true, OrganizationName: "X", City: "Atlantis"})
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	err = f.svc.Register(ctx, &db.User{
		ID: "org3", IsOrganization: true, OrganizationName: "Y",
		Street: "Rynek Główny 1", City: "Kraków",
		Interests: []string{"a", "b", "c", "d"},
	})
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}

func TestRegister_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Register(ctx, &db.User{Name: "no id"}), svcErr.ErrValidation)
	assert.ErrorIs(t, f.svc.Register(ctx, &db.User{ID: "x"}), svcErr.ErrValidation)

	many := make([]string, profile.MaxInterests+1)
	for i := range many {
		many[i] = "i"
	}
	assert.ErrorIs(t, f.svc.Register(ctx, &db.User{ID: "x", Name: "X", Interests: many}), svcErr.ErrValidation)
}

func TestUpdateProfile_RefreshesRosterAndCard(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	user := testutil.CreateUser(t, f.gdb, db.User{ID: "u1", Name: "Ola", ProfileImage: "old.png"})
	chat := repository.NewChatRepository(f.gdb)
	require.NoError(t, chat.AddMember(ctx, "e1", &user))
	require.NoError(t, chat.AddMember(ctx, "e2", &user))

	// warm the card cache
	cards, err := f.users.Cards(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Ola", cards["u1"].Name)

	updated, err := f.svc.UpdateProfile(ctx, "u1", "Aleksandra", "new.png")
	require.NoError(t, err)
	assert.Equal(t, "Aleksandra", updated.Name)

	for _, eventID := range []string{"e1", "e2"} {
		members, err := chat.Members(ctx, eventID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "Aleksandra", members[0].Name)
		assert.Equal(t, "new.png", members[0].ProfileImage)
	}

	cached, err := f.rc.GetCards(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Empty(t, cached)

	cards, err = f.users.Cards(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Aleksandra", cards["u1"].Name)
}

func TestUpdateProfile_OrganizationRoster(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	org := testutil.CreateUser(t, f.gdb, db.User{ID: "org", Name: "Kasia", OrganizationName: "Klub Biegacza", IsOrganization: true})
	chat := repository.NewChatRepository(f.gdb)
	require.NoError(t, chat.AddMember(ctx, "e1", &org))

	updated, err := f.svc.UpdateProfile(ctx, "org", "Klub Biegowy", "")
	require.NoError(t, err)
	assert.Equal(t, "Klub Biegowy", updated.DisplayName())

	members, err := chat.Members(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Klub Biegowy", members[0].Name)
}

func TestUpdateProfile_Errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.UpdateProfile(ctx, "ghost", "Name", "")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	testutil.CreateUser(t, f.gdb, db.User{ID: "u1"})
	_, err = f.svc.UpdateProfile(ctx, "u1", "  ", "")
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}

func TestUpdateLocation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	testutil.CreateUser(t, f.gdb, db.User{ID: "u1", Street: "Długa", City: "Warszawa"})

	u, err := f.svc.UpdateLocation(ctx, "u1", 50.05, 19.94)
	require.NoError(t, err)
	assert.Equal(t, "Kraków", u.City)

	stored, err := f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Grodzka", stored.Street)
	assert.InDelta(t, 50.05, *stored.Lat, 1e-9)

	f.geo.reverseErr = svcErr.ErrUnavailable
	_, err = f.svc.UpdateLocation(ctx, "u1", 50.10, 20.00)
	require.NoError(t, err)

	stored, err = f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Kraków", stored.City)
	assert.InDelta(t, 50.10, *stored.Lat, 1e-9)

	_, err = f.svc.UpdateLocation(ctx, "u1", 91, 0)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	testutil.CreateUser(t, f.gdb, db.User{ID: "u1", Preferences: db.Preferences{UsePersonLimit: true, PersonLimit: 8}})

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	prefs := db.Preferences{
		Interests:    []string{"music", "sport"},
		Location:     " Kraków ",
		DistanceKm:   25,
		SearchByDate: true,
		StartDate:    testutil.Time(start),
		EndDate:      testutil.Time(start.Add(48 * time.Hour)),
	}
	_, err := f.svc.UpdatePreferences(ctx, "u1", prefs)
	require.NoError(t, err)

	stored, err := f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Kraków", stored.Preferences.Location)
	assert.Equal(t, 25.0, stored.Preferences.DistanceKm)
	assert.False(t, stored.Preferences.UsePersonLimit)
	assert.Equal(t, []string{"music", "sport"}, stored.Preferences.Interests)
	require.NotNil(t, stored.Preferences.StartDate)
	assert.True(t, start.Equal(*stored.Preferences.StartDate))
}

func TestUpdatePreferences_Validation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	testutil.CreateUser(t, f.gdb, db.User{ID: "u1"})

	start := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	cases := map[string]db.Preferences{
		"negative radius": {DistanceKm: -1},
		"radius too big":  {DistanceKm: profile.MaxRadiusKm + 1},
		"person limit":    {UsePersonLimit: true, PersonLimit: 1},
		"inverted dates":  {StartDate: testutil.Time(start), EndDate: testutil.Time(start.Add(-time.Hour))},
	}
	for name, prefs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.UpdatePreferences(ctx, "u1", prefs)
			assert.ErrorIs(t, err, svcErr.ErrValidation)
		})
	}

	_, err := f.svc.UpdatePreferences(ctx, "ghost", db.Preferences{})
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}
