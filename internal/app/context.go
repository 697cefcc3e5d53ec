package app

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/chat"
	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/inbox"
	"github.com/oggyb/eventswipe/internal/report"
	"github.com/oggyb/eventswipe/internal/repository"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Geocoder   geocode.Geocoder
	Mailer     report.Mailer
	Now        func() time.Time
}

// New creates a new AppContext. Geocoding starts disabled and the clock is
// time.Now; callers replace them as needed.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	if cfg == nil {
		cfg = config.New()
	}
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Geocoder:   geocode.Disabled{},
		Now:        time.Now,
	}
}

// Users returns a user repository backed by the card cache.
func (a *AppContext) Users() *repository.UserRepository {
	return repository.NewUserRepository(a.DB, a.RedisCache, a.Config.Feed.CardTTL)
}

// Inbox returns the notification service, also used as the notifier of
// server-side triggers.
func (a *AppContext) Inbox() *inbox.Service {
	return inbox.NewService(repository.NewNotificationRepository(a.DB), a.RedisCache, a.Logger)
}

// Chat returns the event chat service.
func (a *AppContext) Chat() *chat.Service {
	return chat.NewService(
		repository.NewChatRepository(a.DB),
		repository.NewEventRepository(a.DB),
		a.Now,
		a.Logger,
	)
}
