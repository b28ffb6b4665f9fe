package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/utils"
)

const (
	CompanyCacheTTLMillis = 10 * 60 * 60 * 1000
	CompanyCleanInterval  = 1 * time.Hour

	ReadNotificationTTLMillis = 90 * 24 * 60 * 60 * 1000
	NotificationCleanInterval = 24 * time.Hour
)

type CompanyRepository interface {
	DeleteExpired(before int64) (int64, error)
}

type NotificationRepository interface {
	DeleteReadBefore(before int64) (int64, error)
}

// RetentionCleaner deletes rows older than a fixed age.
type RetentionCleaner struct {
	name     string
	ttl      int64
	interval time.Duration
	sweep    func(before int64) (int64, error)
}

// NewCompanyCacheCleaner drops CNPJ lookups, positive and negative, older
// than the cache TTL.
func NewCompanyCacheCleaner(repo CompanyRepository) *RetentionCleaner {
	return &RetentionCleaner{
		name:     "company cache cleaner",
		ttl:      CompanyCacheTTLMillis,
		interval: CompanyCleanInterval,
		sweep:    repo.DeleteExpired,
	}
}

// NewNotificationCleaner trims the feeds, dropping notifications read more
// than 90 days ago.
func NewNotificationCleaner(repo NotificationRepository) *RetentionCleaner {
	return &RetentionCleaner{
		name:     "notification cleaner",
		ttl:      ReadNotificationTTLMillis,
		interval: NotificationCleanInterval,
		sweep:    repo.DeleteReadBefore,
	}
}

func (c *RetentionCleaner) Start(ctx context.Context) {
	runEvery(ctx, c.name, c.interval, func(context.Context) {
		c.cleanup(utils.NowUTC())
	})
}

func (c *RetentionCleaner) cleanup(now int64) {
	cutoff := now - c.ttl

	n, err := c.sweep(cutoff)
	if err != nil {
		log.Errorf("%s: failed to sweep rows older than %d: %v", c.name, cutoff, err)
		return
	}

	if n > 0 {
		log.Infof("%s: swept %d rows older than %d", c.name, n, cutoff)
	}
}
