package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devlog-app/devlog-backend/internal/accounts/cache"
	"github.com/devlog-app/devlog-backend/internal/accounts/domain"
)

// gracePeriod protects claims made moments ago: signup claims the username
// before writing the profile, so a very young entry without a profile is
// usually a signup still in flight, not an orphan.
const gracePeriod = time.Hour

// Index is the slice of the account repository the sweeper needs.
type Index interface {
	ListUsernames(ctx context.Context) ([]domain.UsernameEntry, error)
	ProfileExists(ctx context.Context, uid string) (bool, error)
	ReleaseUsername(ctx context.Context, username string) error
}

// Sweeper removes username-index entries whose account profile never
// materialized. Signup writes the username index and the profile as two
// separate documents; a crash between the two leaves the username claimed
// forever. The nightly sweep reclaims it.
type Sweeper struct {
	index Index
	cache *cache.UsernameCache // optional
	cron  *cron.Cron
}

// NewSweeper creates a sweeper over the given index. cache may be nil.
func NewSweeper(index Index, c *cache.UsernameCache) *Sweeper {
	return &Sweeper{index: index, cache: c}
}

// Start schedules the nightly sweep (03:00).
func (s *Sweeper) Start() {
	s.cron = cron.New(cron.WithSeconds())

	_, err := s.cron.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		repaired, err := s.Sweep(ctx)
		if err != nil {
			log.Printf("username sweep failed: %v", err)
			return
		}
		log.Printf("username sweep done, repaired=%d", repaired)
	})
	if err != nil {
		log.Printf("failed to schedule username sweep: %v", err)
		return
	}

	log.Println("username sweeper started (nightly at 03:00)")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep walks the username index once and releases orphaned entries. Returns
// the number of entries repaired.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	entries, err := s.index.ListUsernames(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, entry := range entries {
		if time.Since(entry.ClaimedAt) < gracePeriod {
			continue
		}

		exists, err := s.index.ProfileExists(ctx, entry.UID)
		if err != nil {
			log.Printf("sweep: probe profile %s: %v", entry.UID, err)
			continue
		}
		if exists {
			continue
		}

		if err := s.index.ReleaseUsername(ctx, entry.Username); err != nil {
			log.Printf("sweep: release %q: %v", entry.Username, err)
			continue
		}
		s.cache.Invalidate(ctx, entry.Username)
		repaired++
	}
	return repaired, nil
}
