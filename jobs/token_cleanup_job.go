package jobs

import (
	"log"
	"time"
)

// TokenCleaner deletes expired refresh tokens from the store.
type TokenCleaner interface {
	CleanupExpiredTokens() error
}

// TokenCleanupJob periodically deletes expired refresh tokens so the
// table does not grow without bound.
type TokenCleanupJob struct {
	cleaner  TokenCleaner
	interval time.Duration
	stopChan chan bool
}

// NewTokenCleanupJob creates a new token cleanup job
func NewTokenCleanupJob(cleaner TokenCleaner, interval time.Duration) *TokenCleanupJob {
	return &TokenCleanupJob{
		cleaner:  cleaner,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the token cleanup job
func (j *TokenCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Token cleanup job started")
}

// Stop stops the token cleanup job
func (j *TokenCleanupJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Token cleanup job stopped")
}

// run executes the token cleanup job
func (j *TokenCleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.cleaner.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		case <-j.stopChan:
			return
		}
	}
}
