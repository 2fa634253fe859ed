package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const JobKindRefresh = "refresh"

// RefreshJob is one in-flight background operation for a user.
type RefreshJob struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	StartedAt time.Time `json:"startedAt"`
}

// JobRegistry tracks in-flight jobs per user. It is report-only: it never
// prevents a second job from starting, and it does not coordinate across
// server instances.
type JobRegistry struct {
	mu   sync.Mutex
	jobs map[string]RefreshJob
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]RefreshJob)}
}

func (r *JobRegistry) Begin(userID, kind string) RefreshJob {
	job := RefreshJob{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		StartedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.jobs[userID] = job
	r.mu.Unlock()
	return job
}

// End clears the user's entry only if it still belongs to jobID, so an
// overlapping refresh finishing later does not erase a newer job's status.
func (r *JobRegistry) End(userID, jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.jobs[userID]; ok && current.ID == jobID {
		delete(r.jobs, userID)
	}
}

func (r *JobRegistry) Status(userID string) (*RefreshJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[userID]
	if !ok {
		return nil, false
	}
	return &job, true
}
