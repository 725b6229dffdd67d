package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	JobPending   = "pending"
	JobRendering = "rendering"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// RenderJob tracks one resume render from request to stored artifact.
type RenderJob struct {
	ID        uuid.UUID              `json:"id"`
	Status    string                 `json:"status"`
	FullName  string                 `json:"full_name"`
	Backend   string                 `json:"backend"`
	FileKey   string                 `json:"file_key,omitempty"`
	FileSize  int64                  `json:"file_size"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func NewRenderJob(fullName, backend string) *RenderJob {
	now := time.Now().UTC()
	return &RenderJob{
		ID:        uuid.New(),
		Status:    JobPending,
		FullName:  fullName,
		Backend:   backend,
		Metadata:  map[string]interface{}{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the job to status and bumps UpdatedAt.
func (j *RenderJob) Transition(status string) {
	j.Status = status
	j.UpdatedAt = time.Now().UTC()
}

// Fail records err and marks the job failed.
func (j *RenderJob) Fail(err error) {
	if err != nil {
		j.Error = err.Error()
	}
	j.Transition(JobFailed)
}
