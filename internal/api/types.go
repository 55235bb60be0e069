package api

import "reelflow/internal/schedule"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Project describes a production project in a transport-friendly format.
type Project struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Client    string           `json:"client,omitempty"`
	EventID   string           `json:"eventId,omitempty"`
	Status    string           `json:"status"`
	Videos    []Deliverable    `json:"videos"`
	Timeline  []schedule.Phase `json:"timeline,omitempty"`
	Tasks     []ReviewTask     `json:"tasks,omitempty"`
	CreatedAt string           `json:"createdAt,omitempty"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
}

// Deliverable describes a video deliverable and its review state.
type Deliverable struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Status   string    `json:"status"`
	Versions []Version `json:"versions"`
	Comments []Comment `json:"comments"`
}

// Version describes one uploaded cut of a deliverable.
type Version struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	UploadedAt string `json:"uploadedAt,omitempty"`
	Active     bool   `json:"active"`
	Approved   bool   `json:"approved"`
	ApprovedBy string `json:"approvedBy,omitempty"`
	ApprovedAt string `json:"approvedAt,omitempty"`
}

// Comment describes a timestamped annotation on a deliverable.
type Comment struct {
	ID        string  `json:"id"`
	ParentID  string  `json:"parentId,omitempty"`
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
	CreatedAt string  `json:"createdAt,omitempty"`
	Resolved  bool    `json:"resolved"`
}

// ReviewTask describes a review bookkeeping task on a project.
type ReviewTask struct {
	ID            string `json:"id"`
	DeliverableID string `json:"deliverableId"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// Timeline wraps a phase array together with its provenance: a generated
// timeline was synthesized on read and has not been persisted.
type Timeline struct {
	EventID   string           `json:"eventId"`
	Phases    []schedule.Phase `json:"phases"`
	Generated bool             `json:"generated"`
}

// SaveTimelineResult reports whether an upsert created a new timeline or
// overwrote an existing one.
type SaveTimelineResult struct {
	EventID string `json:"eventId"`
	Created bool   `json:"created"`
}

// ProjectStats provides normalized project counts per lifecycle state.
type ProjectStats struct {
	Total      int `json:"total"`
	Draft      int `json:"draft"`
	InProgress int `json:"inProgress"`
	Review     int `json:"review"`
	Completed  int `json:"completed"`
	Archived   int `json:"archived"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool         `json:"running"`
	PID           int          `json:"pid"`
	ProjectDBPath string       `json:"projectDbPath"`
	LockFilePath  string       `json:"lockFilePath"`
	SocketPath    string       `json:"socketPath"`
	Stats         ProjectStats `json:"stats"`
}

// ProjectListResponse wraps a collection of projects for API responses.
type ProjectListResponse struct {
	Projects []Project `json:"projects"`
}

// ProjectResponse wraps a single project.
type ProjectResponse struct {
	Project Project `json:"project"`
}

// CommentListResponse wraps a deliverable's comment thread.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
}
