package ipc

import (
	"encoding/json"

	"reelflow/internal/api"
)

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// Project mirrors the API project DTO for internal IPC callers.
type Project = api.Project

// Deliverable mirrors the API deliverable DTO.
type Deliverable = api.Deliverable

// Version mirrors the API version DTO.
type Version = api.Version

// Comment mirrors the API comment DTO.
type Comment = api.Comment

// ProjectStats mirrors the API stats DTO.
type ProjectStats = api.ProjectStats

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running       bool         `json:"running"`
	PID           int          `json:"pid"`
	ProjectDBPath string       `json:"project_db_path"`
	LockPath      string       `json:"lock_path"`
	SocketPath    string       `json:"socket_path"`
	Stats         ProjectStats `json:"stats"`
}

// TimelineGetRequest fetches the timeline for an event.
type TimelineGetRequest struct {
	EventID string `json:"event_id"`
}

// TimelineGetResponse carries the phases and whether they were synthesized
// on read rather than loaded from the store.
type TimelineGetResponse struct {
	EventID   string          `json:"event_id"`
	Phases    json.RawMessage `json:"phases"`
	Generated bool            `json:"generated"`
}

// TimelineSaveRequest stores a timeline for an event. Phases is the raw
// phase array; validation happens server-side so the full problem list can
// be returned.
type TimelineSaveRequest struct {
	EventID string          `json:"event_id"`
	Phases  json.RawMessage `json:"phases"`
}

// TimelineSaveResponse reports creation vs overwrite, or the validation
// problems that blocked the write.
type TimelineSaveResponse struct {
	Created  bool     `json:"created"`
	Problems []string `json:"problems,omitempty"`
}

// TimelineGenerateRequest synthesizes and persists a timeline. Briefing
// optionally overrides the filed briefing snapshot.
type TimelineGenerateRequest struct {
	EventID  string          `json:"event_id"`
	Briefing json.RawMessage `json:"briefing,omitempty"`
}

// TimelineGenerateResponse carries the generated phases.
type TimelineGenerateResponse struct {
	Phases json.RawMessage `json:"phases"`
}

// ProjectCreateRequest registers a new project.
type ProjectCreateRequest struct {
	Name    string `json:"name"`
	Client  string `json:"client"`
	EventID string `json:"event_id"`
}

// ProjectCreateResponse carries the created project.
type ProjectCreateResponse struct {
	Project Project `json:"project"`
}

// ProjectListRequest filters project listing by status.
type ProjectListRequest struct {
	Statuses []string `json:"statuses"`
}

// ProjectListResponse contains project entries.
type ProjectListResponse struct {
	Projects []Project `json:"projects"`
}

// ProjectDescribeRequest fetches a single project by id.
type ProjectDescribeRequest struct {
	ID string `json:"id"`
}

// ProjectDescribeResponse contains a single project.
type ProjectDescribeResponse struct {
	Project Project `json:"project"`
}

// ProjectSetStatusRequest moves a project to a new lifecycle state.
type ProjectSetStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ProjectSetStatusResponse carries the updated project.
type ProjectSetStatusResponse struct {
	Project Project `json:"project"`
}

// ProjectDeleteRequest removes a project permanently.
type ProjectDeleteRequest struct {
	ID string `json:"id"`
}

// ProjectDeleteResponse reports removal.
type ProjectDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ProjectStatsRequest fetches aggregate project counts.
type ProjectStatsRequest struct{}

// ProjectStatsResponse reports project counts per lifecycle state.
type ProjectStatsResponse struct {
	Stats ProjectStats `json:"stats"`
}

// DeliverableAddRequest creates a new deliverable on a project.
type DeliverableAddRequest struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
}

// DeliverableAddResponse carries the created deliverable.
type DeliverableAddResponse struct {
	Deliverable Deliverable `json:"deliverable"`
}

// VersionUploadRequest adds a version to a deliverable.
type VersionUploadRequest struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
}

// VersionUploadResponse carries the created version.
type VersionUploadResponse struct {
	Version Version `json:"version"`
}

// VersionActionRequest targets a version within a deliverable.
type VersionActionRequest struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	VersionID     string `json:"version_id"`
	User          User   `json:"user"`
}

// VersionActionResponse carries the updated deliverable.
type VersionActionResponse struct {
	Deliverable Deliverable `json:"deliverable"`
}

// DeliverableActionRequest targets a deliverable for a status transition.
type DeliverableActionRequest struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	Comment       string `json:"comment,omitempty"`
	User          User   `json:"user"`
}

// DeliverableActionResponse carries the updated deliverable.
type DeliverableActionResponse struct {
	Deliverable Deliverable `json:"deliverable"`
}

// User identifies the acting user on a request.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CommentAddRequest appends a comment to a deliverable's thread.
type CommentAddRequest struct {
	ProjectID     string  `json:"project_id"`
	DeliverableID string  `json:"deliverable_id"`
	Content       string  `json:"content"`
	Timestamp     float64 `json:"timestamp"`
	User          User    `json:"user"`
}

// CommentAddResponse carries the created comment.
type CommentAddResponse struct {
	Comment Comment `json:"comment"`
}

// CommentReplyRequest appends a threaded reply.
type CommentReplyRequest struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	ParentID      string `json:"parent_id"`
	Content       string `json:"content"`
	User          User   `json:"user"`
}

// CommentReplyResponse carries the created reply.
type CommentReplyResponse struct {
	Comment Comment `json:"comment"`
}

// CommentResolveRequest sets or clears the resolved flag on a comment.
type CommentResolveRequest struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	CommentID     string `json:"comment_id"`
	Resolved      bool   `json:"resolved"`
}

// CommentResolveResponse reports the update.
type CommentResolveResponse struct {
	Resolved bool `json:"resolved"`
}

// CommentListRequest fetches a deliverable's comment thread. Resolved is a
// tri-state filter: nil matches both.
type CommentListRequest struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	Resolved      *bool  `json:"resolved,omitempty"`
	SearchText    string `json:"search_text,omitempty"`
}

// CommentListResponse contains the thread in canonical display order.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
