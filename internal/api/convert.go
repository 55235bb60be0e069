package api

import (
	"time"

	"reelflow/internal/comments"
	"reelflow/internal/deliverable"
	"reelflow/internal/projects"
)

// FromProject converts a project record to its API representation.
func FromProject(project *projects.Project) Project {
	if project == nil {
		return Project{}
	}

	dto := Project{
		ID:       project.ID,
		Name:     project.Name,
		Client:   project.Client,
		EventID:  project.EventID,
		Status:   string(project.Status),
		Videos:   fromDeliverables(project.Videos),
		Timeline: project.Timeline,
		Tasks:    fromReviewTasks(project.Tasks),
	}
	if !project.CreatedAt.IsZero() {
		dto.CreatedAt = formatTime(project.CreatedAt)
	}
	if !project.UpdatedAt.IsZero() {
		dto.UpdatedAt = formatTime(project.UpdatedAt)
	}
	return dto
}

// FromProjects converts a slice of project records into API DTOs.
func FromProjects(items []*projects.Project) []Project {
	if len(items) == 0 {
		return nil
	}
	out := make([]Project, 0, len(items))
	for _, item := range items {
		out = append(out, FromProject(item))
	}
	return out
}

// FromDeliverable converts a deliverable to its API representation.
func FromDeliverable(d deliverable.Deliverable) Deliverable {
	return Deliverable{
		ID:       d.ID,
		Title:    d.Title,
		Status:   string(d.Status),
		Versions: fromVersions(d.Versions),
		Comments: FromComments(d.Comments),
	}
}

// FromVersion converts a version to its API representation.
func FromVersion(v deliverable.Version) Version {
	dto := Version{
		ID:         v.ID,
		Name:       v.Name,
		URL:        v.URL,
		Active:     v.Active,
		Approved:   v.Approved,
		ApprovedBy: v.ApprovedBy,
	}
	if !v.UploadedAt.IsZero() {
		dto.UploadedAt = formatTime(v.UploadedAt)
	}
	if v.ApprovedAt != nil {
		dto.ApprovedAt = formatTime(*v.ApprovedAt)
	}
	return dto
}

// FromComment converts a comment to its API representation.
func FromComment(c comments.Comment) Comment {
	dto := Comment{
		ID:        c.ID,
		ParentID:  c.ParentID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Content:   c.Content,
		Timestamp: c.Timestamp,
		Resolved:  c.Resolved,
	}
	if !c.CreatedAt.IsZero() {
		dto.CreatedAt = formatTime(c.CreatedAt)
	}
	return dto
}

// FromComments converts a comment thread into API DTOs.
func FromComments(list []comments.Comment) []Comment {
	out := make([]Comment, 0, len(list))
	for _, c := range list {
		out = append(out, FromComment(c))
	}
	return out
}

// FromStats converts store aggregates into the API stats payload.
func FromStats(stats projects.Stats) ProjectStats {
	return ProjectStats{
		Total:      stats.Total,
		Draft:      stats.Draft,
		InProgress: stats.InProgress,
		Review:     stats.Review,
		Completed:  stats.Completed,
		Archived:   stats.Archived,
	}
}

func fromDeliverables(list []deliverable.Deliverable) []Deliverable {
	out := make([]Deliverable, 0, len(list))
	for _, d := range list {
		out = append(out, FromDeliverable(d))
	}
	return out
}

func fromVersions(list []deliverable.Version) []Version {
	out := make([]Version, 0, len(list))
	for _, v := range list {
		out = append(out, FromVersion(v))
	}
	return out
}

func fromReviewTasks(list []projects.ReviewTask) []ReviewTask {
	if len(list) == 0 {
		return nil
	}
	out := make([]ReviewTask, 0, len(list))
	for _, task := range list {
		dto := ReviewTask{
			ID:            task.ID,
			DeliverableID: task.DeliverableID,
			Name:          task.Name,
			Status:        string(task.Status),
		}
		if !task.CreatedAt.IsZero() {
			dto.CreatedAt = formatTime(task.CreatedAt)
		}
		out = append(out, dto)
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(dateTimeFormat)
}
