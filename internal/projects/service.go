package projects

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelflow/internal/comments"
	"reelflow/internal/deliverable"
	"reelflow/internal/logging"
	"reelflow/internal/notifications"
	"reelflow/internal/schedule"
	"reelflow/internal/services"
)

// Service orchestrates project workflow: deliverable review cycles, comment
// threads, review-task bookkeeping, and notifications. All mutations go
// through a read-modify-write of the whole project row so concurrent writers
// never interleave partial updates.
type Service struct {
	store    *Store
	machine  *deliverable.Machine
	comments *comments.Manager
	notifier notifications.Service
	logger   *slog.Logger

	Now   func() time.Time
	NewID func() string
}

// NewService wires a project service over the given store.
func NewService(store *Store, notifier notifications.Service, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:    store,
		machine:  deliverable.NewMachine(),
		comments: comments.NewManager(),
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "projects"),
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Create registers a new project in the draft state.
func (s *Service) Create(ctx context.Context, name, client, eventID string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, services.Wrap(services.ErrValidation, "projects", "create", "name is required", nil)
	}
	now := s.Now().UTC()
	project := &Project{
		ID:        s.NewID(),
		Name:      name,
		Client:    client,
		EventID:   eventID,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, project); err != nil {
		return nil, services.Wrap(services.ErrInternal, "projects", "create", "persist project", err)
	}
	s.logger.InfoContext(ctx, "project created",
		logging.String(logging.FieldProjectID, project.ID),
		logging.String("name", project.Name))
	return project, nil
}

// Get fetches a project by identifier.
func (s *Service) Get(ctx context.Context, projectID string) (*Project, error) {
	project, err := s.store.GetByID(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "projects", "get", "load project", err)
	}
	if project == nil {
		return nil, services.Wrap(services.ErrNotFound, "projects", "get", fmt.Sprintf("project %s", projectID), nil)
	}
	return project, nil
}

// List returns projects, optionally filtered by status.
func (s *Service) List(ctx context.Context, statuses ...Status) ([]*Project, error) {
	projects, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "projects", "list", "list projects", err)
	}
	return projects, nil
}

// Stats aggregates project counts per lifecycle state.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, services.Wrap(services.ErrInternal, "projects", "stats", "count projects", err)
	}
	return stats, nil
}

// SetStatus moves a project to a new lifecycle state.
func (s *Service) SetStatus(ctx context.Context, projectID string, status Status) (*Project, error) {
	return s.mutate(ctx, projectID, "set_status", func(p *Project) error {
		if !CanTransition(p.Status, status) {
			return services.Wrap(services.ErrValidation, "projects", "set_status",
				fmt.Sprintf("cannot transition from %s to %s", p.Status, status), nil)
		}
		p.Status = status
		return nil
	})
}

// Archive moves a project into the terminal archived state.
func (s *Service) Archive(ctx context.Context, projectID string) (*Project, error) {
	return s.SetStatus(ctx, projectID, StatusArchived)
}

// Delete removes a project permanently.
func (s *Service) Delete(ctx context.Context, projectID string) error {
	removed, err := s.store.Remove(ctx, projectID)
	if err != nil {
		return services.Wrap(services.ErrInternal, "projects", "delete", "delete project", err)
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "projects", "delete", fmt.Sprintf("project %s", projectID), nil)
	}
	s.logger.InfoContext(ctx, "project deleted", logging.String(logging.FieldProjectID, projectID))
	return nil
}

// AttachTimeline stores a production timeline snapshot on the project.
func (s *Service) AttachTimeline(ctx context.Context, projectID string, phases []schedule.Phase) (*Project, error) {
	return s.mutate(ctx, projectID, "attach_timeline", func(p *Project) error {
		p.Timeline = phases
		return nil
	})
}

// AddDeliverable creates a new video deliverable on the project.
func (s *Service) AddDeliverable(ctx context.Context, projectID, title string) (*Project, *deliverable.Deliverable, error) {
	var created deliverable.Deliverable
	project, err := s.mutate(ctx, projectID, "add_deliverable", func(p *Project) error {
		d, err := s.machine.New(title)
		if err != nil {
			return err
		}
		p.Videos = append(p.Videos, d)
		created = d
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return project, &created, nil
}

// UploadVersion adds a new version to a deliverable and notifies reviewers.
func (s *Service) UploadVersion(ctx context.Context, projectID, deliverableID string, upload deliverable.Upload) (*Project, *deliverable.Version, error) {
	var version deliverable.Version
	project, err := s.mutateDeliverable(ctx, projectID, deliverableID, "upload_version", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		updated, v, err := s.machine.AddVersion(d, upload)
		if err != nil {
			return d, err
		}
		version = v
		return updated, nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.notify(ctx, "version upload", func(d deliverable.Deliverable) error {
		return s.notifier.NotifyVersionUploaded(ctx, project.Name, d.Title, version.Name)
	}, project, deliverableID)
	return project, &version, nil
}

// SetActiveVersion makes the named version the deliverable's active one.
func (s *Service) SetActiveVersion(ctx context.Context, projectID, deliverableID, versionID string) (*Project, error) {
	return s.mutateDeliverable(ctx, projectID, deliverableID, "set_active_version", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		return s.machine.SetActiveVersion(d, versionID)
	})
}

// ApproveVersion stamps a version approved on behalf of the current user.
func (s *Service) ApproveVersion(ctx context.Context, projectID, deliverableID, versionID string) (*Project, error) {
	approver, _ := services.UserFromContext(ctx)
	project, err := s.mutateDeliverable(ctx, projectID, deliverableID, "approve_version", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		return s.machine.ApproveVersion(d, versionID, approver)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "version approval", func(d deliverable.Deliverable) error {
		return s.notifier.NotifyVersionApproved(ctx, project.Name, d.Title, approver.Name)
	}, project, deliverableID)
	return project, nil
}

// MarkReady moves a deliverable into review and ensures a pending review
// task exists for it.
func (s *Service) MarkReady(ctx context.Context, projectID, deliverableID string) (*Project, error) {
	project, err := s.mutate(ctx, projectID, "mark_ready", func(p *Project) error {
		idx, ok := p.FindDeliverable(deliverableID)
		if !ok {
			return deliverableNotFound("mark_ready", deliverableID)
		}
		updated, err := s.machine.MarkReady(p.Videos[idx])
		if err != nil {
			return err
		}
		p.Videos[idx] = updated
		s.ensureReviewTask(p, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "review request", func(d deliverable.Deliverable) error {
		return s.notifier.NotifyReadyForReview(ctx, project.Name, d.Title)
	}, project, deliverableID)
	return project, nil
}

// MarkApproved moves a deliverable to the approved state and completes its
// review tasks.
func (s *Service) MarkApproved(ctx context.Context, projectID, deliverableID string) (*Project, error) {
	return s.mutate(ctx, projectID, "mark_approved", func(p *Project) error {
		idx, ok := p.FindDeliverable(deliverableID)
		if !ok {
			return deliverableNotFound("mark_approved", deliverableID)
		}
		updated, err := s.machine.MarkApproved(p.Videos[idx])
		if err != nil {
			return err
		}
		p.Videos[idx] = updated
		s.completeReviewTasks(p, deliverableID)
		return nil
	})
}

// RequestChanges moves a deliverable to changes_requested, optionally
// recording the reviewer's note as a comment at the start of the video.
func (s *Service) RequestChanges(ctx context.Context, projectID, deliverableID, commentText string) (*Project, error) {
	requester, _ := services.UserFromContext(ctx)
	project, err := s.mutateDeliverable(ctx, projectID, deliverableID, "request_changes", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		return s.machine.RequestChanges(d, commentText, requester)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "change request", func(d deliverable.Deliverable) error {
		return s.notifier.NotifyChangesRequested(ctx, project.Name, d.Title, commentText)
	}, project, deliverableID)
	return project, nil
}

// AddComment appends a timestamped comment to a deliverable's thread.
func (s *Service) AddComment(ctx context.Context, projectID, deliverableID, content string, timestamp float64) (*Project, *comments.Comment, error) {
	author, _ := services.UserFromContext(ctx)
	var created comments.Comment
	project, err := s.mutateDeliverable(ctx, projectID, deliverableID, "add_comment", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		list, c, err := s.comments.Add(d.Comments, content, timestamp, author)
		if err != nil {
			return d, err
		}
		d.Comments = list
		created = c
		return d, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return project, &created, nil
}

// ReplyComment appends a threaded reply to an existing comment.
func (s *Service) ReplyComment(ctx context.Context, projectID, deliverableID, parentID, content string) (*Project, *comments.Comment, error) {
	author, _ := services.UserFromContext(ctx)
	var created comments.Comment
	project, err := s.mutateDeliverable(ctx, projectID, deliverableID, "reply_comment", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		list, c, err := s.comments.Reply(d.Comments, parentID, content, author)
		if err != nil {
			return d, err
		}
		d.Comments = list
		created = c
		return d, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return project, &created, nil
}

// ResolveComment sets or clears the resolved flag on a comment.
func (s *Service) ResolveComment(ctx context.Context, projectID, deliverableID, commentID string, resolved bool) (*Project, error) {
	return s.mutateDeliverable(ctx, projectID, deliverableID, "resolve_comment", func(d deliverable.Deliverable) (deliverable.Deliverable, error) {
		list, err := s.comments.Resolve(d.Comments, commentID, resolved)
		if err != nil {
			return d, err
		}
		d.Comments = list
		return d, nil
	})
}

// ListComments returns a deliverable's comments filtered and in canonical
// display order.
func (s *Service) ListComments(ctx context.Context, projectID, deliverableID string, filter comments.Filter) ([]comments.Comment, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	idx, ok := project.FindDeliverable(deliverableID)
	if !ok {
		return nil, deliverableNotFound("list_comments", deliverableID)
	}
	return comments.Sort(comments.Select(project.Videos[idx].Comments, filter)), nil
}

// mutate loads a project, applies fn, and persists the result. fn errors
// abort the write.
func (s *Service) mutate(ctx context.Context, projectID, operation string, fn func(*Project) error) (*Project, error) {
	project, err := s.store.GetByID(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "projects", operation, "load project", err)
	}
	if project == nil {
		return nil, services.Wrap(services.ErrNotFound, "projects", operation, fmt.Sprintf("project %s", projectID), nil)
	}
	if err := fn(project); err != nil {
		return nil, err
	}
	matched, err := s.store.Update(ctx, project)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "projects", operation, "persist project", err)
	}
	if !matched {
		return nil, services.Wrap(services.ErrConflict, "projects", operation, "project vanished during update", nil)
	}
	return project, nil
}

func (s *Service) mutateDeliverable(ctx context.Context, projectID, deliverableID, operation string, fn func(deliverable.Deliverable) (deliverable.Deliverable, error)) (*Project, error) {
	return s.mutate(ctx, projectID, operation, func(p *Project) error {
		idx, ok := p.FindDeliverable(deliverableID)
		if !ok {
			return deliverableNotFound(operation, deliverableID)
		}
		updated, err := fn(p.Videos[idx])
		if err != nil {
			return err
		}
		p.Videos[idx] = updated
		return nil
	})
}

// ensureReviewTask adds a pending review task for the deliverable unless one
// is already open.
func (s *Service) ensureReviewTask(p *Project, d deliverable.Deliverable) {
	for _, task := range p.Tasks {
		if task.DeliverableID == d.ID && task.Status == TaskPending {
			return
		}
	}
	p.Tasks = append(p.Tasks, ReviewTask{
		ID:            s.NewID(),
		DeliverableID: d.ID,
		Name:          fmt.Sprintf("Revisar %s", d.Title),
		Status:        TaskPending,
		CreatedAt:     s.Now().UTC(),
	})
}

func (s *Service) completeReviewTasks(p *Project, deliverableID string) {
	for i := range p.Tasks {
		if p.Tasks[i].DeliverableID == deliverableID {
			p.Tasks[i].Status = TaskCompleted
		}
	}
}

// notify delivers a workflow notification best-effort; failures are logged
// and never fail the operation.
func (s *Service) notify(ctx context.Context, label string, send func(deliverable.Deliverable) error, project *Project, deliverableID string) {
	idx, ok := project.FindDeliverable(deliverableID)
	if !ok {
		return
	}
	if err := send(project.Videos[idx]); err != nil {
		s.logger.WarnContext(ctx, "notification failed",
			logging.String("notification", label),
			logging.String(logging.FieldProjectID, project.ID),
			logging.Error(err))
	}
}

func deliverableNotFound(operation, deliverableID string) error {
	return services.Wrap(services.ErrNotFound, "projects", operation, fmt.Sprintf("deliverable %s", deliverableID), nil)
}
