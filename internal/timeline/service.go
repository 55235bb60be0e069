package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"reelflow/internal/catalog"
	"reelflow/internal/config"
	"reelflow/internal/jsonstore"
	"reelflow/internal/logging"
	"reelflow/internal/notifications"
	"reelflow/internal/schedule"
	"reelflow/internal/services"
)

// Service is the persistence gateway mapping event IDs to timelines, with
// generate-on-read-miss semantics. Reads are side-effect free: a synthesized
// timeline is only written by Save or GenerateAndPersist.
type Service struct {
	timelines *jsonstore.Table[[]schedule.Phase]
	catalog   *catalog.Store
	generator *schedule.Generator
	notifier  notifications.Service
	logger    *slog.Logger
	newID     func() string
}

// NewService wires the gateway against the configured timeline table.
func NewService(cfg *config.Config, cat *catalog.Store, notifier notifications.Service, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Service{
		timelines: jsonstore.NewTable[[]schedule.Phase](cfg.TimelinesFile(),
			jsonstore.WithLockTimeout(cfg.LockTimeout()),
			jsonstore.WithRetryDelay(cfg.LockRetryDelay())),
		catalog:   cat,
		generator: schedule.NewGenerator(),
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "timeline"),
		newID:     uuid.NewString,
	}
}

// ValidationError carries the full list of structural problems found in a
// submitted timeline so callers can surface every issue at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: invalid timeline: %s", services.ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return services.ErrValidation }

// Get returns the timeline for an event, saved phases in chronological
// order. When none has been saved, a fresh one is synthesized from the
// event's briefing and returned with generated=true, without persisting it.
// Fails with not-found when the event itself does not exist.
func (s *Service) Get(ctx context.Context, eventID string) ([]schedule.Phase, bool, error) {
	event, err := s.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}

	phases, ok, err := s.timelines.Get(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return schedule.Chronological(phases), false, nil
	}

	briefing, err := s.catalog.GetBriefing(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	generated := s.generator.Generate(briefing, event)
	s.logger.Debug("synthesized timeline on read miss",
		logging.String(logging.FieldEventID, eventID),
		logging.Int("phases", len(generated)))
	return generated, true, nil
}

// Save validates and stores a timeline for an event, overwriting any prior
// one. Phases and tasks submitted without identifiers receive fresh ones
// before validation. The returned flag reports whether the timeline was
// newly created.
func (s *Service) Save(ctx context.Context, eventID string, phases []schedule.Phase) (bool, error) {
	if _, err := s.catalog.GetEvent(ctx, eventID); err != nil {
		return false, err
	}

	phases = schedule.FillIDs(phases, s.newID)
	if problems := schedule.Validate(phases); len(problems) > 0 {
		return false, &ValidationError{Problems: problems}
	}

	created := false
	err := s.timelines.Update(ctx, func(records map[string][]schedule.Phase) error {
		_, existed := records[eventID]
		created = !existed
		records[eventID] = phases
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("timeline saved",
		logging.String(logging.FieldEventID, eventID),
		logging.Int("phases", len(phases)),
		logging.Bool("created", created))
	return created, nil
}

// GenerateAndPersist synthesizes a timeline and stores it immediately. When
// briefingOverride is non-nil it takes precedence over the filed briefing,
// mirroring generation requests that carry briefing data inline.
func (s *Service) GenerateAndPersist(ctx context.Context, eventID string, briefingOverride *catalog.Briefing) ([]schedule.Phase, error) {
	event, err := s.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	briefing := briefingOverride
	if briefing == nil {
		if briefing, err = s.catalog.GetBriefing(ctx, eventID); err != nil {
			return nil, err
		}
	}

	phases := s.generator.Generate(briefing, event)
	err = s.timelines.Update(ctx, func(records map[string][]schedule.Phase) error {
		records[eventID] = phases
		return nil
	})
	if err != nil {
		if nerr := s.notifier.NotifyError(ctx, err, "timeline generation"); nerr != nil {
			s.logger.Warn("error notification failed", logging.Error(nerr))
		}
		return nil, err
	}

	s.logger.Info("timeline generated",
		logging.String(logging.FieldEventID, eventID),
		logging.Int("phases", len(phases)))
	if err := s.notifier.NotifyTimelineGenerated(ctx, event.Title, len(phases)); err != nil {
		s.logger.Warn("timeline notification failed", logging.Error(err))
	}
	return phases, nil
}
