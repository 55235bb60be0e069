package catalog

import (
	"context"
	"fmt"

	"reelflow/internal/config"
	"reelflow/internal/jsonstore"
	"reelflow/internal/services"
)

// Store reads the event and briefing tables maintained by the external
// event-management subsystem. Both tables are read-only here.
type Store struct {
	eventsPath string
	briefings  *jsonstore.Table[Briefing]
}

// NewStore binds the catalog to the configured data files.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		eventsPath: cfg.EventsFile(),
		briefings:  jsonstore.NewTable[Briefing](cfg.BriefingsFile()),
	}
}

// Events returns every known event.
func (s *Store) Events(ctx context.Context) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, _, err := jsonstore.ReadFile[[]Event](s.eventsPath)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns the event with the given ID.
func (s *Store) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == eventID {
			return &events[i], nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "catalog", "event", fmt.Sprintf("event %s", eventID), nil)
}

// GetBriefing returns the briefing snapshot for an event, or nil when no
// briefing has been filed.
func (s *Store) GetBriefing(ctx context.Context, eventID string) (*Briefing, error) {
	briefing, ok, err := s.briefings.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &briefing, nil
}
