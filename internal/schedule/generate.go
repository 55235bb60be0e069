package schedule

import (
	"time"

	"github.com/google/uuid"

	"reelflow/internal/catalog"
)

type taskSpec struct {
	name          string
	description   string
	dueOffsetDays int
}

type phaseSpec struct {
	name            string
	description     string
	phaseType       PhaseType
	startOffsetDays int
	durationDays    int
	tasks           []taskSpec
}

// phaseTemplate is the canonical four-phase production schedule, anchored on
// the event date. The generator is deliberately content-blind: briefing data
// resolves the anchor but never reshapes phases or tasks.
var phaseTemplate = []phaseSpec{
	{
		name:            "Pré-produção",
		description:     "Fase de planejamento e preparação",
		phaseType:       TypePlanning,
		startOffsetDays: -30,
		durationDays:    15,
		tasks: []taskSpec{
			{name: "Reunião inicial", description: "Alinhamento de expectativas", dueOffsetDays: 2},
			{name: "Elaboração de roteiro", description: "Desenvolvimento do conteúdo base", dueOffsetDays: 7},
		},
	},
	{
		name:            "Produção",
		description:     "Fase de captação e criação de conteúdo",
		phaseType:       TypeProduction,
		startOffsetDays: -15,
		durationDays:    10,
		tasks: []taskSpec{
			{name: "Captação de vídeo", description: "Filmagem do conteúdo", dueOffsetDays: 3},
			{name: "Backup de material", description: "Organização e backup de todo o material", dueOffsetDays: 4},
		},
	},
	{
		name:            "Pós-produção",
		description:     "Fase de edição e finalização",
		phaseType:       TypePostProduction,
		startOffsetDays: -5,
		durationDays:    3,
		tasks: []taskSpec{
			{name: "Edição preliminar", description: "Primeiro corte do vídeo", dueOffsetDays: 1},
			{name: "Revisão e aprovação", description: "Revisão pelo cliente", dueOffsetDays: 2},
			{name: "Finalização", description: "Ajustes finais e exportação", dueOffsetDays: 3},
		},
	},
	{
		name:            "Entrega",
		description:     "Entrega do material no dia do evento",
		phaseType:       TypeDelivery,
		startOffsetDays: 0,
		durationDays:    0,
		tasks: []taskSpec{
			{name: "Entrega do material final", description: "Disponibilização dos arquivos finais", dueOffsetDays: 0},
		},
	},
}

// Generator derives production timelines from briefing and event data.
// Now and NewID are injectable for deterministic tests.
type Generator struct {
	Now   func() time.Time
	NewID func() string
}

// NewGenerator returns a generator using the wall clock and random UUIDs.
func NewGenerator() *Generator {
	return &Generator{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Generate produces the canonical four-phase timeline anchored on the
// resolved event date. When both briefing and event are nil there is nothing
// to anchor on and the result is empty. Phases are emitted in chronological
// order with every phase and task pending.
func (g *Generator) Generate(briefing *catalog.Briefing, event *catalog.Event) []Phase {
	if briefing == nil && event == nil {
		return []Phase{}
	}

	anchor, ok := catalog.AnchorDate(briefing, event)
	if !ok {
		anchor = g.now().UTC()
	}

	phases := make([]Phase, 0, len(phaseTemplate))
	for _, spec := range phaseTemplate {
		start, end := Window(anchor, spec.startOffsetDays, spec.durationDays)

		tasks := make([]Task, 0, len(spec.tasks))
		for _, ts := range spec.tasks {
			tasks = append(tasks, Task{
				ID:          g.newID(),
				Name:        ts.name,
				Description: ts.description,
				Status:      StatusPending,
				DueDate:     FormatDate(DueDate(start, ts.dueOffsetDays)),
			})
		}

		phases = append(phases, Phase{
			ID:          g.newID(),
			Name:        spec.name,
			Description: spec.description,
			StartDate:   FormatDate(start),
			EndDate:     FormatDate(end),
			Status:      StatusPending,
			Type:        spec.phaseType,
			Tasks:       tasks,
		})
	}
	return phases
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}
