package ipc_test

import (
	"context"
	"encoding/json"
	"testing"

	"reelflow/internal/catalog"
	"reelflow/internal/daemon"
	"reelflow/internal/ipc"
	"reelflow/internal/logging"
	"reelflow/internal/projects"
	"reelflow/internal/schedule"
	"reelflow/internal/testsupport"
)

func startServer(t *testing.T) (*ipc.Client, *daemon.Daemon) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	testsupport.SeedEvents(t, cfg, []catalog.Event{
		{ID: "evt-1", Title: "Casamento Ana & Bruno", Date: "2025-09-20"},
	})
	testsupport.SeedBriefing(t, cfg, "evt-1", catalog.Briefing{EventDate: "2025-09-20"})

	store, err := projects.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logging.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, d
}

func TestDaemonLifecycleOverSocket(t *testing.T) {
	client, _ := startServer(t)

	start, err := client.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !start.Started {
		t.Fatalf("expected started, got %+v", start)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running || status.PID == 0 || status.SocketPath == "" {
		t.Fatalf("unexpected status: %+v", status)
	}

	stop, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !stop.Stopped {
		t.Fatal("expected stopped")
	}
}

func TestProjectWorkflowOverSocket(t *testing.T) {
	client, _ := startServer(t)

	created, err := client.ProjectCreate(ipc.ProjectCreateRequest{Name: "Casamento Ana & Bruno", EventID: "evt-1"})
	if err != nil {
		t.Fatalf("ProjectCreate: %v", err)
	}
	if created.Project.ID == "" || created.Project.Status != "draft" {
		t.Fatalf("unexpected project: %+v", created.Project)
	}
	projectID := created.Project.ID

	added, err := client.DeliverableAdd(ipc.DeliverableAddRequest{ProjectID: projectID, Title: "Filme do casamento"})
	if err != nil {
		t.Fatalf("DeliverableAdd: %v", err)
	}
	deliverableID := added.Deliverable.ID

	uploaded, err := client.VersionUpload(ipc.VersionUploadRequest{
		ProjectID:     projectID,
		DeliverableID: deliverableID,
		Name:          "v1",
		URL:           "https://example.com/v1.mp4",
	})
	if err != nil {
		t.Fatalf("VersionUpload: %v", err)
	}
	if !uploaded.Version.Active {
		t.Fatal("first version must be active")
	}

	ready, err := client.DeliverableMarkReady(ipc.DeliverableActionRequest{
		ProjectID:     projectID,
		DeliverableID: deliverableID,
	})
	if err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	if ready.Deliverable.Status != "ready_for_review" {
		t.Fatalf("unexpected status: %s", ready.Deliverable.Status)
	}

	reviewer := ipc.User{ID: "u1", Name: "Cliente"}
	approvedVersion, err := client.VersionApprove(ipc.VersionActionRequest{
		ProjectID:     projectID,
		DeliverableID: deliverableID,
		VersionID:     uploaded.Version.ID,
		User:          reviewer,
	})
	if err != nil {
		t.Fatalf("VersionApprove: %v", err)
	}
	if approvedVersion.Deliverable.Versions[0].ApprovedBy != "Cliente" {
		t.Fatalf("approval not stamped: %+v", approvedVersion.Deliverable.Versions[0])
	}

	done, err := client.DeliverableMarkApproved(ipc.DeliverableActionRequest{
		ProjectID:     projectID,
		DeliverableID: deliverableID,
	})
	if err != nil {
		t.Fatalf("MarkApproved: %v", err)
	}
	if done.Deliverable.Status != "approved" {
		t.Fatalf("unexpected status: %s", done.Deliverable.Status)
	}

	comment, err := client.CommentAdd(ipc.CommentAddRequest{
		ProjectID:     projectID,
		DeliverableID: deliverableID,
		Content:       "Cor linda nesse plano",
		Timestamp:     12.5,
		User:          reviewer,
	})
	if err != nil {
		t.Fatalf("CommentAdd: %v", err)
	}
	if comment.Comment.UserName != "Cliente" {
		t.Fatalf("comment author missing: %+v", comment.Comment)
	}

	list, err := client.CommentList(ipc.CommentListRequest{ProjectID: projectID, DeliverableID: deliverableID})
	if err != nil {
		t.Fatalf("CommentList: %v", err)
	}
	if len(list.Comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(list.Comments))
	}

	stats, err := client.ProjectStats()
	if err != nil {
		t.Fatalf("ProjectStats: %v", err)
	}
	if stats.Stats.Total != 1 {
		t.Fatalf("unexpected stats: %+v", stats.Stats)
	}
}

func TestTimelineOverSocket(t *testing.T) {
	client, _ := startServer(t)

	got, err := client.TimelineGet(ipc.TimelineGetRequest{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("TimelineGet: %v", err)
	}
	if !got.Generated {
		t.Fatal("expected synthesized timeline before any save")
	}
	var phases []schedule.Phase
	if err := json.Unmarshal(got.Phases, &phases); err != nil {
		t.Fatalf("decode phases: %v", err)
	}
	if len(phases) == 0 {
		t.Fatal("expected generated phases")
	}

	payload, err := json.Marshal(phases)
	if err != nil {
		t.Fatalf("encode phases: %v", err)
	}
	saved, err := client.TimelineSave(ipc.TimelineSaveRequest{EventID: "evt-1", Phases: payload})
	if err != nil {
		t.Fatalf("TimelineSave: %v", err)
	}
	if len(saved.Problems) > 0 {
		t.Fatalf("unexpected problems: %v", saved.Problems)
	}
	if !saved.Created {
		t.Fatal("first save must create")
	}

	after, err := client.TimelineGet(ipc.TimelineGetRequest{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("TimelineGet after save: %v", err)
	}
	if after.Generated {
		t.Fatal("saved timeline must not report generated")
	}

	invalid, err := client.TimelineSave(ipc.TimelineSaveRequest{
		EventID: "evt-1",
		Phases:  json.RawMessage(`[{"id":"","name":"","startDate":"","endDate":""}]`),
	})
	if err != nil {
		t.Fatalf("TimelineSave invalid: %v", err)
	}
	if len(invalid.Problems) == 0 {
		t.Fatal("expected validation problems")
	}

	shape, err := client.TimelineSave(ipc.TimelineSaveRequest{EventID: "evt-1", Phases: json.RawMessage(`{"not":"array"}`)})
	if err != nil {
		t.Fatalf("TimelineSave shape: %v", err)
	}
	if len(shape.Problems) != 1 {
		t.Fatalf("expected shape problem, got %v", shape.Problems)
	}

	noIDs, err := client.TimelineSave(ipc.TimelineSaveRequest{
		EventID: "evt-1",
		Phases:  json.RawMessage(`[{"name":"Entrega","startDate":"2025-09-20","endDate":"2025-09-20"}]`),
	})
	if err != nil {
		t.Fatalf("TimelineSave without ids: %v", err)
	}
	if len(noIDs.Problems) > 0 {
		t.Fatalf("missing ids must be filled on save, got %v", noIDs.Problems)
	}

	withIDs, err := client.TimelineGet(ipc.TimelineGetRequest{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("TimelineGet after id fill: %v", err)
	}
	var stored []schedule.Phase
	if err := json.Unmarshal(withIDs.Phases, &stored); err != nil {
		t.Fatalf("decode stored phases: %v", err)
	}
	if len(stored) != 1 || stored[0].ID == "" {
		t.Fatalf("expected stored phase with generated id, got %+v", stored)
	}
}

func TestTimelineGenerateWithBriefingOverride(t *testing.T) {
	client, _ := startServer(t)

	override, err := json.Marshal(catalog.Briefing{EventDate: "2025-12-01"})
	if err != nil {
		t.Fatalf("encode briefing: %v", err)
	}
	generated, err := client.TimelineGenerate(ipc.TimelineGenerateRequest{EventID: "evt-1", Briefing: override})
	if err != nil {
		t.Fatalf("TimelineGenerate: %v", err)
	}
	var phases []schedule.Phase
	if err := json.Unmarshal(generated.Phases, &phases); err != nil {
		t.Fatalf("decode phases: %v", err)
	}
	if len(phases) == 0 {
		t.Fatal("expected phases from override generation")
	}

	after, err := client.TimelineGet(ipc.TimelineGetRequest{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("TimelineGet: %v", err)
	}
	if after.Generated {
		t.Fatal("generation must persist the timeline")
	}
}

func TestUnknownEventOverSocket(t *testing.T) {
	client, _ := startServer(t)

	if _, err := client.TimelineGet(ipc.TimelineGetRequest{EventID: "missing"}); err == nil {
		t.Fatal("expected error for unknown event")
	}
	if _, err := client.ProjectDescribe(ipc.ProjectDescribeRequest{ID: "missing"}); err == nil {
		t.Fatal("expected error for unknown project")
	}
}
