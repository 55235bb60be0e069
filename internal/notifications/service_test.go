package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"reelflow/internal/config"
	"reelflow/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyReadyForReview(context.Background(), "Casamento A&B", "Aftermovie"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "version uploaded",
			notify: func(svc notifications.Service) error {
				return svc.NotifyVersionUploaded(context.Background(), "Casamento A&B", "Aftermovie", "v2.mp4")
			},
			expectTitle:   "Reelflow - New Version",
			expectMessage: "New version v2.mp4 uploaded for Aftermovie (Casamento A&B)",
			expectTags:    "reelflow,version,uploaded",
		},
		{
			name: "ready for review",
			notify: func(svc notifications.Service) error {
				return svc.NotifyReadyForReview(context.Background(), "Casamento A&B", "Aftermovie")
			},
			expectTitle:   "Reelflow - Ready for Review",
			expectMessage: "Aftermovie (Casamento A&B) is ready for review",
			expectTags:    "reelflow,review,ready",
		},
		{
			name: "approved",
			notify: func(svc notifications.Service) error {
				return svc.NotifyVersionApproved(context.Background(), "Casamento A&B", "Aftermovie", "Cliente")
			},
			expectTitle:    "Reelflow - Approved",
			expectMessage:  "Aftermovie (Casamento A&B) approved by Cliente",
			expectTags:     "reelflow,review,approved",
			expectPriority: "high",
		},
		{
			name: "changes requested with comment",
			notify: func(svc notifications.Service) error {
				return svc.NotifyChangesRequested(context.Background(), "Casamento A&B", "Aftermovie", "Trocar a trilha")
			},
			expectTitle:   "Reelflow - Changes Requested",
			expectMessage: "Changes requested on Aftermovie (Casamento A&B)\nTrocar a trilha",
			expectTags:    "reelflow,review,changes",
		},
		{
			name: "timeline generated",
			notify: func(svc notifications.Service) error {
				return svc.NotifyTimelineGenerated(context.Background(), "Launch Keynote", 4)
			},
			expectTitle:   "Reelflow - Timeline Generated",
			expectMessage: "Generated 4-phase production timeline for Launch Keynote",
			expectTags:    "reelflow,timeline,generated",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.DedupWindowSeconds = 0

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategorySwitches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Review = false
	cfg.Notifications.Approval = false
	cfg.Notifications.Timeline = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyReadyForReview(ctx, "p", "d"); err != nil {
		t.Fatalf("disabled category must be silent: %v", err)
	}
	if err := svc.NotifyVersionApproved(ctx, "p", "d", "a"); err != nil {
		t.Fatalf("disabled category must be silent: %v", err)
	}
	if err := svc.NotifyTimelineGenerated(ctx, "e", 4); err != nil {
		t.Fatalf("disabled category must be silent: %v", err)
	}
}

func TestNtfyServiceDeduplicatesRepeats(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.DedupWindowSeconds = 600

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := svc.NotifyReadyForReview(ctx, "Casamento A&B", "Aftermovie"); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 delivery within dedup window, got %d", got)
	}
}
