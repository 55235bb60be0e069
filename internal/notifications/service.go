package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"reelflow/internal/config"
)

const userAgent = "Reelflow-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyVersionUploaded(ctx context.Context, projectName, deliverableTitle, versionName string) error
	NotifyReadyForReview(ctx context.Context, projectName, deliverableTitle string) error
	NotifyVersionApproved(ctx context.Context, projectName, deliverableTitle, approver string) error
	NotifyChangesRequested(ctx context.Context, projectName, deliverableTitle, comment string) error
	NotifyTimelineGenerated(ctx context.Context, eventTitle string, phaseCount int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dedup := time.Duration(cfg.Notifications.DedupWindowSeconds) * time.Second

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:    topic,
		client:      client,
		settings:    cfg.Notifications,
		dedupWindow: dedup,
		lastSent:    make(map[string]time.Time),
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	settings    config.Notifications
	dedupWindow time.Duration

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func (n *ntfyService) NotifyVersionUploaded(ctx context.Context, projectName, deliverableTitle, versionName string) error {
	if !n.settings.Review {
		return nil
	}
	data := payload{
		title:   "Reelflow - New Version",
		message: fmt.Sprintf("New version %s uploaded for %s (%s)", strings.TrimSpace(versionName), strings.TrimSpace(deliverableTitle), strings.TrimSpace(projectName)),
		tags:    []string{"reelflow", "version", "uploaded"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReadyForReview(ctx context.Context, projectName, deliverableTitle string) error {
	if !n.settings.Review {
		return nil
	}
	data := payload{
		title:   "Reelflow - Ready for Review",
		message: fmt.Sprintf("%s (%s) is ready for review", strings.TrimSpace(deliverableTitle), strings.TrimSpace(projectName)),
		tags:    []string{"reelflow", "review", "ready"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyVersionApproved(ctx context.Context, projectName, deliverableTitle, approver string) error {
	if !n.settings.Approval {
		return nil
	}
	data := payload{
		title:    "Reelflow - Approved",
		message:  fmt.Sprintf("%s (%s) approved by %s", strings.TrimSpace(deliverableTitle), strings.TrimSpace(projectName), strings.TrimSpace(approver)),
		tags:     []string{"reelflow", "review", "approved"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyChangesRequested(ctx context.Context, projectName, deliverableTitle, comment string) error {
	if !n.settings.Review {
		return nil
	}
	message := fmt.Sprintf("Changes requested on %s (%s)", strings.TrimSpace(deliverableTitle), strings.TrimSpace(projectName))
	if comment = strings.TrimSpace(comment); comment != "" {
		message = fmt.Sprintf("%s\n%s", message, comment)
	}
	data := payload{
		title:   "Reelflow - Changes Requested",
		message: message,
		tags:    []string{"reelflow", "review", "changes"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTimelineGenerated(ctx context.Context, eventTitle string, phaseCount int) error {
	if !n.settings.Timeline {
		return nil
	}
	data := payload{
		title:   "Reelflow - Timeline Generated",
		message: fmt.Sprintf("Generated %d-phase production timeline for %s", phaseCount, strings.TrimSpace(eventTitle)),
		tags:    []string{"reelflow", "timeline", "generated"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.settings.Errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Reelflow - Error",
		message:  builder.String(),
		tags:     []string{"reelflow", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Reelflow - Test",
		message:  "Notification system test",
		tags:     []string{"reelflow", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

// shouldSend suppresses repeats of the same message within the dedup window
// so a retried operation does not spam the topic.
func (n *ntfyService) shouldSend(key string, now time.Time) bool {
	if n.dedupWindow <= 0 {
		return true
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.dedupWindow {
		return false
	}
	n.lastSent[key] = now
	return true
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}
	if !n.shouldSend(data.title+"\x00"+data.message, time.Now()) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyVersionUploaded(context.Context, string, string, string) error  { return nil }
func (noopService) NotifyReadyForReview(context.Context, string, string) error           { return nil }
func (noopService) NotifyVersionApproved(context.Context, string, string, string) error  { return nil }
func (noopService) NotifyChangesRequested(context.Context, string, string, string) error { return nil }
func (noopService) NotifyTimelineGenerated(context.Context, string, int) error           { return nil }
func (noopService) NotifyError(context.Context, error, string) error                     { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }

// NewNop returns a Service that drops every notification.
func NewNop() Service {
	return noopService{}
}
