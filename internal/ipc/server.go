package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"reelflow/internal/api"
	"reelflow/internal/catalog"
	"reelflow/internal/comments"
	"reelflow/internal/daemon"
	"reelflow/internal/deliverable"
	"reelflow/internal/logging"
	"reelflow/internal/logs"
	"reelflow/internal/projects"
	"reelflow/internal/schedule"
	"reelflow/internal/services"
	"reelflow/internal/timeline"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{
		daemon: d,
		reads:  api.NewProjectService(d.Projects()),
		logger: logger,
		ctx:    ctx,
	}
	if err := rpcServer.RegisterName("Reelflow", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	reads  *api.ProjectService
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

// userContext attaches the request's acting user so the services can stamp
// approvals and comments with authorship.
func (s *service) userContext(user User) context.Context {
	if user.ID == "" && user.Name == "" {
		return s.ctx
	}
	return services.WithUser(s.ctx, services.User{ID: user.ID, Name: user.Name})
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = os.Getpid()
	resp.ProjectDBPath = status.ProjectDBPath
	resp.LockPath = status.LockFilePath
	resp.SocketPath = status.SocketPath
	resp.Stats = api.FromStats(status.Stats)
	return nil
}

func (s *service) TimelineGet(req TimelineGetRequest, resp *TimelineGetResponse) error {
	phases, generated, err := s.daemon.Timelines().Get(s.ctx, req.EventID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(phases)
	if err != nil {
		return fmt.Errorf("encode phases: %w", err)
	}
	resp.EventID = req.EventID
	resp.Phases = data
	resp.Generated = generated
	return nil
}

func (s *service) TimelineSave(req TimelineSaveRequest, resp *TimelineSaveResponse) error {
	phases, problems := schedule.DecodePayload(req.Phases)
	if len(problems) > 0 {
		resp.Problems = problems
		return nil
	}
	created, err := s.daemon.Timelines().Save(s.ctx, req.EventID, phases)
	if err != nil {
		var verr *timeline.ValidationError
		if errors.As(err, &verr) {
			resp.Problems = verr.Problems
			return nil
		}
		return err
	}
	resp.Created = created
	return nil
}

func (s *service) TimelineGenerate(req TimelineGenerateRequest, resp *TimelineGenerateResponse) error {
	var override *catalog.Briefing
	if len(req.Briefing) > 0 {
		override = new(catalog.Briefing)
		if err := json.Unmarshal(req.Briefing, override); err != nil {
			return fmt.Errorf("decode briefing: %w", err)
		}
	}
	phases, err := s.daemon.Timelines().GenerateAndPersist(s.ctx, req.EventID, override)
	if err != nil {
		return err
	}
	data, err := json.Marshal(phases)
	if err != nil {
		return fmt.Errorf("encode phases: %w", err)
	}
	resp.Phases = data
	return nil
}

func (s *service) ProjectCreate(req ProjectCreateRequest, resp *ProjectCreateResponse) error {
	project, err := s.daemon.Projects().Create(s.ctx, req.Name, req.Client, req.EventID)
	if err != nil {
		return err
	}
	resp.Project = api.FromProject(project)
	return nil
}

func (s *service) ProjectList(req ProjectListRequest, resp *ProjectListResponse) error {
	statuses := make([]projects.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := projects.ParseStatus(status)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	items, err := s.reads.List(s.ctx, statuses...)
	if err != nil {
		return err
	}
	resp.Projects = items
	return nil
}

func (s *service) ProjectDescribe(req ProjectDescribeRequest, resp *ProjectDescribeResponse) error {
	project, err := s.reads.Describe(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %s not found", req.ID)
	}
	resp.Project = *project
	return nil
}

func (s *service) ProjectSetStatus(req ProjectSetStatusRequest, resp *ProjectSetStatusResponse) error {
	status, ok := projects.ParseStatus(req.Status)
	if !ok {
		return fmt.Errorf("unknown project status %q", req.Status)
	}
	project, err := s.daemon.Projects().SetStatus(s.ctx, req.ID, status)
	if err != nil {
		return err
	}
	resp.Project = api.FromProject(project)
	return nil
}

func (s *service) ProjectDelete(req ProjectDeleteRequest, resp *ProjectDeleteResponse) error {
	if err := s.daemon.Projects().Delete(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Deleted = true
	return nil
}

func (s *service) ProjectStats(_ ProjectStatsRequest, resp *ProjectStatsResponse) error {
	stats, err := s.reads.Stats(s.ctx)
	if err != nil {
		return err
	}
	resp.Stats = stats
	return nil
}

func (s *service) DeliverableAdd(req DeliverableAddRequest, resp *DeliverableAddResponse) error {
	_, created, err := s.daemon.Projects().AddDeliverable(s.ctx, req.ProjectID, req.Title)
	if err != nil {
		return err
	}
	resp.Deliverable = api.FromDeliverable(*created)
	return nil
}

func (s *service) VersionUpload(req VersionUploadRequest, resp *VersionUploadResponse) error {
	_, version, err := s.daemon.Projects().UploadVersion(s.ctx, req.ProjectID, req.DeliverableID,
		deliverable.Upload{Name: req.Name, URL: req.URL})
	if err != nil {
		return err
	}
	resp.Version = api.FromVersion(*version)
	return nil
}

func (s *service) VersionSetActive(req VersionActionRequest, resp *VersionActionResponse) error {
	project, err := s.daemon.Projects().SetActiveVersion(s.ctx, req.ProjectID, req.DeliverableID, req.VersionID)
	if err != nil {
		return err
	}
	return fillDeliverable(project, req.DeliverableID, &resp.Deliverable)
}

func (s *service) VersionApprove(req VersionActionRequest, resp *VersionActionResponse) error {
	ctx := s.userContext(req.User)
	project, err := s.daemon.Projects().ApproveVersion(ctx, req.ProjectID, req.DeliverableID, req.VersionID)
	if err != nil {
		return err
	}
	return fillDeliverable(project, req.DeliverableID, &resp.Deliverable)
}

func (s *service) DeliverableMarkReady(req DeliverableActionRequest, resp *DeliverableActionResponse) error {
	project, err := s.daemon.Projects().MarkReady(s.ctx, req.ProjectID, req.DeliverableID)
	if err != nil {
		return err
	}
	return fillDeliverable(project, req.DeliverableID, &resp.Deliverable)
}

func (s *service) DeliverableMarkApproved(req DeliverableActionRequest, resp *DeliverableActionResponse) error {
	project, err := s.daemon.Projects().MarkApproved(s.ctx, req.ProjectID, req.DeliverableID)
	if err != nil {
		return err
	}
	return fillDeliverable(project, req.DeliverableID, &resp.Deliverable)
}

func (s *service) DeliverableRequestChanges(req DeliverableActionRequest, resp *DeliverableActionResponse) error {
	ctx := s.userContext(req.User)
	project, err := s.daemon.Projects().RequestChanges(ctx, req.ProjectID, req.DeliverableID, req.Comment)
	if err != nil {
		return err
	}
	return fillDeliverable(project, req.DeliverableID, &resp.Deliverable)
}

func (s *service) CommentAdd(req CommentAddRequest, resp *CommentAddResponse) error {
	ctx := s.userContext(req.User)
	_, comment, err := s.daemon.Projects().AddComment(ctx, req.ProjectID, req.DeliverableID, req.Content, req.Timestamp)
	if err != nil {
		return err
	}
	resp.Comment = api.FromComment(*comment)
	return nil
}

func (s *service) CommentReply(req CommentReplyRequest, resp *CommentReplyResponse) error {
	ctx := s.userContext(req.User)
	_, comment, err := s.daemon.Projects().ReplyComment(ctx, req.ProjectID, req.DeliverableID, req.ParentID, req.Content)
	if err != nil {
		return err
	}
	resp.Comment = api.FromComment(*comment)
	return nil
}

func (s *service) CommentResolve(req CommentResolveRequest, resp *CommentResolveResponse) error {
	_, err := s.daemon.Projects().ResolveComment(s.ctx, req.ProjectID, req.DeliverableID, req.CommentID, req.Resolved)
	if err != nil {
		return err
	}
	resp.Resolved = req.Resolved
	return nil
}

func (s *service) CommentList(req CommentListRequest, resp *CommentListResponse) error {
	filter := comments.Filter{Resolved: req.Resolved, SearchText: req.SearchText}
	list, err := s.daemon.Projects().ListComments(s.ctx, req.ProjectID, req.DeliverableID, filter)
	if err != nil {
		return err
	}
	resp.Comments = api.FromComments(list)
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	page, err := logs.Read(s.ctx, logPath, logs.Request{
		Cursor: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = page.Cursor
			return nil
		}
		return err
	}
	resp.Lines = page.Lines
	resp.Offset = page.Cursor
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func fillDeliverable(project *projects.Project, deliverableID string, out *Deliverable) error {
	idx, ok := project.FindDeliverable(deliverableID)
	if !ok {
		return fmt.Errorf("deliverable %s not found", deliverableID)
	}
	*out = api.FromDeliverable(project.Videos[idx])
	return nil
}
