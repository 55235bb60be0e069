package ipc

import (
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

const dialTimeout = 2 * time.Second

// Client talks to a running daemon over its Unix socket.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the daemon socket at path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon socket %s: %w", path, err)
	}
	return &Client{rpc: jsonrpc.NewClient(conn)}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func call[Req any, Resp any](c *Client, method string, req Req) (Resp, error) {
	var resp Resp
	if err := c.rpc.Call(method, req, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *Client) Start() (StartResponse, error) {
	return call[StartRequest, StartResponse](c, "Reelflow.Start", StartRequest{})
}

func (c *Client) Stop() (StopResponse, error) {
	return call[StopRequest, StopResponse](c, "Reelflow.Stop", StopRequest{})
}

func (c *Client) Status() (StatusResponse, error) {
	return call[StatusRequest, StatusResponse](c, "Reelflow.Status", StatusRequest{})
}

func (c *Client) TimelineGet(req TimelineGetRequest) (TimelineGetResponse, error) {
	return call[TimelineGetRequest, TimelineGetResponse](c, "Reelflow.TimelineGet", req)
}

func (c *Client) TimelineSave(req TimelineSaveRequest) (TimelineSaveResponse, error) {
	return call[TimelineSaveRequest, TimelineSaveResponse](c, "Reelflow.TimelineSave", req)
}

func (c *Client) TimelineGenerate(req TimelineGenerateRequest) (TimelineGenerateResponse, error) {
	return call[TimelineGenerateRequest, TimelineGenerateResponse](c, "Reelflow.TimelineGenerate", req)
}

func (c *Client) ProjectCreate(req ProjectCreateRequest) (ProjectCreateResponse, error) {
	return call[ProjectCreateRequest, ProjectCreateResponse](c, "Reelflow.ProjectCreate", req)
}

func (c *Client) ProjectList(req ProjectListRequest) (ProjectListResponse, error) {
	return call[ProjectListRequest, ProjectListResponse](c, "Reelflow.ProjectList", req)
}

func (c *Client) ProjectDescribe(req ProjectDescribeRequest) (ProjectDescribeResponse, error) {
	return call[ProjectDescribeRequest, ProjectDescribeResponse](c, "Reelflow.ProjectDescribe", req)
}

func (c *Client) ProjectSetStatus(req ProjectSetStatusRequest) (ProjectSetStatusResponse, error) {
	return call[ProjectSetStatusRequest, ProjectSetStatusResponse](c, "Reelflow.ProjectSetStatus", req)
}

func (c *Client) ProjectDelete(req ProjectDeleteRequest) (ProjectDeleteResponse, error) {
	return call[ProjectDeleteRequest, ProjectDeleteResponse](c, "Reelflow.ProjectDelete", req)
}

func (c *Client) ProjectStats() (ProjectStatsResponse, error) {
	return call[ProjectStatsRequest, ProjectStatsResponse](c, "Reelflow.ProjectStats", ProjectStatsRequest{})
}

func (c *Client) DeliverableAdd(req DeliverableAddRequest) (DeliverableAddResponse, error) {
	return call[DeliverableAddRequest, DeliverableAddResponse](c, "Reelflow.DeliverableAdd", req)
}

func (c *Client) VersionUpload(req VersionUploadRequest) (VersionUploadResponse, error) {
	return call[VersionUploadRequest, VersionUploadResponse](c, "Reelflow.VersionUpload", req)
}

func (c *Client) VersionSetActive(req VersionActionRequest) (VersionActionResponse, error) {
	return call[VersionActionRequest, VersionActionResponse](c, "Reelflow.VersionSetActive", req)
}

func (c *Client) VersionApprove(req VersionActionRequest) (VersionActionResponse, error) {
	return call[VersionActionRequest, VersionActionResponse](c, "Reelflow.VersionApprove", req)
}

func (c *Client) DeliverableMarkReady(req DeliverableActionRequest) (DeliverableActionResponse, error) {
	return call[DeliverableActionRequest, DeliverableActionResponse](c, "Reelflow.DeliverableMarkReady", req)
}

func (c *Client) DeliverableMarkApproved(req DeliverableActionRequest) (DeliverableActionResponse, error) {
	return call[DeliverableActionRequest, DeliverableActionResponse](c, "Reelflow.DeliverableMarkApproved", req)
}

func (c *Client) DeliverableRequestChanges(req DeliverableActionRequest) (DeliverableActionResponse, error) {
	return call[DeliverableActionRequest, DeliverableActionResponse](c, "Reelflow.DeliverableRequestChanges", req)
}

func (c *Client) CommentAdd(req CommentAddRequest) (CommentAddResponse, error) {
	return call[CommentAddRequest, CommentAddResponse](c, "Reelflow.CommentAdd", req)
}

func (c *Client) CommentReply(req CommentReplyRequest) (CommentReplyResponse, error) {
	return call[CommentReplyRequest, CommentReplyResponse](c, "Reelflow.CommentReply", req)
}

func (c *Client) CommentResolve(req CommentResolveRequest) (CommentResolveResponse, error) {
	return call[CommentResolveRequest, CommentResolveResponse](c, "Reelflow.CommentResolve", req)
}

func (c *Client) CommentList(req CommentListRequest) (CommentListResponse, error) {
	return call[CommentListRequest, CommentListResponse](c, "Reelflow.CommentList", req)
}

func (c *Client) LogTail(req LogTailRequest) (LogTailResponse, error) {
	return call[LogTailRequest, LogTailResponse](c, "Reelflow.LogTail", req)
}

func (c *Client) TestNotification() (TestNotificationResponse, error) {
	return call[TestNotificationRequest, TestNotificationResponse](c, "Reelflow.TestNotification", TestNotificationRequest{})
}
