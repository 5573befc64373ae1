// Package business is the client for the business-domain service (courses,
// statistics). It is a collaborator outside this service's data model; the
// caller's gateway identity is propagated as call metadata.
package business

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"

	"github.com/campushq/analytics/internal/auth"
)

const codecName = "json"

// jsonCodec lets the client call the business service without generated
// protobuf stubs; both sides agree on JSON frames over gRPC.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Course struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CollegeID    int64  `json:"college_id"`
	MajorID      int64  `json:"major_id"`
	CourseType   string `json:"course_type"`
	SemesterType string `json:"semester_type"`
}

type CourseParams struct {
	CollegeID    int64  `json:"college_id,omitempty"`
	MajorID      int64  `json:"major_id,omitempty"`
	CourseType   string `json:"course_type,omitempty"`
	SemesterType string `json:"semester_type,omitempty"`
	Page         int    `json:"page,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Search       string `json:"search,omitempty"`
}

type CoursesResponse struct {
	Success bool     `json:"success"`
	Courses []Course `json:"courses"`
	Total   int64    `json:"total"`
}

type StatsResponse struct {
	Success bool               `json:"success"`
	Type    string             `json:"type"`
	Period  string             `json:"period"`
	Values  map[string]float64 `json:"values"`
}

type Client interface {
	GetCourses(ctx context.Context, user *auth.UserContext, params CourseParams) (*CoursesResponse, error)
	GetStats(ctx context.Context, user *auth.UserContext, statsType, period string) (*StatsResponse, error)
	Close() error
}

type grpcClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

func NewClient(addr string, timeout time.Duration) (Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)))
	if err != nil {
		return nil, err
	}
	return &grpcClient{conn: conn, timeout: timeout}, nil
}

func (c *grpcClient) GetCourses(ctx context.Context, user *auth.UserContext, params CourseParams) (*CoursesResponse, error) {
	ctx, cancel := c.callContext(ctx, user)
	defer cancel()

	var resp CoursesResponse
	if err := c.conn.Invoke(ctx, "/campus.BusinessService/GetCourses", &params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *grpcClient) GetStats(ctx context.Context, user *auth.UserContext, statsType, period string) (*StatsResponse, error) {
	ctx, cancel := c.callContext(ctx, user)
	defer cancel()

	req := map[string]string{"type": statsType, "period": period}
	var resp StatsResponse
	if err := c.conn.Invoke(ctx, "/campus.BusinessService/GetStats", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *grpcClient) callContext(ctx context.Context, user *auth.UserContext) (context.Context, context.CancelFunc) {
	if user.IsAuthenticated() {
		ctx = metadata.AppendToOutgoingContext(ctx,
			auth.HeaderUserID, user.ID,
			auth.HeaderUserRole, user.Role,
			auth.HeaderUserName, user.Name,
			auth.HeaderUserEmail, user.Email,
		)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *grpcClient) Close() error {
	return c.conn.Close()
}
