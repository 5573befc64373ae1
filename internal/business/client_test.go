package business

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/campushq/analytics/internal/auth"
)

type fakeBusinessServer struct {
	lastUserID string
}

func (f *fakeBusinessServer) getCourses(ctx context.Context, params *CourseParams) (*CoursesResponse, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(auth.HeaderUserID); len(ids) > 0 {
			f.lastUserID = ids[0]
		}
	}
	return &CoursesResponse{
		Success: true,
		Courses: []Course{{ID: 1, Name: "Algorithms", CollegeID: params.CollegeID}},
		Total:   1,
	}, nil
}

func (f *fakeBusinessServer) getStats(ctx context.Context, req map[string]string) (*StatsResponse, error) {
	return &StatsResponse{
		Success: true,
		Type:    req["type"],
		Period:  req["period"],
		Values:  map[string]float64{"total": 42},
	}, nil
}

var fakeServiceDesc = grpc.ServiceDesc{
	ServiceName: "campus.BusinessService",
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCourses",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				var params CourseParams
				if err := dec(&params); err != nil {
					return nil, err
				}
				return srv.(*fakeBusinessServer).getCourses(ctx, &params)
			},
		},
		{
			MethodName: "GetStats",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				req := map[string]string{}
				if err := dec(&req); err != nil {
					return nil, err
				}
				return srv.(*fakeBusinessServer).getStats(ctx, req)
			},
		},
	},
}

func startFakeServer(t *testing.T) (*fakeBusinessServer, string) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	impl := &fakeBusinessServer{}
	srv := grpc.NewServer()
	srv.RegisterService(&fakeServiceDesc, impl)

	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	return impl, lis.Addr().String()
}

func TestGetCourses(t *testing.T) {
	impl, addr := startFakeServer(t)

	client, err := NewClient(addr, 5*time.Second)
	require.NoError(t, err)
	defer client.Close()

	user := &auth.UserContext{ID: "user-1", Role: "student", Name: "Sam", Email: "sam@example.com"}
	res, err := client.GetCourses(context.Background(), user, CourseParams{CollegeID: 7})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.EqualValues(t, 1, res.Total)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, "Algorithms", res.Courses[0].Name)
	assert.EqualValues(t, 7, res.Courses[0].CollegeID)
	assert.Equal(t, "user-1", impl.lastUserID)
}

func TestGetStats(t *testing.T) {
	_, addr := startFakeServer(t)

	client, err := NewClient(addr, 5*time.Second)
	require.NoError(t, err)
	defer client.Close()

	user := &auth.UserContext{ID: "user-1", Role: "admin"}
	res, err := client.GetStats(context.Background(), user, "events", "weekly")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "events", res.Type)
	assert.Equal(t, "weekly", res.Period)
	assert.Equal(t, 42.0, res.Values["total"])
}
