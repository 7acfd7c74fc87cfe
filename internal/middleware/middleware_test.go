package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitpool/internal/auth"
	"github.com/mmynk/splitpool/internal/metrics"
	"github.com/mmynk/splitpool/pkg/api"
)

type empty struct{}

func echoSubject(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
	resp := connect.NewResponse(&empty{})
	resp.Header().Set("X-Subject", GetSubject(ctx))
	return resp, nil
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	token, err := manager.Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	handler := RequireAuth(manager)(echoSubject)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
		{name: "valid token", header: "Bearer " + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&empty{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			resp, err := handler(context.Background(), req)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("code = %v, want %v (err %v)", connect.CodeOf(err), tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := resp.Header().Get("X-Subject"); got != "alice" {
				t.Errorf("subject = %q, want alice", got)
			}
		})
	}
}

func TestRequireAuthGroupScope(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	token, err := manager.Generate("bob", "group-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	handler := RequireAuth(manager)(echoSubject)

	tests := []struct {
		name     string
		req      connect.AnyRequest
		wantCode connect.Code
	}{
		{name: "group in scope", req: connect.NewRequest(&api.GetGroupRequest{GroupID: "group-1"})},
		{name: "other group", req: connect.NewRequest(&api.AddPurchaseRequest{GroupID: "group-2"}), wantCode: connect.CodePermissionDenied},
		{name: "no group", req: connect.NewRequest(&api.ListGroupsRequest{}), wantCode: connect.CodePermissionDenied},
		{name: "create group", req: connect.NewRequest(&api.CreateGroupRequest{Name: "x"}), wantCode: connect.CodePermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Header().Set("Authorization", "Bearer "+token)

			_, err := handler(context.Background(), tt.req)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := connect.CodeOf(err); got != tt.wantCode {
				t.Fatalf("code = %v, want %v (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestGroupOf(t *testing.T) {
	if got := groupOf(connect.NewRequest(&api.SettleUpRequest{GroupID: "g"})); got != "g" {
		t.Errorf("groupOf = %q, want g", got)
	}
	if got := groupOf(connect.NewRequest(&api.ListGroupsRequest{})); got != "" {
		t.Errorf("groupOf = %q, want empty", got)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()

	ok := MetricsInterceptor(m)(echoSubject)
	failing := MetricsInterceptor(m)(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	for i := 0; i < 2; i++ {
		if _, err := ok(context.Background(), connect.NewRequest(&empty{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := failing(context.Background(), connect.NewRequest(&empty{})); err == nil {
		t.Fatal("expected error")
	}

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "not_found")); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	wantErr := connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	handler := LoggingInterceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, wantErr
	})

	_, err := handler(context.Background(), connect.NewRequest(&empty{}))
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	if called {
		t.Error("preflight should not reach the next handler")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if !called {
		t.Error("POST should reach the next handler")
	}
}
