package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeResolver struct {
	userID    int64
	sessionID string
	err       error
}

func (f fakeResolver) Resolve(ctx context.Context, token string) (int64, string, error) {
	if f.err != nil {
		return 0, "", f.err
	}
	return f.userID, f.sessionID, nil
}

func TestSessionAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		resolver   fakeResolver
		wantStatus int
	}{
		{
			name:       "valid session",
			authHeader: "Bearer some-token",
			resolver:   fakeResolver{userID: 42, sessionID: "sess-1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			resolver:   fakeResolver{userID: 42, sessionID: "sess-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			resolver:   fakeResolver{userID: 42, sessionID: "sess-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked session",
			authHeader: "Bearer some-token",
			resolver:   fakeResolver{err: errors.New("not authenticated")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var gotSessionID string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = UserIDFromContext(r.Context())
				gotSessionID, _ = SessionIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/home", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			SessionAuth(tt.resolver)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUserID != 42 {
					t.Errorf("user id in context = %d, want 42", gotUserID)
				}
				if gotSessionID != "sess-1" {
					t.Errorf("session id in context = %q, want %q", gotSessionID, "sess-1")
				}
			}
		})
	}
}
