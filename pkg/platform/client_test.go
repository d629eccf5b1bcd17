package platform

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/enums"
	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/logger"
)

func testClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := NewClient(config.PlatformConfig{BaseURL: baseURL}, TokenFunc(func() string { return token }), logg, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"email":"a@b.c","is_active":true}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok-123")
	if _, err := client.CurrentUser(context.Background()); err != nil {
		t.Fatalf("current user: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "")
	if _, err := client.ListProjects(context.Background(), nil); err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if sawHeader {
		t.Fatalf("Authorization header must be omitted without a token")
	}
}

func TestAuthorizationWinsOverCallerHeaders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "real-token")
	headers := http.Header{}
	headers.Set("Authorization", "Bearer spoofed")
	err := client.do(context.Background(), requestSpec{
		method:   http.MethodGet,
		endpoint: "/auth/me",
		resource: "auth",
		headers:  headers,
	}, nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer real-token" {
		t.Fatalf("session token must win over caller headers, got %q", gotAuth)
	}
}

func TestErrorMessageExtractedFromDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"voice is not supported"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok")
	_, err := client.GetProject(context.Background(), "p1")
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr := AsAPIError(err)
	if apiErr == nil {
		t.Fatalf("expected APIError in chain, got %v", err)
	}
	if apiErr.Message != "voice is not supported" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", apiErr.Status)
	}
}

func TestErrorMessageFallsBackToStatusLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok")
	_, err := client.GetProject(context.Background(), "p1")
	apiErr := AsAPIError(err)
	if apiErr == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "HTTP 502: Bad Gateway" {
		t.Fatalf("unexpected fallback message %q", apiErr.Message)
	}
	if apiErr.StatusText != "Bad Gateway" {
		t.Fatalf("unexpected status text %q", apiErr.StatusText)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status    int
		code      pkgerrors.Code
		retryable bool
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized, false},
		{http.StatusNotFound, pkgerrors.CodeNotFound, false},
		{http.StatusInternalServerError, pkgerrors.CodeDependency, true},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		client := testClient(t, server.URL, "tok")
		_, err := client.GetProject(context.Background(), "p1")
		server.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != tt.code {
			t.Fatalf("status %d: expected code %s, got %v", tt.status, tt.code, err)
		}
		if pkgerrors.Retryable(err) != tt.retryable {
			t.Fatalf("status %d: expected retryable=%v", tt.status, tt.retryable)
		}
	}
}

func TestEmptySuccessBodyDecodesToZeroValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok")
	if err := client.DeleteProject(context.Background(), "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestInvalidSuccessBodyIsBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": truncated`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok")
	_, err := client.GetProject(context.Background(), "p1")
	if err == nil {
		t.Fatalf("expected decode error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBadResponse {
		t.Fatalf("expected bad response code, got %v", err)
	}
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.Message != "invalid JSON response" {
		t.Fatalf("expected invalid JSON message, got %v", err)
	}
}

func TestFiltersEncodeRoundTrip(t *testing.T) {
	filters := Filters{
		"status":    enums.ProjectStatusReady,
		"archived":  false,
		"page":      2,
		"voice":     "narrator",
		"max_words": nil,
	}
	encoded := filters.Encode()
	parsed, err := url.ParseQuery(encoded)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if len(parsed) != 4 {
		t.Fatalf("nil entries must be dropped, got %v", parsed)
	}
	if parsed.Get("status") != "ready" || parsed.Get("archived") != "false" || parsed.Get("page") != "2" {
		t.Fatalf("unexpected serialization %v", parsed)
	}

	// Insertion order never affects the output.
	same := Filters{
		"voice":    "narrator",
		"page":     2,
		"archived": false,
		"status":   enums.ProjectStatusReady,
	}
	if same.Encode() != encoded {
		t.Fatalf("expected deterministic encoding, got %q vs %q", same.Encode(), encoded)
	}
}

func TestListEndpointWithoutFilters(t *testing.T) {
	if got := listEndpoint("/video-projects", nil); got != "/video-projects" {
		t.Fatalf("unexpected endpoint %q", got)
	}
	if got := listEndpoint("/video-projects", Filters{"only": nil}); got != "/video-projects" {
		t.Fatalf("all-nil filters should add no query, got %q", got)
	}
}

func TestDownloadURLUsesServerOrigin(t *testing.T) {
	client := testClient(t, "http://localhost:8000/api/v1", "")
	got := client.DownloadURL("p42", enums.FileTypeFinalVideo)
	want := "http://localhost:8000/api/videos/p42/download/final_video"
	if got != want {
		t.Fatalf("download url: got %q want %q", got, want)
	}
}

func TestVerifyToken(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok")
	ok, err := client.VerifyToken(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected valid token, got ok=%v err=%v", ok, err)
	}

	status = http.StatusUnauthorized
	ok, err = client.VerifyToken(context.Background())
	if err != nil {
		t.Fatalf("rejected token is not a transport error: %v", err)
	}
	if ok {
		t.Fatalf("expected invalid token")
	}
}

func TestQueryStringReachesServer(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, "tok")
	_, err := client.ListProjects(context.Background(), Filters{"status": "ready", "page": 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery.Get("status") != "ready" || gotQuery.Get("page") != "3" {
		t.Fatalf("query not forwarded: %v", gotQuery)
	}
}

func TestNewClientRequiresLogger(t *testing.T) {
	if _, err := NewClient(config.PlatformConfig{BaseURL: "http://localhost"}, nil, nil, nil); err == nil {
		t.Fatalf("expected error without logger")
	}
}

func TestStatusTextParsing(t *testing.T) {
	if got := statusText("404 Not Found"); got != "Not Found" {
		t.Fatalf("unexpected %q", got)
	}
	if got := statusText("weird"); got != "weird" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestRedactSensitiveLogFields(t *testing.T) {
	if redact("access_token", "secret-value") != "[REDACTED]" {
		t.Fatalf("token fields must be redacted")
	}
	if redact("voice", "narrator") != "narrator" {
		t.Fatalf("plain fields must pass through")
	}
}
