package lambdaproxy

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

// echoHandler reflects the parts of the request the adapter rebuilds.
func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Path", r.URL.Path)
		w.Header().Set("X-Query", r.URL.Query().Get("q"))
		w.Header().Set("X-Content-Type", r.Header.Get("Content-Type"))
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Accept")
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	})
}

func TestAdapterRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event events.APIGatewayProxyRequest
		body  string
	}{
		{
			name: "Plain body",
			event: events.APIGatewayProxyRequest{
				HTTPMethod:            http.MethodPost,
				Path:                  "/api/analyze",
				Headers:               map[string]string{"Content-Type": "application/json"},
				QueryStringParameters: map[string]string{"q": "1"},
				Body:                  `{"youtubeUrl":"https://youtu.be/abc"}`,
			},
			body: `{"youtubeUrl":"https://youtu.be/abc"}`,
		},
		{
			name: "Base64 body and multi-value params",
			event: events.APIGatewayProxyRequest{
				HTTPMethod:                      http.MethodPost,
				Path:                            "/api/analyze",
				MultiValueHeaders:               map[string][]string{"Content-Type": {"application/json"}},
				MultiValueQueryStringParameters: map[string][]string{"q": {"1", "2"}},
				Body:                            base64.StdEncoding.EncodeToString([]byte(`{"prompt":"hi"}`)),
				IsBase64Encoded:                 true,
			},
			body: `{"prompt":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Adapter(echoHandler(t))(context.Background(), tt.event)
			if err != nil {
				t.Fatalf("Adapter() error = %v", err)
			}

			if resp.StatusCode != http.StatusCreated {
				t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
			}
			if resp.Body != tt.body {
				t.Errorf("Body = %q, want %q", resp.Body, tt.body)
			}
			if resp.Headers["X-Method"] != http.MethodPost {
				t.Errorf("method = %q", resp.Headers["X-Method"])
			}
			if resp.Headers["X-Path"] != "/api/analyze" {
				t.Errorf("path = %q", resp.Headers["X-Path"])
			}
			if resp.Headers["X-Query"] != "1" {
				t.Errorf("query q = %q, want 1", resp.Headers["X-Query"])
			}
			if resp.Headers["X-Content-Type"] != "application/json" {
				t.Errorf("content type = %q", resp.Headers["X-Content-Type"])
			}
			if resp.Headers["Vary"] != "Origin, Accept" {
				t.Errorf("Vary = %q, want joined values", resp.Headers["Vary"])
			}
			if got := resp.MultiValueHeaders["Vary"]; len(got) != 2 {
				t.Errorf("multi-value Vary = %v", got)
			}
		})
	}
}

func TestAdapterDefaultsStatus(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	resp, err := Adapter(h)(context.Background(), events.APIGatewayProxyRequest{Path: "/"})
	if err != nil {
		t.Fatalf("Adapter() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "ok" {
		t.Errorf("response = %d %q, want 200 ok", resp.StatusCode, resp.Body)
	}
}

func TestAdapterEmptyResponse(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want default GET", r.Method)
		}
	})

	resp, err := Adapter(h)(context.Background(), events.APIGatewayProxyRequest{})
	if err != nil {
		t.Fatalf("Adapter() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "" {
		t.Errorf("response = %d %q, want 200 with empty body", resp.StatusCode, resp.Body)
	}
}

func TestAdapterBadBase64(t *testing.T) {
	_, err := Adapter(http.NotFoundHandler())(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/api/analyze",
		Body:            "%%%not-base64",
		IsBase64Encoded: true,
	})
	if err == nil {
		t.Error("expected error for invalid base64 body")
	}
}
