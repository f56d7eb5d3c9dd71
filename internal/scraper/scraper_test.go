package scraper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantText    string
	}{
		{
			name: "successful fetch",
			htmlContent: `
				<html>
					<body>
						<p>Total Positive Cases: 12,345</p>
					</body>
				</html>
			`,
			statusCode: http.StatusOK,
			wantText:   "Total Positive Cases: 12,345",
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusNotFound,
			wantError:  true,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if userAgent := r.Header.Get("User-Agent"); !strings.Contains(userAgent, "data-covid19-sfbayarea") {
					t.Errorf("User-Agent = %q, should contain 'data-covid19-sfbayarea'", userAgent)
				}
				if r.Method != http.MethodGet {
					t.Errorf("Method = %s, want GET", r.Method)
				}

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(0, "")
			doc, err := s.Fetch(context.Background(), server.URL)

			if tt.wantError {
				if !errors.Is(err, ErrFetch) {
					t.Errorf("Fetch() error = %v, want ErrFetch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() unexpected error: %v", err)
			}
			if got := strings.TrimSpace(doc.Find("p").Text()); got != tt.wantText {
				t.Errorf("Fetch() text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestFetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(time.Second, "").Fetch(context.Background(), url)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, want ErrFetch", err)
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(0, "").Fetch(ctx, server.URL); !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, want ErrFetch", err)
	}
}

func TestFetch_CustomUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	if _, err := New(0, "county-bot/2.0").Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if got != "county-bot/2.0" {
		t.Errorf("User-Agent = %q, want county-bot/2.0", got)
	}
}

func TestNew(t *testing.T) {
	s := New(0, "")

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.client == nil {
		t.Fatal("scraper client is nil")
	}
	if s.client.Timeout != Timeout {
		t.Errorf("client timeout = %v, want %v", s.client.Timeout, Timeout)
	}
	if s.userAgent != UserAgent {
		t.Errorf("userAgent = %q, want %q", s.userAgent, UserAgent)
	}
}

func TestParseDocument_Charset(t *testing.T) {
	// "Población" encoded as ISO-8859-1
	body := []byte("<html><body><p>Poblaci\xf3n: 5</p></body></html>")

	doc, err := parseDocument(bytes.NewReader(body), "text/html; charset=ISO-8859-1")
	if err != nil {
		t.Fatalf("parseDocument() error: %v", err)
	}

	if got := doc.Find("p").Text(); got != "Población: 5" {
		t.Errorf("text = %q, want %q", got, "Población: 5")
	}
}
