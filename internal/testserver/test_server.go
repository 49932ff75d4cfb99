package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpggio/punchclock/internal/app"
	"github.com/rpggio/punchclock/internal/config"
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestServer runs the full HTTP stack over a temporary SQLite database.
type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Clock  *Clock
	Token  string
}

// New starts a server with auth enabled and one API key. The clock starts
// at start; day boundaries use UTC.
func New(t *testing.T, token string, start time.Time) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "punchclock.db")
	cfg.Attendance.Timezone = "UTC"
	cfg.Auth.Enabled = true

	clk := &Clock{now: start}
	a, err := app.Open(context.Background(), cfg, nil, app.WithClock(clk.Now), app.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	require.NoError(t, a.Keys.Add(context.Background(), token, "test"))

	server := httptest.NewServer(a.Handler())

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{
		Server: server,
		App:    a,
		Clock:  clk,
		Token:  token,
	}
}

// Do sends an authenticated JSON request and decodes the response into out
// when out is non-nil. It returns the status code.
func (ts *TestServer) Do(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

// MCPSession connects an MCP client to /mcp over streamable HTTP using token.
func (ts *TestServer) MCPSession(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
