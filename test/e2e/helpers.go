//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/supporthub/internal/api/handlers"
	"github.com/cloo-solutions/supporthub/internal/backend"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
	"github.com/cloo-solutions/supporthub/internal/repository"
	"github.com/cloo-solutions/supporthub/internal/server"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/cloo-solutions/supporthub/internal/storage"
	"github.com/cloo-solutions/supporthub/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

// failingMessage makes the stub assistant backend answer HTTP 500.
const failingMessage = "trigger backend failure"

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	Backend      *httptest.Server
	S3Client     *storage.S3Client
	BinaryDir    string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          "test-uploads",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}

	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	assistantBackend := newStubBackend()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, s3Client, assistantBackend.URL, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RustFSC:      s3C,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		Backend:      assistantBackend,
		S3Client:     s3Client,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Backend != nil {
		e.Backend.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the supporthub and supporthubd binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "supporthub-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	for _, name := range []string{"supporthubd", "supporthub"} {
		cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, name), "./cmd/"+name)
		cmd.Dir = "../.."
		if out, err := cmd.CombinedOutput(); err != nil {
			e.T.Fatalf("failed to build %s: %v\n%s", name, err, out)
		}
	}
}

// RunSupportHub runs the supporthub CLI against the test server
func (e *E2ETestEnv) RunSupportHub(args ...string) (string, error) {
	return e.RunSupportHubWithInput("", args...)
}

// RunSupportHubWithInput runs the supporthub CLI with stdin input
func (e *E2ETestEnv) RunSupportHubWithInput(input string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "supporthub"), args...)
	cmd.Dir = e.T.TempDir()
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("SUPPORTHUB_API_URL=%s", e.ServerURL),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", cmd.Dir),
		fmt.Sprintf("HOME=%s", cmd.Dir),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// APIResponse represents a standard enveloped API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request against an enveloped endpoint
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest(http.MethodGet, path, nil)
}

// Post performs a POST request against an enveloped endpoint
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest(http.MethodPost, path, body)
}

// Put performs a PUT request against an enveloped endpoint
func (e *E2ETestEnv) Put(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest(http.MethodPut, path, body)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, error) {
	status, respBody, err := e.PostRaw(method, path, body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if status >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", status, string(respBody))
		}
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", status, apiResp.Error)
	}

	return &apiResp, nil
}

// PostRaw sends a JSON request and returns the raw status and body, for the
// endpoints that answer without the data envelope.
func (e *E2ETestEnv) PostRaw(method, path string, body interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// Upload posts content as a multipart file to /upload-document
func (e *E2ETestEnv) Upload(filename string, content []byte) (int, []byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return 0, nil, err
	}
	if _, err := part.Write(content); err != nil {
		return 0, nil, err
	}
	if err := mw.Close(); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.ServerURL+"/upload-document", &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

// newStubBackend answers the assistant chat contract, failing for failingMessage.
func newStubBackend() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserMessage string `json:"user_message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.UserMessage == failingMessage {
			http.Error(w, "model overloaded", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": "Thanks for asking about: " + req.UserMessage,
		})
	}))
}

// startServer starts the HTTP server with all handlers over Postgres and S3
func startServer(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client, backendURL string, port int) (string, func()) {
	ctx := context.Background()

	docRepo := repository.NewDocumentRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	chatLogRepo := repository.NewChatLogRepository(pool)

	index := knowledge.NewIndex(docRepo, nil)
	retriever := knowledge.NewRetriever(index)
	docSvc := service.NewDocumentServiceWithTx(docRepo, index, retriever, repository.NewTxRunner(pool))

	if _, err := docSvc.SeedIfEmpty(ctx, knowledge.SeedDocuments()); err != nil {
		t.Fatalf("failed to seed knowledge base: %v", err)
	}
	if err := index.Refresh(ctx); err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}

	chatSvc := service.NewChatService(service.ChatServiceConfig{
		Searcher:  retriever,
		Assistant: backend.NewAssistant(backendURL, 10*time.Second),
		Logs:      chatLogRepo,
		Timeout:   10 * time.Second,
	})
	ticketSvc := service.NewTicketService(ticketRepo, nil, nil)
	analyticsSvc := service.NewAnalyticsService(chatLogRepo, ticketRepo)
	uploadSvc := service.NewUploadService(s3Client, docSvc, 10<<20)

	router := server.NewRouter(server.RouterConfig{
		ChatHandler:      handlers.NewChatHandler(chatSvc),
		TicketHandler:    handlers.NewTicketHandler(ticketSvc),
		DocumentHandler:  handlers.NewDocumentHandler(docSvc),
		SearchHandler:    handlers.NewSearchHandler(retriever),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsSvc),
		UploadHandler:    handlers.NewUploadHandler(uploadSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
