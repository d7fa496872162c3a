package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIURL = "SUPPORTHUB_API_URL"

	defaultAPIURL = "http://localhost:8080"
)

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClientWithCmd creates an APIClient with config cascade: flag → env → global config → default
// If cmd is nil, skips flag checking and goes directly to env → global config
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	var baseURL string

	if cmd != nil {
		if flagURL, err := cmd.Flags().GetString("api-url"); err == nil && flagURL != "" {
			baseURL = flagURL
		}
	}

	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}

	if baseURL == "" {
		globalConfig, err := LoadGlobalConfig()
		if err != nil {
			return nil, err
		}
		if globalConfig != nil && globalConfig.APIURL != "" {
			baseURL = globalConfig.APIURL
		}
	}

	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	return NewAPIClientWithConfig(baseURL)
}

func NewAPIClient() (*APIClient, error) {
	_ = godotenv.Load()
	return NewAPIClientWithCmd(nil)
}

// NewAPIClientWithConfig creates an APIClient for an explicit base URL.
func NewAPIClientWithConfig(baseURL string) (*APIClient, error) {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// BaseURL returns the API base URL the client talks to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// APIResponse represents the standard API response format.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// APIError represents an error from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Get performs a GET request against an enveloped endpoint.
func (c *APIClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body against an enveloped endpoint.
func (c *APIClient) Post(ctx context.Context, path string, body interface{}) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body against an enveloped endpoint.
func (c *APIClient) Put(ctx context.Context, path string, body interface{}) (*APIResponse, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}) (*APIResponse, error) {
	status, respBody, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if status >= 400 {
			return nil, &APIError{
				StatusCode: status,
				Message:    string(respBody),
			}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if status >= 400 {
		return nil, &APIError{
			StatusCode: status,
			Message:    apiResp.Error,
		}
	}

	return &apiResp, nil
}

// send performs the request and returns the raw status and body.
func (c *APIClient) send(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// errorBody is the failure shape of the bare endpoints.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// bareError turns a non-2xx bare response into an APIError.
func bareError(status int, body []byte) error {
	var eb errorBody
	msg := string(bytes.TrimSpace(body))
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Error != "":
			msg = eb.Error
		case eb.Message != "":
			msg = eb.Message
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserMessage string `json:"user_message"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response      string `json:"response"`
	TicketCreated bool   `json:"ticket_created"`
	TicketID      string `json:"ticket_id,omitempty"`
	TicketOffered bool   `json:"ticket_offered"`
	Timestamp     string `json:"timestamp"`
}

// Chat sends one user message and returns the assistant reply.
func (c *APIClient) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	status, body, err := c.send(ctx, http.MethodPost, "/chat", ChatRequest{UserMessage: message})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, bareError(status, body)
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &resp, nil
}

// TicketRequest is the body of POST /ticket.
type TicketRequest struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	UserEmail   string `json:"user_email,omitempty"`
	Priority    string `json:"priority"`
}

// TicketResponse is the reply of POST /ticket.
type TicketResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId,omitempty"`
	Message  string `json:"message"`
}

// SubmitTicket files a support ticket. A rejected submission is returned as an
// APIError carrying the server's message.
func (c *APIClient) SubmitTicket(ctx context.Context, req TicketRequest) (*TicketResponse, error) {
	status, body, err := c.send(ctx, http.MethodPost, "/ticket", req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, bareError(status, body)
	}

	var resp TicketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse ticket response: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: status, Message: resp.Message}
	}
	return &resp, nil
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health checks that the API is reachable.
func (c *APIClient) Health(ctx context.Context) (*HealthResponse, error) {
	status, body, err := c.send(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, bareError(status, body)
	}

	var resp HealthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &resp, nil
}

// UploadResponse is the reply of POST /upload-document.
type UploadResponse struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	DocumentID  *int64 `json:"document_id,omitempty"`
}

// UploadFile sends a local file to POST /upload-document as multipart form data.
func (c *APIClient) UploadFile(ctx context.Context, filePath string, onProgress ProgressFunc) (*UploadResponse, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return c.UploadReader(ctx, filepath.Base(filePath), file, stat.Size(), onProgress)
}

// UploadReader streams data from reader to POST /upload-document under the given filename.
func (c *APIClient) UploadReader(ctx context.Context, filename string, reader io.Reader, size int64, onProgress ProgressFunc) (*UploadResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := &progressReader{reader: reader, total: size, onProgress: onProgress}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-document", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, bareError(resp.StatusCode, body)
	}

	var out UploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}
	return &out, nil
}

// ProgressFunc is a callback for reporting upload progress.
type ProgressFunc func(current, total int64)

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	current    int64
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	if pr.onProgress != nil {
		pr.onProgress(pr.current, pr.total)
	}
	return n, err
}
