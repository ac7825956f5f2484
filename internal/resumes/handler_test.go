package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/extract/pdftest"
	"talent-backend/internal/parser"
	"talent-backend/internal/shared/retry"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("userName", "jane")
		c.Next()
	})
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func multipartPDF(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="resume.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestUploadRequiresFile(t *testing.T) {
	svc := newService(newFakeStore(), &fakeLLM{response: parsedJSON})
	router := newTestRouter(svc)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["success"] != false {
		t.Fatalf("expected success=false, got %v", payload)
	}
	if payload["message"] != "No file uploaded" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}
}

func TestUploadReturnsStructuredResult(t *testing.T) {
	svc := newService(newFakeStore(), &fakeLLM{response: parsedJSON})
	router := newTestRouter(svc)

	pdfData := pdftest.Build(pdftest.Page{
		Text:     "Jane Doe, jane@example.com",
		LinkURIs: []string{"https://github.com/janedoe"},
	})
	body, contentType := multipartPDF(t, "resume", pdfData)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["success"] != true {
		t.Fatalf("expected success=true, got %v", payload)
	}
	for _, key := range []string{"id", "file_path", "name", "email", "skills", "resume_url", "extracted_links"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing response key %q: %v", key, payload)
		}
	}
	if payload["name"] != "Jane Doe" {
		t.Fatalf("unexpected name: %v", payload["name"])
	}
}

func TestUploadAcceptsFileAtExactSizeCeiling(t *testing.T) {
	svc := newService(newFakeStore(), &fakeLLM{response: parsedJSON})
	router := newTestRouter(svc)

	// Not a decodable PDF, so reaching the extraction error proves the
	// request cleared the multipart reader and the size gate.
	data := bytes.Repeat([]byte{'a'}, MaxUploadBytes)
	body, contentType := multipartPDF(t, "resume", data)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["message"] != "Could not read the PDF file" {
		t.Fatalf("expected extraction failure message, got %v", payload["message"])
	}
}

func TestUploadRejectsOversizeWithSizeMessage(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "just over ceiling", size: MaxUploadBytes + 1},
		{name: "well over reader limit", size: MaxUploadBytes + 2<<20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeStore(), &fakeLLM{response: parsedJSON})
			router := newTestRouter(svc)

			body, contentType := multipartPDF(t, "resume", bytes.Repeat([]byte{'a'}, tt.size))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
			req.Header.Set("Content-Type", contentType)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			var payload map[string]any
			if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload["message"] != "File size must be under 5MB" {
				t.Fatalf("expected size message, got %v", payload["message"])
			}
		})
	}
}

func TestUploadMapsParseFailuresTo400(t *testing.T) {
	svc := &Service{
		Store: newFakeStore(),
		Parser: &parser.Parser{
			LLM:   &fakeLLM{response: "not json at all"},
			Retry: retry.Options{MaxRetries: 1, Delay: time.Millisecond},
		},
	}
	router := newTestRouter(svc)

	body, contentType := multipartPDF(t, "resume", pdftest.Build(pdftest.Page{Text: "Jane Doe"}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for parse failure, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListVersionsEndpoint(t *testing.T) {
	store := newFakeStore()
	store.files["user-1"] = nil
	svc := newService(store, &fakeLLM{})
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/versions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["success"] != true {
		t.Fatalf("expected success=true, got %v", payload)
	}
}
