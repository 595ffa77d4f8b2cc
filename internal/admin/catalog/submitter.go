package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"finitefield.org/catalog-admin/internal/admin/productform"
	"finitefield.org/catalog-admin/internal/admin/uploads"
)

// DefaultSubmitPath is the endpoint applied sub-forms are posted to.
const DefaultSubmitPath = "/url"

const maxResponseBytes = 1 << 20

var tracer = otel.Tracer("finitefield.org/catalog-admin/internal/admin/catalog")

// FileOpener reads uploaded files referenced by file handles.
type FileOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, uploads.Object, error)
}

// HTTPSubmitter posts sub-forms as multipart bodies, one part per field.
type HTTPSubmitter struct {
	endpoint string
	client   HTTPClient
	files    FileOpener
}

// NewHTTPSubmitter resolves submitPath against baseURL.
func NewHTTPSubmitter(baseURL, submitPath string, client HTTPClient, files FileOpener) (*HTTPSubmitter, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(submitPath) == "" {
		submitPath = DefaultSubmitPath
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{
		endpoint: resolve(base, submitPath),
		client:   client,
		files:    files,
	}, nil
}

// Endpoint returns the resolved submission URL.
func (s *HTTPSubmitter) Endpoint() string {
	return s.endpoint
}

// Submit sends the submission and returns the backend's JSON answer. Non-2xx
// statuses and bodies that are not JSON are errors.
func (s *HTTPSubmitter) Submit(ctx context.Context, sub Submission) (Result, error) {
	ctx, span := tracer.Start(ctx, "catalog.submit", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("catalog.product_id", sub.ProductID),
		attribute.String("catalog.form_type", string(sub.FormType)),
		attribute.Int64("catalog.entry_id", sub.EntryID),
		attribute.String("server.address", endpointHost(s.endpoint)),
	)

	result, err := s.submit(ctx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	span.SetAttributes(attribute.Int("http.status_code", result.Status))
	return result, nil
}

func (s *HTTPSubmitter) submit(ctx context.Context, sub Submission) (Result, error) {
	body, contentType, err := s.encode(ctx, sub)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return Result{}, fmt.Errorf("catalog: build submission: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Product-ID", sub.ProductID)
	req.Header.Set("X-Form-Type", string(sub.FormType))
	if sub.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sub.Token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("catalog: submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return Result{Status: resp.StatusCode}, errorFromResponse(resp)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{Status: resp.StatusCode}, fmt.Errorf("catalog: read response: %w", err)
	}
	if !gjson.ValidBytes(payload) {
		return Result{Status: resp.StatusCode, Body: payload}, fmt.Errorf("catalog: decode response: invalid JSON (%d bytes)", len(payload))
	}
	return Result{Status: resp.StatusCode, Body: payload}, nil
}

// encode writes the fields in name order. Null fields become empty text
// parts and file handles are streamed from the upload store.
func (s *HTTPSubmitter) encode(ctx context.Context, sub Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	names := make([]string, 0, len(sub.Fields))
	for name := range sub.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := sub.Fields[name]
		if file, ok := value.File(); ok {
			if err := s.writeFile(ctx, mw, name, file); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := mw.WriteField(name, value.String()); err != nil {
			return nil, "", fmt.Errorf("catalog: encode field %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("catalog: encode submission: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func (s *HTTPSubmitter) writeFile(ctx context.Context, mw *multipart.Writer, field string, file productform.File) error {
	if s.files == nil {
		return fmt.Errorf("catalog: no upload store for field %s", field)
	}
	rc, obj, err := s.files.Open(ctx, file.Key)
	if err != nil {
		return fmt.Errorf("catalog: open upload %s: %w", file.Key, err)
	}
	defer rc.Close()

	name := file.Name
	if name == "" {
		name = obj.Name
	}
	if name == "" {
		name = file.Key
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = obj.ContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", "form-data; name="+strconv.Quote(field)+"; filename="+strconv.Quote(name))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("catalog: encode file %s: %w", field, err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("catalog: copy file %s: %w", field, err)
	}
	return nil
}

// SummarizeResponse extracts a few well-known fields of a JSON response for logging.
func SummarizeResponse(body []byte) map[string]string {
	out := make(map[string]string)
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return out
	}
	for _, key := range []string{"id", "status", "message"} {
		if value := gjson.GetBytes(body, key); value.Exists() {
			out[key] = value.String()
		}
	}
	return out
}

func endpointHost(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return parsed.Host
}
