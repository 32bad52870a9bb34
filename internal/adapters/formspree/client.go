// Package formspree posts applications to a Formspree-compatible intake
// endpoint: one multipart request per submission, JSON answers.
package formspree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/csg33k/era-intake/internal/domain"
)

// maxErrorBody caps how much of a failure response is read.
const maxErrorBody = 64 << 10

type Client struct {
	endpoint string
	http     *http.Client
}

// New returns a client for endpoint. A zero timeout leaves the transport
// defaults in charge.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

// Submit satisfies ports.Submitter. Transport failures wrap
// domain.ErrConnectivity; non-2xx answers return *domain.RemoteError.
func (c *Client) Submit(ctx context.Context, p *domain.Payload) error {
	body, contentType, err := Encode(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return parseError(resp.StatusCode, raw)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode writes p as multipart/form-data. Fields keep their order; files
// carry their own content type.
func Encode(p *domain.Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range p.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Name), quoteEscaper.Replace(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

type errorBody struct {
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// parseError keeps the most specific reason the endpoint gave. Per-field
// messages win over the summary. Unparseable bodies yield an empty message.
func parseError(status int, raw []byte) *domain.RemoteError {
	e := &domain.RemoteError{Status: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return e
	}
	var msgs []string
	for _, fe := range body.Errors {
		if fe.Message != "" {
			msgs = append(msgs, fe.Message)
		}
		code := strings.ToUpper(fe.Code)
		if strings.HasPrefix(code, "FILE") || strings.HasPrefix(code, "TYPE_FILE") || isAttachmentField(fe.Field) {
			e.Attachment = true
		}
	}
	e.Message = strings.Join(msgs, "; ")
	if e.Message == "" {
		e.Message = body.Error
	}
	if strings.Contains(strings.ToLower(e.Message), "file") {
		e.Attachment = true
	}
	return e
}

func isAttachmentField(name string) bool {
	for _, s := range domain.Sides {
		if name == s.FieldName() {
			return true
		}
	}
	return false
}
