package zatca

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ── Environment constants ─────────────────────────────────────────────────────

const (
	// EnvSandbox is the local identifier: nothing is sent to the Fatoora API.
	EnvSandbox = "sandbox"
	// EnvSimulation targets the Fatoora simulation portal.
	EnvSimulation = "simulation"
	// EnvProduction targets the production Fatoora portal.
	EnvProduction = "production"

	apiURLSimulation = "https://gw-fatoora.zatca.gov.sa/e-invoicing/simulation"
	apiURLProduction = "https://gw-fatoora.zatca.gov.sa/e-invoicing/core"

	pathReporting = "/invoices/reporting/single"
	pathClearance = "/invoices/clearance/single"
)

// ── Port (interface) ──────────────────────────────────────────────────────────

// Submission is one signed invoice ready for delivery to the Fatoora API.
type Submission struct {
	UUID        string // invoice UUID (request header and body)
	InvoiceHash string // chain hash of the signed XML
	SignedXML   []byte // signed UBL document (sent base64-encoded)
	Clearance   bool   // true = clearance (standard), false = reporting (simplified)
}

// SubmitResult is the outcome of one delivery to the Fatoora API.
type SubmitResult struct {
	Accepted             bool
	AcceptedWithWarnings bool
	SubmissionID         string // requestID / reportingStatus reference, may be empty
	Warnings             []string
	Errors               []string
	ClearedInvoice       []byte // authority-stamped XML, clearance only
}

// Submitter is the outbound port for invoice delivery to the authority.
// The concrete implementation speaks the Fatoora REST API; tests inject a
// mock.
type Submitter interface {
	// Submit delivers the signed invoice. env must be "simulation" or
	// "production"; it selects the endpoint base URL.
	Submit(ctx context.Context, sub Submission, env string) (*SubmitResult, error)
}

// ── REST implementation ───────────────────────────────────────────────────────

// APIClient implements Submitter against the Fatoora REST API. Requests
// authenticate with the CSID (binary security token) and its secret via
// HTTP Basic auth.
type APIClient struct {
	httpClient *http.Client
	csidToken  string
	csidSecret string
	baseURL    string // overrides the environment URL when set (developer portal)
}

// NewAPIClient builds the client. The Fatoora API can take several seconds
// to validate a document, hence the generous timeout.
func NewAPIClient(csidToken, csidSecret, baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		csidToken:  csidToken,
		csidSecret: csidSecret,
		baseURL:    baseURL,
	}
}

// ── Request/response payloads ─────────────────────────────────────────────────

type submitRequest struct {
	InvoiceHash string `json:"invoiceHash"`
	UUID        string `json:"uuid"`
	Invoice     string `json:"invoice"` // signed XML, base64
}

type validationMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationResults struct {
	Status       string              `json:"status"`
	InfoMessages []validationMessage `json:"infoMessages"`
	Warnings     []validationMessage `json:"warningMessages"`
	Errors       []validationMessage `json:"errorMessages"`
}

type submitResponse struct {
	ValidationResults validationResults `json:"validationResults"`
	ReportingStatus   string            `json:"reportingStatus"`
	ClearanceStatus   string            `json:"clearanceStatus"`
	ClearedInvoice    string            `json:"clearedInvoice"` // base64, clearance only
}

// ── Submit ────────────────────────────────────────────────────────────────────

// Submit posts the signed invoice to the reporting or clearance endpoint.
func (c *APIClient) Submit(ctx context.Context, sub Submission, env string) (*SubmitResult, error) {
	url, err := c.endpointURL(sub.Clearance, env)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(submitRequest{
		InvoiceHash: sub.InvoiceHash,
		UUID:        sub.UUID,
		Invoice:     base64.StdEncoding.EncodeToString(sub.SignedXML),
	})
	if err != nil {
		return nil, fmt.Errorf("fatoora: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("fatoora: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "V2")
	req.Header.Set("Accept-Language", "en")
	if sub.Clearance {
		req.Header.Set("Clearance-Status", "1")
	}
	req.SetBasicAuth(c.csidToken, c.csidSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fatoora: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("fatoora: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("fatoora: read response: %w", err)
	}

	return c.parseResponse(resp.StatusCode, rawBody, sub.Clearance)
}

// endpointURL resolves the endpoint for the environment and invoice kind.
func (c *APIClient) endpointURL(clearance bool, env string) (string, error) {
	base := c.baseURL
	if base == "" {
		switch env {
		case EnvSimulation:
			base = apiURLSimulation
		case EnvProduction:
			base = apiURLProduction
		default:
			return "", fmt.Errorf("fatoora: unknown environment %q (use %q or %q)",
				env, EnvSimulation, EnvProduction)
		}
	}
	base = strings.TrimRight(base, "/")
	if clearance {
		return base + pathClearance, nil
	}
	return base + pathReporting, nil
}

// parseResponse maps the Fatoora status codes onto a SubmitResult:
// 200 = accepted, 202 = accepted with warnings, 4xx = rejected with
// validation messages. Unparseable bodies become a rejection carrying the
// raw body, never a transport error.
func (c *APIClient) parseResponse(status int, rawBody []byte, clearance bool) (*SubmitResult, error) {
	var body submitResponse
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return &SubmitResult{
			Accepted: false,
			Errors:   []string{"unparseable Fatoora response: " + string(rawBody)},
		}, nil
	}

	res := &SubmitResult{
		Warnings: messageTexts(body.ValidationResults.Warnings),
		Errors:   messageTexts(body.ValidationResults.Errors),
	}
	if clearance {
		res.SubmissionID = body.ClearanceStatus
		if body.ClearedInvoice != "" {
			if cleared, err := base64.StdEncoding.DecodeString(body.ClearedInvoice); err == nil {
				res.ClearedInvoice = cleared
			}
		}
	} else {
		res.SubmissionID = body.ReportingStatus
	}

	switch {
	case status == http.StatusOK:
		res.Accepted = true
	case status == http.StatusAccepted:
		res.Accepted = true
		res.AcceptedWithWarnings = true
	default:
		res.Accepted = false
		if len(res.Errors) == 0 {
			res.Errors = []string{fmt.Sprintf("Fatoora returned HTTP %d: %s", status, string(rawBody))}
		}
	}
	return res, nil
}

func messageTexts(msgs []validationMessage) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Code != "" {
			out = append(out, m.Code+": "+m.Message)
			continue
		}
		out = append(out, m.Message)
	}
	return out
}

var _ Submitter = (*APIClient)(nil)
