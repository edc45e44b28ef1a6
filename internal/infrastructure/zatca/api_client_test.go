package zatca_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zatca-pro/internal/infrastructure/zatca"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

type capturedRequest struct {
	path        string
	headers     http.Header
	user        string
	secret      string
	hasBasic    bool
	invoiceHash string
	uuid        string
	invoiceB64  string
}

// fatooraStub spins up a test server that records the incoming request and
// replies with the given status and JSON body.
func fatooraStub(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	rec := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.headers = r.Header.Clone()
		rec.user, rec.secret, rec.hasBasic = r.BasicAuth()

		var payload struct {
			InvoiceHash string `json:"invoiceHash"`
			UUID        string `json:"uuid"`
			Invoice     string `json:"invoice"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		rec.invoiceHash = payload.InvoiceHash
		rec.uuid = payload.UUID
		rec.invoiceB64 = payload.Invoice

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func testSubmission(clearance bool) zatca.Submission {
	return zatca.Submission{
		UUID:        "8d487816-70b8-4ade-a618-9d620b73814a",
		InvoiceHash: "4emBRPDgAlVNh5yjj1bXqshPwcvFLYIUE9uHSFDchUM=",
		SignedXML:   []byte("<Invoice>signed</Invoice>"),
		Clearance:   clearance,
	}
}

// ── Request shape ─────────────────────────────────────────────────────────────

func TestSubmit_ReportingRequestShape(t *testing.T) {
	srv, rec := fatooraStub(t, http.StatusOK, `{"reportingStatus":"REPORTED"}`)
	client := zatca.NewAPIClient("csid-token", "csid-secret", srv.URL, 0)

	sub := testSubmission(false)
	res, err := client.Submit(context.Background(), sub, zatca.EnvSimulation)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "/invoices/reporting/single", rec.path)
	assert.True(t, rec.hasBasic)
	assert.Equal(t, "csid-token", rec.user)
	assert.Equal(t, "csid-secret", rec.secret)
	assert.Equal(t, "V2", rec.headers.Get("Accept-Version"))
	assert.Equal(t, "application/json", rec.headers.Get("Content-Type"))
	assert.Empty(t, rec.headers.Get("Clearance-Status"))

	assert.Equal(t, sub.UUID, rec.uuid)
	assert.Equal(t, sub.InvoiceHash, rec.invoiceHash)
	decoded, err := base64.StdEncoding.DecodeString(rec.invoiceB64)
	require.NoError(t, err)
	assert.Equal(t, sub.SignedXML, decoded)
}

func TestSubmit_ClearanceRequestShape(t *testing.T) {
	srv, rec := fatooraStub(t, http.StatusOK, `{"clearanceStatus":"CLEARED"}`)
	client := zatca.NewAPIClient("csid-token", "csid-secret", srv.URL, 0)

	_, err := client.Submit(context.Background(), testSubmission(true), zatca.EnvProduction)
	require.NoError(t, err)

	assert.Equal(t, "/invoices/clearance/single", rec.path)
	assert.Equal(t, "1", rec.headers.Get("Clearance-Status"))
}

// ── Response mapping ──────────────────────────────────────────────────────────

func TestSubmit_ReportedAccepted(t *testing.T) {
	srv, _ := fatooraStub(t, http.StatusOK,
		`{"reportingStatus":"REPORTED","validationResults":{"status":"PASS"}}`)
	client := zatca.NewAPIClient("t", "s", srv.URL, 0)

	res, err := client.Submit(context.Background(), testSubmission(false), zatca.EnvSimulation)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.False(t, res.AcceptedWithWarnings)
	assert.Equal(t, "REPORTED", res.SubmissionID)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Errors)
}

func TestSubmit_AcceptedWithWarnings(t *testing.T) {
	srv, _ := fatooraStub(t, http.StatusAccepted, `{
		"reportingStatus": "REPORTED",
		"validationResults": {
			"status": "WARNING",
			"warningMessages": [
				{"type":"WARNING","code":"BR-KSA-W-01","message":"buyer address incomplete"}
			]
		}
	}`)
	client := zatca.NewAPIClient("t", "s", srv.URL, 0)

	res, err := client.Submit(context.Background(), testSubmission(false), zatca.EnvSimulation)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.True(t, res.AcceptedWithWarnings)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "BR-KSA-W-01: buyer address incomplete", res.Warnings[0])
}

func TestSubmit_RejectedWithValidationErrors(t *testing.T) {
	srv, _ := fatooraStub(t, http.StatusBadRequest, `{
		"validationResults": {
			"status": "ERROR",
			"errorMessages": [
				{"type":"ERROR","code":"BR-KSA-26","message":"invoice counter value mismatch"},
				{"type":"ERROR","message":"schema validation failed"}
			]
		}
	}`)
	client := zatca.NewAPIClient("t", "s", srv.URL, 0)

	res, err := client.Submit(context.Background(), testSubmission(false), zatca.EnvSimulation)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "BR-KSA-26: invoice counter value mismatch", res.Errors[0])
	assert.Equal(t, "schema validation failed", res.Errors[1])
}

func TestSubmit_ClearanceReturnsStampedInvoice(t *testing.T) {
	stamped := []byte("<Invoice>stamped-by-authority</Invoice>")
	srv, _ := fatooraStub(t, http.StatusOK, `{
		"clearanceStatus": "CLEARED",
		"clearedInvoice": "`+base64.StdEncoding.EncodeToString(stamped)+`"
	}`)
	client := zatca.NewAPIClient("t", "s", srv.URL, 0)

	res, err := client.Submit(context.Background(), testSubmission(true), zatca.EnvProduction)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, "CLEARED", res.SubmissionID)
	assert.Equal(t, stamped, res.ClearedInvoice)
}

func TestSubmit_UnparseableBodyBecomesRejection(t *testing.T) {
	srv, _ := fatooraStub(t, http.StatusBadGateway, `<html>gateway error</html>`)
	client := zatca.NewAPIClient("t", "s", srv.URL, 0)

	res, err := client.Submit(context.Background(), testSubmission(false), zatca.EnvSimulation)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "unparseable Fatoora response")
	assert.Contains(t, res.Errors[0], "gateway error")
}

func TestSubmit_RejectionWithoutMessagesCarriesStatus(t *testing.T) {
	srv, _ := fatooraStub(t, http.StatusUnauthorized, `{}`)
	client := zatca.NewAPIClient("t", "s", srv.URL, 0)

	res, err := client.Submit(context.Background(), testSubmission(false), zatca.EnvSimulation)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "HTTP 401")
}

func TestSubmit_UnknownEnvironmentFails(t *testing.T) {
	client := zatca.NewAPIClient("t", "s", "", 0)

	_, err := client.Submit(context.Background(), testSubmission(false), zatca.EnvSandbox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown environment")
}
