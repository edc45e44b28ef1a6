package billing

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	infrazatca "zatca-pro/internal/infrastructure/zatca"

	"zatca-pro/internal/application/einvoice"
	dom "zatca-pro/internal/domain/einvoice"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
	pkgzatca "zatca-pro/pkg/zatca"
)

// ZATCAOrchestrator runs the full compliance pipeline for a persisted
// DRAFT invoice:
//
//	Assemble → XML UBL 2.1 → XAdES signature → chain hash → QR TLV → Submit → Update DB
//
// It always runs in its own goroutine (ProcessAsync) with its own
// context.Background() + 30 s timeout, decoupled from the HTTP cycle.
// Counter and PIH were consumed at creation time and are never touched
// here; a retry after ERROR_GENERATION reuses them.
//
// Operating modes (ZATCAConfig.Environment):
//   - "sandbox"    → assemble, sign (if a stamp is configured) and mock the
//     submission round trip. Final state: ACCEPTED.
//   - "simulation" → submit to the Fatoora simulation portal.
//   - "production" → submit to the production portal.
type ZATCAOrchestrator struct {
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.BusinessSettingsRepository
	customerRepo repository.CustomerRepository
	assembler    *einvoice.Assembler
	xmlBuilder   *infrazatca.XMLBuilderService
	signer       pkgzatca.Signer
	qrBuilder    *infrazatca.QRBuilderService
	submitter    infrazatca.Submitter // REST client; nil in sandbox
	config       ZATCAConfig
}

// NewZATCAOrchestrator builds the orchestrator with all its dependencies.
// submitter may be nil: sandbox is then the only mode that works.
func NewZATCAOrchestrator(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.BusinessSettingsRepository,
	customerRepo repository.CustomerRepository,
	assembler *einvoice.Assembler,
	xmlBuilder *infrazatca.XMLBuilderService,
	signer pkgzatca.Signer,
	qrBuilder *infrazatca.QRBuilderService,
	submitter infrazatca.Submitter,
	config ZATCAConfig,
) *ZATCAOrchestrator {
	return &ZATCAOrchestrator{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		customerRepo: customerRepo,
		assembler:    assembler,
		xmlBuilder:   xmlBuilder,
		signer:       signer,
		qrBuilder:    qrBuilder,
		submitter:    submitter,
		config:       config,
	}
}

// ProcessAsync fires ZATCA processing in an independent goroutine.
// invoiceID is the ID of an invoice already persisted in DRAFT state.
func (o *ZATCAOrchestrator) ProcessAsync(invoiceID string) {
	go o.process(invoiceID)
}

// Retry re-runs the pipeline for an invoice stuck in ERROR_GENERATION or
// REJECTED. The chain state is immutable, so the retry regenerates XML,
// signature and QR with the original counter and PIH.
func (o *ZATCAOrchestrator) Retry(ctx context.Context, settingsID, invoiceID string) error {
	inv, err := o.invoiceRepo.GetStatus(invoiceID)
	if err != nil || inv == nil {
		return fmt.Errorf("invoice %s not found", invoiceID)
	}
	if inv.SettingsID != settingsID {
		return fmt.Errorf("invoice %s does not belong to taxpayer %s", invoiceID, settingsID)
	}
	switch inv.Status {
	case entity.StatusDraft, entity.StatusErrorGeneration, entity.StatusRejected:
		o.ProcessAsync(invoiceID)
		return nil
	default:
		return fmt.Errorf("invoice %s is %s; only DRAFT, ERROR_GENERATION or REJECTED can be reprocessed",
			invoiceID, inv.Status)
	}
}

// process is the synchronous core of the orchestrator. It always finishes
// by updating the invoice status in the DB (ACCEPTED, ACCEPTED_WARNING,
// REJECTED or ERROR_GENERATION).
func (o *ZATCAOrchestrator) process(invoiceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// markError moves the invoice to ERROR_GENERATION and logs the problem.
	markError := func(inv *entity.Invoice, step, msg string) {
		inv.Status = entity.StatusErrorGeneration
		inv.Warnings = msg
		inv.UpdatedAt = time.Now()
		if err := o.invoiceRepo.Update(inv); err != nil {
			log.Printf("[ZATCA][%s] could not persist ERROR_GENERATION: %v", invoiceID, err)
		}
		log.Printf("[ZATCA][%s] ERROR in %s: %s", invoiceID, step, msg)
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 0. Re-fetch fresh data (avoids data races with the HTTP goroutine)
	// ═══════════════════════════════════════════════════════════════════════════
	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		log.Printf("[ZATCA][%s] invoice not found: %v", invoiceID, err)
		return
	}
	switch inv.Status {
	case entity.StatusDraft, entity.StatusErrorGeneration, entity.StatusRejected:
		// processable
	default:
		log.Printf("[ZATCA][%s] unexpected status %q (already processed?), skipping", invoiceID, inv.Status)
		return
	}

	settings, err := o.settingsRepo.GetByID(inv.SettingsID)
	if err != nil || settings == nil {
		markError(inv, "fetch-settings", fmt.Sprintf("taxpayer %s not found: %v", inv.SettingsID, err))
		return
	}

	var customer *entity.Customer
	if inv.CustomerID != "" {
		customer, err = o.customerRepo.GetByID(inv.CustomerID)
		if err != nil || customer == nil {
			markError(inv, "fetch-customer", fmt.Sprintf("customer %s not found: %v", inv.CustomerID, err))
			return
		}
	}

	lines, err := o.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		markError(inv, "fetch-lines", fmt.Sprintf("loading lines: %v", err))
		return
	}
	allocations, err := o.invoiceRepo.GetAllocationsByInvoiceID(invoiceID)
	if err != nil {
		markError(inv, "fetch-allocations", fmt.Sprintf("loading prepayment allocations: %v", err))
		return
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 1. Assemble: validate and derive every field into the typed Result
	// ═══════════════════════════════════════════════════════════════════════════
	result, fieldErrs, err := o.assembler.Assemble(einvoice.AssembleInput{
		Settings:    settings,
		Customer:    customer,
		Invoice:     inv,
		Lines:       realLines(lines),
		Allocations: allocations,
	})
	if err != nil {
		markError(inv, "assemble", err.Error())
		return
	}
	if !fieldErrs.Empty() {
		markError(inv, "assemble", joinFieldErrors(fieldErrs))
		return
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 2. Build the UBL 2.1 XML (signature and QR placeholders included)
	// ═══════════════════════════════════════════════════════════════════════════
	xmlBytes, err := o.xmlBuilder.Build(result)
	if err != nil {
		markError(inv, "xml-build", err.Error())
		return
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 3. XAdES signature with the cryptographic stamp
	// ═══════════════════════════════════════════════════════════════════════════
	sandbox := isSandbox(o.config.Environment)
	cert, errCert := infrazatca.LoadCertFromPEM(o.config.CertPath, o.config.CertKeyPath)
	if errCert != nil {
		markError(inv, "cert-load", errCert.Error())
		return
	}
	hasStamp := len(cert.Certificate) > 0 && cert.PrivateKey != nil
	if !hasStamp && !sandbox {
		markError(inv, "cert-load", "empty stamp certificate: check ZATCA_CERT_PATH and ZATCA_CERT_KEY_PATH")
		return
	}

	signedXML := xmlBytes
	signatureB64 := ""
	if hasStamp {
		signedXML, err = o.signer.Sign(xmlBytes, cert)
		if err != nil {
			markError(inv, "xml-sign", err.Error())
			return
		}
		signatureB64, err = infrazatca.SignatureValueFromXML(signedXML)
		if err != nil {
			markError(inv, "xml-sign", err.Error())
			return
		}
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 4. Chain hash and QR TLV injection
	// ═══════════════════════════════════════════════════════════════════════════
	invoiceHash := pkgzatca.InvoiceHash(signedXML)

	qrB64, err := o.buildQR(result, inv, invoiceHash, signatureB64, cert)
	if err != nil {
		markError(inv, "qr", err.Error())
		return
	}
	withQR, err := o.qrBuilder.InjectQR(signedXML, qrB64)
	if err != nil {
		markError(inv, "qr", err.Error())
		return
	}
	signedXML = withQR

	// Persist SIGNED: the artifact below is what the successor's PIH hashes.
	inv.InvoiceHash = invoiceHash
	inv.XMLSigned = string(signedXML)
	inv.QRCode = qrB64
	inv.Status = entity.StatusSigned
	inv.UpdatedAt = time.Now()
	if err := o.invoiceRepo.Update(inv); err != nil {
		log.Printf("[ZATCA][%s] error persisting SIGNED: %v", invoiceID, err)
		return
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 5. Conditional submission to the Fatoora API
	// ═══════════════════════════════════════════════════════════════════════════
	clearance := inv.TransactionCode == pkgzatca.TransactionStandard

	var finalStatus, submissionID, warnings string

	switch env := strings.ToLower(strings.TrimSpace(o.config.Environment)); env {
	case infrazatca.EnvSandbox, "":
		// ── Sandbox: simulate the round trip, do not send ──────────────────
		log.Printf("[ZATCA][%s] [SANDBOX] simulating submission (clearance=%t, %d bytes)",
			invoiceID, clearance, len(signedXML))
		submissionID = "MOCK-SUBMISSION-123"
		finalStatus = entity.StatusAccepted

	case infrazatca.EnvSimulation, infrazatca.EnvProduction:
		// ── Simulation/production: real call to the Fatoora API ────────────
		if o.submitter == nil {
			markError(inv, "submit", "Submitter not injected for environment "+env)
			return
		}
		res, subErr := o.submitter.Submit(ctx, infrazatca.Submission{
			UUID:        inv.UUID,
			InvoiceHash: invoiceHash,
			SignedXML:   signedXML,
			Clearance:   clearance,
		}, env)
		if subErr != nil {
			markError(inv, "submit", subErr.Error())
			return
		}
		submissionID = res.SubmissionID
		warnings = strings.Join(res.Warnings, "; ")
		switch {
		case res.Accepted && res.AcceptedWithWarnings:
			finalStatus = entity.StatusAcceptedWarning
			log.Printf("[ZATCA][%s] accepted with warnings: %s", invoiceID, warnings)
		case res.Accepted:
			finalStatus = entity.StatusAccepted
			log.Printf("[ZATCA][%s] accepted (submission %s)", invoiceID, submissionID)
		default:
			finalStatus = entity.StatusRejected
			warnings = strings.Join(res.Errors, "; ")
			log.Printf("[ZATCA][%s] rejected: %s", invoiceID, warnings)
		}
		// The clearance response may carry an authority-stamped copy. The
		// stored artifact stays as signed locally: successors hash it for
		// their PIH, so it must never change after SIGNED.
		if res.Accepted && len(res.ClearedInvoice) > 0 {
			log.Printf("[ZATCA][%s] clearance returned stamped copy (%d bytes)", invoiceID, len(res.ClearedInvoice))
		}

	default:
		markError(inv, "config", fmt.Sprintf("unknown ZATCA_ENVIRONMENT: %q (use sandbox|simulation|production)", env))
		return
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 6. Persist the final state
	// ═══════════════════════════════════════════════════════════════════════════
	inv.Status = finalStatus
	inv.SubmissionID = submissionID
	inv.Warnings = warnings
	inv.UpdatedAt = time.Now()

	if err := o.invoiceRepo.Update(inv); err != nil {
		log.Printf("[ZATCA][%s] error persisting final status %s: %v", invoiceID, finalStatus, err)
		return
	}

	log.Printf("[ZATCA][%s] processed → %s (submission: %s)", invoiceID, finalStatus, submissionID)
}

// ── private helpers ───────────────────────────────────────────────────────────

func isSandbox(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "" || env == infrazatca.EnvSandbox
}

// realLines filters out prepayment offset lines; the assembler re-derives
// those from the allocations.
func realLines(lines []*entity.InvoiceLine) []*entity.InvoiceLine {
	out := make([]*entity.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		if !l.IsPrepayment {
			out = append(out, l)
		}
	}
	return out
}

// joinFieldErrors renders the soft-error map deterministically.
func joinFieldErrors(errs dom.Errors) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+errs[f])
	}
	return "field validation failed: " + strings.Join(parts, "; ")
}

// buildQR assembles the TLV payload from the validated result. Simplified
// invoices carry the stamp public key and certificate signature so the QR
// verifies offline.
func (o *ZATCAOrchestrator) buildQR(result *dom.Result, inv *entity.Invoice, invoiceHash, signatureB64 string, cert tls.Certificate) (string, error) {
	sellerName := ""
	if result.SellerDetails.RegistrationName != nil {
		sellerName = *result.SellerDetails.RegistrationName
	}
	vat := ""
	if result.SellerDetails.VatNumber != nil {
		vat = *result.SellerDetails.VatNumber
	}
	total := inv.GrandTotal
	if result.Invoice.TaxInclusiveAmount != nil {
		total = *result.Invoice.TaxInclusiveAmount
	}
	taxTotal := inv.TaxTotal
	if result.Invoice.TaxTotal != nil {
		taxTotal = *result.Invoice.TaxTotal
	}

	in := infrazatca.QRInput{
		SellerName:   sellerName,
		VATNumber:    vat,
		Timestamp:    infrazatca.FormatTimestamp(inv.IssueDate),
		TotalWithVAT: total.Round(2).StringFixed(2),
		VATTotal:     taxTotal.Round(2).StringFixed(2),
		InvoiceHash:  invoiceHash,
		SignatureB64: signatureB64,
	}
	if in.SignatureB64 == "" {
		// Sandbox without a stamp: keep the TLV well-formed.
		in.SignatureB64 = "unsigned"
	}
	if inv.TransactionCode == pkgzatca.TransactionSimplified && len(cert.Certificate) > 0 {
		pub, certSig, err := infrazatca.StampKeyMaterial(cert)
		if err != nil {
			return "", err
		}
		in.PublicKey = pub
		in.CertSignature = certSig
	}
	return o.qrBuilder.Build(in)
}
