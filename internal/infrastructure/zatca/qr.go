// QR code payload per the ZATCA Phase-2 annex: a base64-encoded TLV
// structure embedded in cac:AdditionalDocumentReference[ID=QR]. Simplified
// invoices additionally carry the stamp public key and the authority's
// certificate signature (tags 8 and 9) so the QR is verifiable offline.

package zatca

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"
)

// TLV tags mandated for the QR payload.
const (
	qrTagSellerName    = 1
	qrTagVATNumber     = 2
	qrTagTimestamp     = 3
	qrTagTotalWithVAT  = 4
	qrTagVATTotal      = 5
	qrTagInvoiceHash   = 6
	qrTagSignature     = 7
	qrTagPublicKey     = 8
	qrTagCertSignature = 9
)

// QRInput carries the values encoded into the TLV payload.
type QRInput struct {
	SellerName   string
	VATNumber    string
	Timestamp    string // ISO 8601, issue date + time
	TotalWithVAT string // formatted with 2 decimals
	VATTotal     string // formatted with 2 decimals
	InvoiceHash  string // base64 chain hash of the signed XML
	SignatureB64 string // ds:SignatureValue content

	// Simplified invoices only (offline verification).
	PublicKey     []byte // DER-encoded stamp public key
	CertSignature []byte // signature bytes of the stamp certificate
}

// FormatTimestamp renders an issue instant for the timestamp tag. The tag
// value is always UTC, whatever location the instant carries.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format("2006-01-02T15:04:05Z")
}

// QRBuilderService builds and injects the invoice QR payload.
type QRBuilderService struct{}

// NewQRBuilderService creates the service.
func NewQRBuilderService() *QRBuilderService {
	return &QRBuilderService{}
}

// Build encodes the TLV payload and returns it base64-encoded. Seller name
// is NFC-normalized so Arabic text byte lengths are stable across clients.
func (s *QRBuilderService) Build(in QRInput) (string, error) {
	var buf bytes.Buffer
	fields := []struct {
		tag   int
		value []byte
	}{
		{qrTagSellerName, []byte(norm.NFC.String(in.SellerName))},
		{qrTagVATNumber, []byte(in.VATNumber)},
		{qrTagTimestamp, []byte(in.Timestamp)},
		{qrTagTotalWithVAT, []byte(in.TotalWithVAT)},
		{qrTagVATTotal, []byte(in.VATTotal)},
		{qrTagInvoiceHash, []byte(in.InvoiceHash)},
		{qrTagSignature, []byte(in.SignatureB64)},
	}
	if len(in.PublicKey) > 0 {
		fields = append(fields, struct {
			tag   int
			value []byte
		}{qrTagPublicKey, in.PublicKey})
	}
	if len(in.CertSignature) > 0 {
		fields = append(fields, struct {
			tag   int
			value []byte
		}{qrTagCertSignature, in.CertSignature})
	}
	for _, f := range fields {
		if len(f.value) == 0 {
			return "", fmt.Errorf("zatca: QR tag %d is empty", f.tag)
		}
		if len(f.value) > 255 {
			return "", fmt.Errorf("zatca: QR tag %d exceeds 255 bytes (%d)", f.tag, len(f.value))
		}
		buf.WriteByte(byte(f.tag))
		buf.WriteByte(byte(len(f.value)))
		buf.Write(f.value)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// StampKeyMaterial extracts the DER public key and the certificate
// signature bytes from the cryptographic stamp, for QR tags 8 and 9.
func StampKeyMaterial(cert tls.Certificate) (publicKey, certSignature []byte, err error) {
	if len(cert.Certificate) == 0 {
		return nil, nil, fmt.Errorf("zatca: certificate without chain")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, nil, fmt.Errorf("zatca: parse certificate: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(x509Cert.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("zatca: marshal public key: %w", err)
	}
	return pub, x509Cert.Signature, nil
}

// SignatureValueFromXML reads the ds:SignatureValue content out of a
// signed invoice, for QR tag 7.
func SignatureValueFromXML(signedXML []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signedXML); err != nil {
		return "", fmt.Errorf("zatca: parse signed XML: %w", err)
	}
	for _, el := range doc.FindElements("//SignatureValue") {
		if v := strings.TrimSpace(el.Text()); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("zatca: ds:SignatureValue not found")
}

// InjectQR replaces the QR placeholder attachment of the signed XML with
// the real base64 TLV payload.
func (s *QRBuilderService) InjectQR(signedXML []byte, qrB64 string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signedXML); err != nil {
		return nil, fmt.Errorf("zatca: parse signed XML: %w", err)
	}
	for _, ref := range doc.FindElements("//AdditionalDocumentReference") {
		id := ref.FindElement("ID")
		if id == nil || strings.TrimSpace(id.Text()) != "QR" {
			continue
		}
		obj := ref.FindElement("Attachment/EmbeddedDocumentBinaryObject")
		if obj == nil {
			return nil, fmt.Errorf("zatca: QR reference without attachment")
		}
		obj.SetText(qrB64)
		var out bytes.Buffer
		if _, err := doc.WriteTo(&out); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}
	return nil, fmt.Errorf("zatca: QR document reference not found")
}
