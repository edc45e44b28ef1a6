// XAdES B-B signing service for ZATCA Phase-2 invoices. The cryptographic
// stamp issued by the authority carries an ECDSA (secp256k1) key; the signer
// injects the ds:Signature node into the ext:ExtensionContent placeholder
// left by the XML builder.

package zatca

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"zatca-pro/pkg/zatca"
)

// Namespaces and algorithm identifiers (XMLDSig / XAdES).
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceXAdES     = "http://uri.etsi.org/01903/v1.3.2#"
	AlgC14N            = "http://www.w3.org/2006/12/xml-c14n11"
	AlgECDSASHA256     = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha256"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
	TypeSignedProps    = "http://uri.etsi.org/01903#SignedProperties"
)

// SignatureService implements pkg/zatca.Signer: it signs the invoice XML
// and injects ds:Signature into the extension placeholder.
type SignatureService struct{}

// NewSignatureService creates the service.
func NewSignatureService() *SignatureService {
	return &SignatureService{}
}

// Sign signs xmlBytes with the certificate's private key and returns the
// XML with the XAdES B-B signature embedded. The document digest is taken
// over the canonicalized document without the signature node, which is the
// digest the QR code and the chain hash verification also rely on.
func (s *SignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("zatca: empty XML")
	}
	if len(cert.Certificate) == 0 || cert.PrivateKey == nil {
		return nil, fmt.Errorf("zatca: certificate without key material")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("zatca: parse certificate: %w", err)
	}

	// 1) Document digest (C14N, without the signature node).
	canonicalDoc, err := canonicalizeXML(xmlBytes)
	if err != nil {
		canonicalDoc = xmlBytes
	}
	docDigest := sha256.Sum256(canonicalDoc)
	docDigestB64 := base64.StdEncoding.EncodeToString(docDigest[:])

	// 2) SignedProperties (signing time, certificate digest, issuer/serial)
	// and its digest, referenced from SignedInfo.
	signingTime := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	certDigestB64, issuerName, serial := certDigestAndIssuerSerial(x509Cert)
	signedPropsXML := s.buildSignedProperties(signingTime, certDigestB64, issuerName, serial)
	canonicalProps, err := canonicalizeXML([]byte(signedPropsXML))
	if err != nil {
		canonicalProps = []byte(signedPropsXML)
	}
	propsDigest := sha256.Sum256(canonicalProps)
	propsDigestB64 := base64.StdEncoding.EncodeToString(propsDigest[:])

	// 3) SignedInfo and its ECDSA-SHA256 signature.
	signedInfoXML := s.buildSignedInfo(docDigestB64, propsDigestB64)
	canonicalSignedInfo, err := canonicalizeXML([]byte(signedInfoXML))
	if err != nil {
		canonicalSignedInfo = []byte(signedInfoXML)
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := signDigest(cert.PrivateKey, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("zatca: sign SignedInfo: %w", err)
	}
	signatureValueB64 := base64.StdEncoding.EncodeToString(signatureValue)

	// 4) Full ds:Signature node and injection into the placeholder.
	certB64 := base64.StdEncoding.EncodeToString(x509Cert.Raw)
	signatureXML := s.buildFullSignature(signedInfoXML, signatureValueB64, certB64, signedPropsXML)
	return s.injectSignature(xmlBytes, signatureXML)
}

// signDigest signs a SHA-256 digest with the stamp's private key. ZATCA
// stamps are ECDSA; any other crypto.Signer key is accepted as a fallback
// for locally generated test material.
func signDigest(key crypto.PrivateKey, digest []byte) ([]byte, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		return ecdsa.SignASN1(rand.Reader, k, digest)
	case crypto.Signer:
		return k.Sign(rand.Reader, digest, crypto.SHA256)
	default:
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// certDigestAndIssuerSerial returns the base64 SHA-256 of the DER
// certificate, the issuer distinguished name and the decimal serial.
func certDigestAndIssuerSerial(cert *x509.Certificate) (digestB64, issuerName, serial string) {
	sum := sha256.Sum256(cert.Raw)
	digestB64 = base64.StdEncoding.EncodeToString(sum[:])
	issuerName = cert.Issuer.String()
	serial = new(big.Int).Set(cert.SerialNumber).String()
	return
}

func (s *SignatureService) buildSignedInfo(docDigestB64, propsDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgECDSASHA256 + `"/>`)
	sb.WriteString(`<ds:Reference Id="invoiceSignedData" URI="">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"/>`)
	sb.WriteString(`<ds:Transform Algorithm="` + AlgC14N + `"/></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + docDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`<ds:Reference Type="` + TypeSignedProps + `" URI="#xadesSignedProperties">`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + propsDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func (s *SignatureService) buildSignedProperties(signingTime, certDigestB64, issuerName, serial string) string {
	var sb strings.Builder
	sb.WriteString(`<xades:SignedProperties xmlns:xades="` + NamespaceXAdES + `" xmlns:ds="` + NamespaceDS + `" Id="xadesSignedProperties">`)
	sb.WriteString(`<xades:SignedSignatureProperties>`)
	sb.WriteString(`<xades:SigningTime>` + signingTime + `</xades:SigningTime>`)
	sb.WriteString(`<xades:SigningCertificate><xades:Cert>`)
	sb.WriteString(`<xades:CertDigest><ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + certDigestB64 + `</ds:DigestValue></xades:CertDigest>`)
	sb.WriteString(`<xades:IssuerSerial><ds:X509IssuerName>` + escapeXML(issuerName) + `</ds:X509IssuerName>`)
	sb.WriteString(`<ds:X509SerialNumber>` + serial + `</ds:X509SerialNumber></xades:IssuerSerial>`)
	sb.WriteString(`</xades:Cert></xades:SigningCertificate>`)
	sb.WriteString(`</xades:SignedSignatureProperties>`)
	sb.WriteString(`</xades:SignedProperties>`)
	return sb.String()
}

func (s *SignatureService) buildFullSignature(signedInfoXML, signatureValueB64, certB64, signedPropsXML string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `" Id="signature">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<ds:SignatureValue>` + signatureValueB64 + `</ds:SignatureValue>`)
	sb.WriteString(`<ds:KeyInfo><ds:X509Data><ds:X509Certificate>` + certB64 + `</ds:X509Certificate></ds:X509Data></ds:KeyInfo>`)
	sb.WriteString(`<ds:Object><xades:QualifyingProperties xmlns:xades="` + NamespaceXAdES + `" Target="#signature">`)
	sb.WriteString(signedPropsXML)
	sb.WriteString(`</xades:QualifyingProperties></ds:Object>`)
	sb.WriteString(`</ds:Signature>`)
	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// injectSignature parses the XML, finds the ExtensionContent placeholder
// inside ext:UBLExtensions and appends the ds:Signature node.
func (s *SignatureService) injectSignature(xmlBytes []byte, signatureXML string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("zatca: parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("zatca: document without root")
	}

	var extContent *etree.Element
	for _, child := range root.ChildElements() {
		if localTag(child) != "UBLExtensions" {
			continue
		}
		for _, ext := range child.ChildElements() {
			if localTag(ext) != "UBLExtension" {
				continue
			}
			for _, ec := range ext.ChildElements() {
				if localTag(ec) == "ExtensionContent" {
					extContent = ec
					break
				}
			}
			if extContent != nil {
				break
			}
		}
		break
	}
	if extContent == nil {
		return nil, fmt.Errorf("zatca: ext:ExtensionContent placeholder not found")
	}

	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("zatca: parse Signature node: %w", err)
	}
	if sigRoot := sigDoc.Root(); sigRoot != nil {
		extContent.AddChild(sigRoot)
	}

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// localTag strips an inline namespace prefix etree may leave in Tag.
func localTag(e *etree.Element) string {
	if i := strings.IndexByte(e.Tag, ':'); i >= 0 {
		return e.Tag[i+1:]
	}
	return e.Tag
}

var _ zatca.Signer = (*SignatureService)(nil)
