// Package zatca: interface for digital signing of invoice XML documents
// (XAdES B-B with the ECDSA cryptographic stamp issued by ZATCA).

package zatca

import "crypto/tls"

// Signer signs an invoice XML and returns the XML with the signature node
// injected into ext:ExtensionContent.
type Signer interface {
	// Sign takes the unsigned invoice XML and the certificate with its
	// private key, and returns the XML with ds:Signature embedded.
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
