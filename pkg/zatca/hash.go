// Package zatca: invoice hashing per the ZATCA chain convention.
// The hash of an invoice is the SHA-256 of its serialized XML, hex-encoded,
// then base64-encoded. The regulator seed (PIH of the first invoice) follows
// the same convention: it is base64 of the hex SHA-256 of the string "0".

package zatca

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// SeedPIH is the regulator-mandated previous-invoice-hash for counter 1.
// base64(hex(sha256("0"))).
const SeedPIH = "NWZlY2ViNjZmZmM4NmYzOGQ5NTI3ODZjNmQ2OTZjNzljMmRiYzIzOWRkNGU5MWI0NjcyOWQ3M2EyN2ZiNTdlOQ=="

// InvoiceHash computes the chain hash of a serialized (signed) invoice XML.
func InvoiceHash(xmlBytes []byte) string {
	sum := sha256.Sum256(xmlBytes)
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(sum[:])))
}

// DigestB64 computes the raw SHA-256 digest of data, base64-encoded.
// Used for XML digests inside the signature envelope and the QR payload.
func DigestB64(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}
