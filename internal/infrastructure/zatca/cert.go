package zatca

import (
	"crypto/tls"
	"fmt"
)

// LoadCertFromPEM loads the cryptographic stamp certificate and private key
// from PEM files. An empty certPath returns an empty certificate and nil
// error (sandbox mode: sign step is skipped).
func LoadCertFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if certPath == "" {
		return tls.Certificate{}, nil
	}
	if keyPath == "" {
		// A single PEM file may hold both certificate and key.
		return tls.LoadX509KeyPair(certPath, certPath)
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load ZATCA stamp certificate: %w", err)
	}
	return cert, nil
}
