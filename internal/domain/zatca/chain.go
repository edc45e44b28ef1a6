package zatca

import (
	"fmt"

	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	pkgzatca "zatca-pro/pkg/zatca"
)

// ChainLink is the minimal view of one invoice needed to audit the hash
// chain: its counter, the PIH it recorded, and its own signed XML.
type ChainLink struct {
	Counter   int64
	PIH       string
	SignedXML []byte
}

// ExpectedPIH returns the previous-invoice-hash a new invoice must record:
// the seed constant for counter 1, otherwise the hash of the prior
// invoice's signed XML. A nil prior artifact for counter > 1 is a chain
// integrity failure: the chain cannot be extended without it.
func ExpectedPIH(counter int64, priorSignedXML []byte) (string, error) {
	if counter < 1 {
		return "", fmt.Errorf("%w: invalid counter %d", domain.ErrChainIntegrity, counter)
	}
	if counter == 1 {
		return pkgzatca.SeedPIH, nil
	}
	if len(priorSignedXML) == 0 {
		return "", fmt.Errorf("%w: signed XML of invoice with counter %d is missing; cannot compute PIH for counter %d",
			domain.ErrChainIntegrity, counter-1, counter)
	}
	return pkgzatca.InvoiceHash(priorSignedXML), nil
}

// VerifyChain audits a taxpayer's invoices in counter order: counters must
// be gapless starting at 1, link 1 must record the seed, and every later
// link's PIH must equal the hash of its predecessor's signed XML.
func VerifyChain(links []ChainLink) error {
	for i, link := range links {
		want := int64(i + 1)
		if link.Counter != want {
			return fmt.Errorf("%w: counter gap at position %d: expected %d, found %d",
				domain.ErrChainIntegrity, i, want, link.Counter)
		}
		expected, err := func() (string, error) {
			if i == 0 {
				return pkgzatca.SeedPIH, nil
			}
			return ExpectedPIH(link.Counter, links[i-1].SignedXML)
		}()
		if err != nil {
			return err
		}
		if link.PIH != expected {
			return fmt.Errorf("%w: PIH mismatch at counter %d: expected %s, recorded %s",
				domain.ErrChainIntegrity, link.Counter, expected, link.PIH)
		}
	}
	return nil
}

// LinkFromInvoice builds a ChainLink from a persisted invoice.
func LinkFromInvoice(inv *entity.Invoice) ChainLink {
	return ChainLink{
		Counter:   inv.Counter,
		PIH:       inv.PreviousInvoiceHash,
		SignedXML: []byte(inv.XMLSigned),
	}
}
