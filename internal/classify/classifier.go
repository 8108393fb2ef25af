// Package classify infers the FatturaPA document type of an invoice from the
// parties' countries and the line descriptions. It is a heuristic: missing
// country data falls through to the domestic type.
package classify

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

const (
	// DomesticCountry is the country of the SDI interchange.
	DomesticCountry = "IT"
	// MicroState is San Marino, which has its own integration types.
	MicroState = "SM"
)

var euMembers = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
}

// ServiceKeywords mark a line description as a service.
var ServiceKeywords = []string{"servic", "consultan", "licens", "support", "maintenance", "consulting"}

// IsEUMember reports whether code is an EU member state.
func IsEUMember(code string) bool {
	_, ok := euMembers[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Classify returns the document type for inv. First match wins:
// intra-EU customer, San Marino services, San Marino goods, domestic.
func Classify(inv *model.Invoice) model.DocumentType {
	if inv == nil {
		return model.DocumentTypeDomestic
	}

	customer := PartyCountry(inv.Customer)
	supplier := PartyCountry(inv.Supplier)

	if customer != "" && customer != DomesticCountry && customer != MicroState && IsEUMember(customer) {
		return model.DocumentTypeIntraEU
	}

	microState := customer == MicroState || supplier == MicroState
	if microState && HasServiceLines(inv.LineItems) {
		return model.DocumentTypeMicroStateService
	}
	if microState {
		return model.DocumentTypeMicroStateGoods
	}
	return model.DocumentTypeDomestic
}

// PartyCountry returns the upper-cased address country of p, or the
// two-letter prefix of its VAT id when the address has none.
func PartyCountry(p model.Party) string {
	if c := strings.ToUpper(strings.TrimSpace(field.String(p.Address.Country))); c != "" {
		return c
	}
	for _, id := range []model.Text{p.VATID, p.ForeignVATID} {
		if prefix := vatPrefix(field.String(id)); prefix != "" {
			return prefix
		}
	}
	return ""
}

func vatPrefix(vat string) string {
	vat = strings.TrimSpace(vat)
	if len(vat) < 3 {
		return ""
	}
	prefix := strings.ToUpper(vat[:2])
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return prefix
}

// HasServiceLines reports whether any line description contains a service keyword.
func HasServiceLines(items []model.LineItem) bool {
	caser := cases.Fold()
	for _, item := range items {
		desc := caser.String(field.String(item.Description))
		if desc == "" {
			continue
		}
		for _, kw := range ServiceKeywords {
			if strings.Contains(desc, kw) {
				return true
			}
		}
	}
	return false
}
