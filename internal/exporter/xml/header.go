package xml

import (
	"regexp"

	"github.com/beevik/etree"

	money "github.com/rezonia/fatturapa-exporter/internal/decimal"
	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Issuer code for documents emitted by a third party on the supplier's behalf.
const issuerThirdParty = "TZ"

var taxRegimePattern = regexp.MustCompile(`^RF\d{2}$`)

func (b *builder) header(h *etree.Element) {
	b.transmission(h.CreateElement("DatiTrasmissione"))
	b.supplier(h.CreateElement("CedentePrestatore"))
	if b.inv.TaxRepresentative.Name.IsPresent() {
		b.representative(h.CreateElement("RappresentanteFiscale"))
	}
	b.customer(h.CreateElement("CessionarioCommittente"))
	if b.inv.Intermediary.Name.IsPresent() {
		b.intermediary(h)
	}
}

func (b *builder) country() string {
	return field.StringOr(b.inv.CountryCode, defaultCountry)
}

func (b *builder) transmission(dt *etree.Element) {
	inv := b.inv

	id := dt.CreateElement("IdTrasmittente")
	b.leaf(id, "IdPaese", inv.CountryCode, b.country())
	code := defaultSenderCode
	if vat, ok := inv.Supplier.VATID.Get(); ok {
		_, code = splitVAT(vat, b.country())
	}
	b.leaf(id, "IdCodice", inv.Supplier.VATID, code)

	b.add(dt, "ProgressivoInvio", "1")
	b.text(dt, "FormatoTrasmissione", inv.TransmissionFormat, defaultTransmissionFormat)
	b.add(dt, "CodiceDestinatario", defaultRecipientCode)
	b.optional(dt, "PECDestinatario", inv.Customer.PEC)
}

func (b *builder) supplier(el *etree.Element) {
	s := b.inv.Supplier

	da := el.CreateElement("DatiAnagrafici")
	b.fiscalID(da, s.VATID, b.country())
	b.optional(da, "CodiceFiscale", s.TaxID)
	b.registry(da, s)
	regime := defaultTaxRegime
	if lf, ok := s.LegalForm.Get(); ok && taxRegimePattern.MatchString(lf) {
		regime = lf
	}
	b.leaf(da, "RegimeFiscale", s.LegalForm, regime)

	b.address(el.CreateElement("Sede"), s.Address)

	if s.REAOffice.IsPresent() {
		rea := el.CreateElement("IscrizioneREA")
		b.text(rea, "Ufficio", s.REAOffice, "")
		b.text(rea, "NumeroREA", s.REANumber, "")
		b.optionalAmount(rea, "CapitaleSociale", s.ShareCapital)
		b.optional(rea, "StatoLiquidazione", s.CompanyStatus)
	}

	if field.AnyPresent(s.Phone, s.Email) {
		c := el.CreateElement("Contatti")
		b.optional(c, "Telefono", s.Phone)
		b.optional(c, "Email", s.Email)
	}

	b.optional(el, "RiferimentoAmministrazione", b.inv.AdministrativeReference)
}

func (b *builder) representative(el *etree.Element) {
	r := b.inv.TaxRepresentative

	da := el.CreateElement("DatiAnagrafici")
	b.fiscalID(da, r.VATID, defaultCountry)
	b.optional(da, "CodiceFiscale", r.TaxID)
	b.registry(da, r)
}

func (b *builder) customer(el *etree.Element) {
	c := b.inv.Customer

	da := el.CreateElement("DatiAnagrafici")
	if c.VATID.IsPresent() {
		b.fiscalID(da, c.VATID, field.StringOr(c.Address.Country, defaultCountry))
	}
	b.optional(da, "CodiceFiscale", c.TaxID)
	b.registry(da, c)

	b.address(el.CreateElement("Sede"), c.Address)
}

func (b *builder) intermediary(h *etree.Element) {
	p := b.inv.Intermediary

	el := h.CreateElement("TerzoIntermediarioOSoggettoEmittente")
	da := el.CreateElement("DatiAnagrafici")
	if p.VATID.IsPresent() {
		b.fiscalID(da, p.VATID, defaultCountry)
	}
	b.optional(da, "CodiceFiscale", p.TaxID)
	b.registry(da, p)

	b.add(h, "SoggettoEmittente", issuerThirdParty)
}

// fiscalID writes IdFiscaleIVA, preferring the country prefix of the VAT number.
func (b *builder) fiscalID(parent *etree.Element, vat model.Text, fallback string) {
	country, code := splitVAT(vat.Or(""), fallback)
	id := parent.CreateElement("IdFiscaleIVA")
	b.add(id, "IdPaese", country)
	b.leaf(id, "IdCodice", vat, code)
}

func (b *builder) registry(parent *etree.Element, p model.Party) {
	a := parent.CreateElement("Anagrafica")
	b.text(a, "Denominazione", p.Name, "")
}

func (b *builder) address(el *etree.Element, a model.Address) {
	b.text(el, "Indirizzo", a.Street, "")
	b.optional(el, "NumeroCivico", a.StreetNumber)
	b.text(el, "CAP", a.PostalCode, defaultPostalCode)
	b.text(el, "Comune", a.City, "")
	b.optional(el, "Provincia", a.Province)
	b.text(el, "Nazione", a.Country, defaultCountry)
}

// count renders integral quantities such as line and package numbers.
func count(l model.Amount, def string) string {
	if v, ok := l.Get(); ok {
		return money.Trim(v)
	}
	return def
}
