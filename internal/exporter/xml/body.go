package xml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/fatturapa-exporter/internal/decimal"
	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Length limits of free-text elements.
const (
	maxCausaleLen   = 200
	maxNormativeLen = 100
)

// Reference blocks in schema order.
const (
	blockOrder     = "DatiOrdineAcquisto"
	blockContract  = "DatiContratto"
	blockAgreement = "DatiConvenzione"
	blockReceipt   = "DatiRicezione"
	blockInvoice   = "DatiFattureCollegate"
)

var referenceBlocks = []string{blockOrder, blockContract, blockAgreement, blockReceipt, blockInvoice}

// Reference id used when only tender or project codes were extracted.
const unknownDocumentID = "ND"

func (b *builder) body(el *etree.Element) {
	inv := b.inv

	b.generalData(el.CreateElement("DatiGenerali"))

	goods := el.CreateElement("DatiBeniServizi")
	for i, li := range inv.LineItems {
		b.line(goods, i, li)
	}
	for _, td := range inv.TaxDetails {
		b.summary(goods, td)
	}

	// A single payment block is rendered; further terms are only exported to JSON.
	if len(inv.PaymentTerms) > 0 {
		b.payment(el.CreateElement("DatiPagamento"), inv.PaymentTerms[0])
	}

	b.attachments(el)
}

func (b *builder) generalData(g *etree.Element) {
	inv := b.inv

	doc := g.CreateElement("DatiGeneraliDocumento")
	b.text(doc, "TipoDocumento", inv.DocumentTypeCode, string(model.DocumentTypeDomestic))
	b.text(doc, "Divisa", inv.Currency.CurrencyCode, defaultCurrency)
	b.date(doc, "Data", inv.IssueDate)
	b.text(doc, "Numero", inv.InvoiceNumber, "")

	for _, wt := range inv.WithholdingTaxes {
		if wt.Amount.IsPresent() {
			b.withholding(doc, wt)
		}
	}
	if inv.StampDutyAmount.IsPresent() {
		bollo := doc.CreateElement("DatiBollo")
		b.add(bollo, "BolloVirtuale", "SI")
		b.amount(bollo, "ImportoBollo", inv.StampDutyAmount)
	}
	switch {
	case inv.TotalAmount.IsPresent():
		b.amount(doc, "ImportoTotaleDocumento", inv.TotalAmount)
	case inv.TaxableAmount.IsPresent():
		b.amount(doc, "ImportoTotaleDocumento", inv.TaxableAmount)
	}
	b.optionalAmount(doc, "Arrotondamento", inv.RoundingAmount)
	for _, part := range chunks(inv.GeneralNotes.Or(""), maxCausaleLen) {
		b.leaf(doc, "Causale", inv.GeneralNotes, part)
	}

	b.references(g)

	if t := inv.Transportation; t != nil {
		if t.TransportDocumentNumber.IsPresent() {
			ddt := g.CreateElement("DatiDDT")
			b.leaf(ddt, "NumeroDDT", t.TransportDocumentNumber, t.TransportDocumentNumber.Or(""))
			b.date(ddt, "DataDDT", t.TransportDocumentDate)
		}
		b.transport(g, t)
	}
}

func (b *builder) withholding(parent *etree.Element, wt model.WithholdingTax) {
	el := parent.CreateElement("DatiRitenuta")
	b.text(el, "TipoRitenuta", wt.WithholdingType, "RT01")
	b.amount(el, "ImportoRitenuta", wt.Amount)
	b.amount(el, "AliquotaRitenuta", wt.Rate)
	b.text(el, "CausalePagamento", wt.Description, "A")
}

// referenceBlock maps the extracted document kind onto its FatturaPA block.
func referenceBlock(kind string) string {
	kind = strings.ToLower(kind)
	switch {
	case strings.Contains(kind, "contract"), strings.Contains(kind, "contratt"):
		return blockContract
	case strings.Contains(kind, "agreement"), strings.Contains(kind, "convenzion"):
		return blockAgreement
	case strings.Contains(kind, "receipt"), strings.Contains(kind, "ricezion"):
		return blockReceipt
	case strings.Contains(kind, "invoice"), strings.Contains(kind, "fattur"):
		return blockInvoice
	}
	return blockOrder
}

func (b *builder) references(g *etree.Element) {
	for _, block := range referenceBlocks {
		for _, ref := range b.inv.ReferenceDocuments {
			if !field.AnyPresent(ref.DocumentNumber, ref.CIG, ref.CUP, ref.OfficeCode) {
				continue
			}
			if referenceBlock(ref.DocumentType.Or("")) != block {
				continue
			}

			el := g.CreateElement(block)
			if ref.LineReference.IsPresent() {
				b.leaf(el, "RiferimentoNumeroLinea", ref.LineReference, count(ref.LineReference, ""))
			}
			b.text(el, "IdDocumento", ref.DocumentNumber, unknownDocumentID)
			b.optionalDate(el, "Data", ref.DocumentDate)
			b.optional(el, "CodiceCommessaConvenzione", ref.OfficeCode)
			b.optional(el, "CodiceCUP", ref.CUP)
			b.optional(el, "CodiceCIG", ref.CIG)
		}
	}
}

func (b *builder) transport(g *etree.Element, t *model.Transportation) {
	addr := t.DeliveryAddress
	if !field.AnyPresent(t.CarrierName, t.TransportMethod, t.TransportReason, t.NumberOfPackages,
		t.PackageDescription, t.GrossWeight, t.NetWeight, t.TransportDate, t.DeliveryTerms,
		addr.Street, addr.City) {
		return
	}

	el := g.CreateElement("DatiTrasporto")
	if t.CarrierName.IsPresent() {
		carrier := el.CreateElement("DatiAnagraficiVettore")
		if t.CarrierVATID.IsPresent() {
			b.fiscalID(carrier, t.CarrierVATID, defaultCountry)
		}
		a := carrier.CreateElement("Anagrafica")
		b.text(a, "Denominazione", t.CarrierName, "")
	}
	b.optional(el, "MezzoTrasporto", t.TransportMethod)
	b.optional(el, "CausaleTrasporto", t.TransportReason)
	if t.NumberOfPackages.IsPresent() {
		b.leaf(el, "NumeroColli", t.NumberOfPackages, count(t.NumberOfPackages, ""))
	}
	b.optional(el, "Descrizione", t.PackageDescription)
	if field.AnyPresent(t.GrossWeight, t.NetWeight) {
		b.add(el, "UnitaMisuraPeso", "KG")
		b.optionalAmount(el, "PesoLordo", t.GrossWeight)
		b.optionalAmount(el, "PesoNetto", t.NetWeight)
	}
	b.optionalDate(el, "DataInizioTrasporto", t.TransportDate)
	b.optional(el, "TipoResa", t.DeliveryTerms)
	if field.AnyPresent(addr.Street, addr.City) {
		b.address(el.CreateElement("IndirizzoResa"), addr)
	}
}

func (b *builder) line(parent *etree.Element, i int, li model.LineItem) {
	el := parent.CreateElement("DettaglioLinee")

	b.leaf(el, "NumeroLinea", li.LineNumber, count(li.LineNumber, strconv.Itoa(i+1)))
	if li.ProductCode.IsPresent() {
		code := el.CreateElement("CodiceArticolo")
		b.text(code, "CodiceTipo", li.ProductCodeType, defaultArticleCodeType)
		b.text(code, "CodiceValore", li.ProductCode, "")
	}
	b.text(el, "Descrizione", li.Description, "")
	b.leaf(el, "Quantita", li.Quantity, money.Format(li.Quantity.Or(decimal.NewFromInt(1))))
	b.optional(el, "UnitaMisura", li.UnitOfMeasure)
	b.optionalDate(el, "DataInizioPeriodo", li.StartDate)
	b.optionalDate(el, "DataFinePeriodo", li.EndDate)
	b.amount(el, "PrezzoUnitario", li.UnitPrice)
	b.adjustment(el, "SC", li.DiscountPercentage, li.DiscountAmount)
	b.adjustment(el, "MG", li.MarkupPercentage, li.MarkupAmount)
	b.amount(el, "PrezzoTotale", li.TotalPrice)
	b.amount(el, "AliquotaIVA", li.VATRate)
	if li.WithholdingTax != nil {
		b.add(el, "Ritenuta", "SI")
	}
	b.optional(el, "Natura", li.VATNatureCode)
	b.optional(el, "RiferimentoAmministrazione", li.VATAdministrativeReference)
}

// adjustment writes ScontoMaggiorazione; kind is SC for discounts and MG for markups.
func (b *builder) adjustment(parent *etree.Element, kind string, pct, amt model.Amount) {
	if !positive(pct) && !positive(amt) {
		return
	}
	el := parent.CreateElement("ScontoMaggiorazione")
	b.add(el, "Tipo", kind)
	if positive(pct) {
		b.amount(el, "Percentuale", pct)
	}
	if positive(amt) {
		b.amount(el, "Importo", amt)
	}
}

func (b *builder) summary(parent *etree.Element, td model.TaxDetail) {
	el := parent.CreateElement("DatiRiepilogo")
	b.amount(el, "AliquotaIVA", td.VATRate)
	b.optional(el, "Natura", td.NatureCode)
	b.optionalAmount(el, "Arrotondamento", td.RoundingAmount)
	b.amount(el, "ImponibileImporto", td.TaxableAmount)
	b.amount(el, "Imposta", td.VATAmount)

	for _, ref := range []model.Text{td.NatureDescription, td.AdministrativeReference} {
		if v, ok := ref.Get(); ok {
			b.leaf(el, "RiferimentoNormativo", ref, chunks(v, maxNormativeLen)[0])
			break
		}
	}
}

func (b *builder) payment(el *etree.Element, p model.PaymentTerms) {
	b.text(el, "CondizioniPagamento", p.PaymentConditions, string(model.TP02))

	d := el.CreateElement("DettaglioPagamento")
	b.optional(d, "Beneficiario", p.BeneficiaryName)
	b.text(d, "ModalitaPagamento", p.PaymentMethod, string(model.MP05))
	b.optionalDate(d, "DataScadenzaPagamento", p.DueDate)
	b.amount(d, "ImportoPagamento", p.Amount)
	b.optional(d, "IstitutoFinanziario", p.BankName)
	b.optional(d, "IBAN", p.IBAN)
	b.optional(d, "BIC", p.BIC)
	b.optionalAmount(d, "ScontoPagamentoAnticipato", p.DiscountAmount)
	b.optionalDate(d, "DataLimitePagamentoAnticipato", p.DiscountDate)
	b.optionalAmount(d, "PenalitaPagamentiRitardati", p.PenaltyAmount)
	b.optionalDate(d, "DataDecorrenzaPenale", p.PenaltyDate)
}

func (b *builder) attachments(body *etree.Element) {
	if b.inv.HasAttachments.Or(false) {
		for i, desc := range b.inv.AttachmentDescriptions {
			if !desc.IsPresent() {
				continue
			}
			el := body.CreateElement("Allegati")
			b.add(el, "NomeAttachment", fmt.Sprintf("attachment_%d", i+1))
			b.leaf(el, "DescrizioneAttachment", desc, desc.Or(""))
		}
	}

	for _, f := range b.opts.Attachments {
		el := body.CreateElement("Allegati")
		b.add(el, "NomeAttachment", f.Name)
		if f.Format != "" {
			b.add(el, "FormatoAttachment", f.Format)
		}
		if f.Description != "" {
			b.add(el, "DescrizioneAttachment", f.Description)
		}
		b.add(el, "Attachment", f.Encoded())
	}
}
