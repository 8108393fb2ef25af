package model

import (
	"slices"
	"strings"
)

// DocumentType is the TipoDocumento code of a FatturaPA document.
type DocumentType string

const (
	TD01 DocumentType = "TD01"
	TD02 DocumentType = "TD02"
	TD03 DocumentType = "TD03"
	TD04 DocumentType = "TD04"
	TD05 DocumentType = "TD05"
	TD06 DocumentType = "TD06"
	TD16 DocumentType = "TD16"
	TD17 DocumentType = "TD17"
	TD18 DocumentType = "TD18"
	TD19 DocumentType = "TD19"
	TD20 DocumentType = "TD20"
	TD21 DocumentType = "TD21"
	TD22 DocumentType = "TD22"
	TD23 DocumentType = "TD23"
	TD24 DocumentType = "TD24"
	TD25 DocumentType = "TD25"
	TD26 DocumentType = "TD26"
	TD27 DocumentType = "TD27"
)

// Roles the classifier assigns.
const (
	DocumentTypeDomestic          = TD01
	DocumentTypeIntraEU           = TD17
	DocumentTypeMicroStateGoods   = TD18
	DocumentTypeMicroStateService = TD19
)

var documentTypes = map[DocumentType]string{
	TD01: "Fattura",
	TD02: "Acconto/anticipo su fattura",
	TD03: "Acconto/anticipo su parcella",
	TD04: "Nota di credito",
	TD05: "Nota di debito",
	TD06: "Parcella",
	TD16: "Integrazione fattura reverse charge interno",
	TD17: "Integrazione/autofattura per acquisto servizi dall'estero",
	TD18: "Integrazione per acquisto di beni intracomunitari",
	TD19: "Integrazione/autofattura per acquisto di beni ex art.17 c.2 DPR 633/72",
	TD20: "Autofattura per regolarizzazione e integrazione delle fatture",
	TD21: "Autofattura per splafonamento",
	TD22: "Estrazione beni da Deposito IVA",
	TD23: "Estrazione beni da Deposito IVA con versamento dell'IVA",
	TD24: "Fattura differita di cui all'art. 21, comma 4, lett. a)",
	TD25: "Fattura differita di cui all'art. 21, comma 4, terzo periodo lett. b)",
	TD26: "Cessione di beni ammortizzabili e per passaggi interni",
	TD27: "Fattura per autoconsumo o per cessioni gratuite senza rivalsa",
}

// Valid reports whether d is a known document type.
func (d DocumentType) Valid() bool {
	_, ok := documentTypes[d]
	return ok
}

// Description returns the official Italian label, or "" for unknown codes.
func (d DocumentType) Description() string {
	return documentTypes[d]
}

// NatureCode explains why a line or summary row carries no VAT.
type NatureCode string

const (
	N1  NatureCode = "N1"
	N2  NatureCode = "N2"
	N21 NatureCode = "N2.1"
	N22 NatureCode = "N2.2"
	N3  NatureCode = "N3"
	N31 NatureCode = "N3.1"
	N32 NatureCode = "N3.2"
	N33 NatureCode = "N3.3"
	N34 NatureCode = "N3.4"
	N35 NatureCode = "N3.5"
	N36 NatureCode = "N3.6"
	N4  NatureCode = "N4"
	N5  NatureCode = "N5"
	N6  NatureCode = "N6"
	N61 NatureCode = "N6.1"
	N62 NatureCode = "N6.2"
	N63 NatureCode = "N6.3"
	N64 NatureCode = "N6.4"
	N65 NatureCode = "N6.5"
	N66 NatureCode = "N6.6"
	N67 NatureCode = "N6.7"
	N68 NatureCode = "N6.8"
	N69 NatureCode = "N6.9"
	N7  NatureCode = "N7"
)

var natureCodes = map[NatureCode]string{
	N1:  "Escluse ex art. 15",
	N2:  "Non soggette",
	N21: "Non soggette ad IVA ai sensi degli artt. da 7 a 7-septies del DPR 633/72",
	N22: "Non soggette - altri casi",
	N3:  "Non imponibili",
	N31: "Non imponibili - esportazioni",
	N32: "Non imponibili - cessioni intracomunitarie",
	N33: "Non imponibili - cessioni verso San Marino",
	N34: "Non imponibili - operazioni assimilate alle cessioni all'esportazione",
	N35: "Non imponibili - a seguito di dichiarazioni d'intento",
	N36: "Non imponibili - altre operazioni che non concorrono alla formazione del plafond",
	N4:  "Esenti",
	N5:  "Regime del margine / IVA non esposta in fattura",
	N6:  "Inversione contabile",
	N61: "Inversione contabile - cessione di rottami e altri materiali di recupero",
	N62: "Inversione contabile - cessione di oro e argento",
	N63: "Inversione contabile - subappalto nel settore edile",
	N64: "Inversione contabile - cessione di fabbricati",
	N65: "Inversione contabile - cessione di telefoni cellulari",
	N66: "Inversione contabile - cessione di prodotti elettronici",
	N67: "Inversione contabile - prestazioni comparto edile e settori connessi",
	N68: "Inversione contabile - operazioni settore energetico",
	N69: "Inversione contabile - altri casi",
	N7:  "IVA assolta in altro stato UE",
}

func (n NatureCode) Valid() bool {
	_, ok := natureCodes[n]
	return ok
}

func (n NatureCode) Description() string {
	return natureCodes[n]
}

// PaymentCondition is the CondizioniPagamento code.
type PaymentCondition string

const (
	TP01 PaymentCondition = "TP01" // installments
	TP02 PaymentCondition = "TP02" // full payment
	TP03 PaymentCondition = "TP03" // advance
)

var paymentConditions = map[PaymentCondition]string{
	TP01: "Pagamento a rate",
	TP02: "Pagamento completo",
	TP03: "Anticipo",
}

func (p PaymentCondition) Valid() bool {
	_, ok := paymentConditions[p]
	return ok
}

func (p PaymentCondition) Description() string {
	return paymentConditions[p]
}

// PaymentMethod is the ModalitaPagamento code.
type PaymentMethod string

const (
	MP01 PaymentMethod = "MP01"
	MP02 PaymentMethod = "MP02"
	MP03 PaymentMethod = "MP03"
	MP04 PaymentMethod = "MP04"
	MP05 PaymentMethod = "MP05"
	MP06 PaymentMethod = "MP06"
	MP07 PaymentMethod = "MP07"
	MP08 PaymentMethod = "MP08"
	MP09 PaymentMethod = "MP09"
	MP10 PaymentMethod = "MP10"
	MP11 PaymentMethod = "MP11"
	MP12 PaymentMethod = "MP12"
	MP13 PaymentMethod = "MP13"
	MP14 PaymentMethod = "MP14"
	MP15 PaymentMethod = "MP15"
	MP16 PaymentMethod = "MP16"
	MP17 PaymentMethod = "MP17"
	MP18 PaymentMethod = "MP18"
	MP19 PaymentMethod = "MP19"
	MP20 PaymentMethod = "MP20"
	MP21 PaymentMethod = "MP21"
	MP22 PaymentMethod = "MP22"
	MP23 PaymentMethod = "MP23"
)

var paymentMethods = map[PaymentMethod]string{
	MP01: "Contanti",
	MP02: "Assegno",
	MP03: "Assegno circolare",
	MP04: "Contanti presso Tesoreria",
	MP05: "Bonifico",
	MP06: "Vaglia cambiario",
	MP07: "Bollettino bancario",
	MP08: "Carta di pagamento",
	MP09: "RID",
	MP10: "RID utenze",
	MP11: "RID veloce",
	MP12: "RIBA",
	MP13: "MAV",
	MP14: "Quietanza erario",
	MP15: "Giroconto su conti di contabilità speciale",
	MP16: "Domiciliazione bancaria",
	MP17: "Domiciliazione postale",
	MP18: "Bollettino di c/c postale",
	MP19: "SEPA Direct Debit",
	MP20: "SEPA Direct Debit CORE",
	MP21: "SEPA Direct Debit B2B",
	MP22: "Trattenuta su somme già riscosse",
	MP23: "PagoPA",
}

func (p PaymentMethod) Valid() bool {
	_, ok := paymentMethods[p]
	return ok
}

func (p PaymentMethod) Description() string {
	return paymentMethods[p]
}

// CodeEntry is one row of a code table.
type CodeEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CodeTables returns every code table keyed by table name, each sorted by code.
func CodeTables() map[string][]CodeEntry {
	return map[string][]CodeEntry{
		"document_types":     entries(documentTypes),
		"nature_codes":       entries(natureCodes),
		"payment_conditions": entries(paymentConditions),
		"payment_methods":    entries(paymentMethods),
	}
}

func entries[K ~string](table map[K]string) []CodeEntry {
	out := make([]CodeEntry, 0, len(table))
	for code, desc := range table {
		out = append(out, CodeEntry{Code: string(code), Description: desc})
	}
	slices.SortFunc(out, func(a, b CodeEntry) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out
}
