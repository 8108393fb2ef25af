// Package modeltest provides invoice fixtures for tests.
package modeltest

import (
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Minimal returns the smallest invoice that passes the required-field checks.
func Minimal() *model.Invoice {
	return &model.Invoice{
		InvoiceNumber: model.S("2024/001", 0.98),
		IssueDate:     model.S("2024-03-15", 0.95),
		Supplier: model.Party{
			Name:  model.S("Fornitore S.r.l.", 0.97),
			VATID: model.S("01234567890", 0.9),
			Address: model.Address{
				Street:     model.S("Via Roma", 0.9),
				PostalCode: model.S("20121", 0.9),
				City:       model.S("Milano", 0.9),
				Province:   model.S("MI", 0.9),
				Country:    model.S("IT", 0.9),
			},
		},
		Customer: model.Party{
			Name:  model.S("Cliente S.p.A.", 0.96),
			VATID: model.S("09876543210", 0.9),
			Address: model.Address{
				Street:     model.S("Corso Italia", 0.9),
				PostalCode: model.S("00100", 0.9),
				City:       model.S("Roma", 0.9),
				Country:    model.S("IT", 0.9),
			},
		},
		LineItems: []model.LineItem{
			{
				Description: model.S("Fornitura materiale", 0.93),
				Quantity:    model.D("2", 0.9),
				UnitPrice:   model.D("50", 0.9),
				TotalPrice:  model.D("100", 0.9),
				VATRate:     model.D("22", 0.9),
			},
		},
		TaxDetails: []model.TaxDetail{
			{
				TaxableAmount: model.D("100", 0.9),
				VATRate:       model.D("22", 0.9),
				VATAmount:     model.D("22", 0.9),
			},
		},
		TaxableAmount: model.D("100", 0.9),
		VATAmount:     model.D("22", 0.9),
		TotalAmount:   model.D("122", 0.9),
	}
}

// Full returns an invoice with every optional block populated.
func Full() *model.Invoice {
	inv := Minimal()

	inv.DocumentTypeCode = model.Known(model.TD01, 0.99)
	inv.TransmissionFormat = model.S("FPA12", 0.9)
	inv.CountryCode = model.S("IT", 0.9)
	inv.Currency = model.CurrencyInfo{
		CurrencyCode:     model.S("USD", 0.9),
		ExchangeRate:     model.D("1.0850", 0.8),
		ExchangeRateDate: model.S("14/03/2024", 0.8),
	}

	inv.Supplier.LegalForm = model.S("RF01", 0.8)
	inv.Supplier.TaxID = model.S("RSSMRA80A01F205X", 0.85)
	inv.Supplier.Address.StreetNumber = model.S("10", 0.9)
	inv.Supplier.Phone = model.S("+39 02 1234567", 0.8)
	inv.Supplier.Email = model.S("info@fornitore.it", 0.8)
	inv.Supplier.REAOffice = model.S("MI", 0.8)
	inv.Supplier.REANumber = model.S("1234567", 0.8)
	inv.Supplier.ShareCapital = model.D("10000", 0.7)
	inv.Supplier.CompanyStatus = model.S("LN", 0.7)

	inv.Customer.PEC = model.S("cliente@pec.it", 0.8)
	inv.Customer.TaxID = model.S("09876543210", 0.8)

	inv.TaxRepresentative = model.Party{
		Name:  model.S("Rappresentante Fiscale S.r.l.", 0.8),
		VATID: model.S("11122233344", 0.8),
	}
	inv.Intermediary = model.Party{
		Name:  model.S("Intermediario S.r.l.", 0.8),
		VATID: model.S("55566677788", 0.8),
	}

	inv.LineItems = append(inv.LineItems, model.LineItem{
		LineNumber:         model.D("2", 1),
		Description:        model.S("Consulenza tecnica", 0.9),
		Quantity:           model.D("10", 0.9),
		UnitOfMeasure:      model.S("ore", 0.9),
		UnitPrice:          model.D("80", 0.9),
		DiscountPercentage: model.D("10", 0.8),
		TotalPrice:         model.D("720", 0.9),
		VATRate:            model.D("0", 0.9),
		VATNatureCode:      model.Known(model.N22, 0.8),
		ProductCode:        model.S("CONS-01", 0.8),
		ProductCodeType:    model.S("EAN", 0.8),
		StartDate:          model.S("2024-02-01", 0.8),
		EndDate:            model.S("2024-02-29", 0.8),
		WithholdingTax: &model.WithholdingTax{
			WithholdingType: model.S("RT01", 0.8),
			Rate:            model.D("20", 0.8),
			Amount:          model.D("144", 0.8),
		},
	})
	inv.TaxDetails = append(inv.TaxDetails, model.TaxDetail{
		TaxableAmount:     model.D("720", 0.9),
		VATRate:           model.D("0", 0.9),
		VATAmount:         model.D("0", 0.9),
		NatureCode:        model.Known(model.N22, 0.8),
		NatureDescription: model.S("Art. 1 c. 54-89 L. 190/2014", 0.7),
	})
	inv.WithholdingTaxes = []model.WithholdingTax{
		{
			WithholdingType: model.S("RT01", 0.8),
			TaxableAmount:   model.D("720", 0.8),
			Rate:            model.D("20", 0.8),
			Amount:          model.D("144", 0.8),
			Description:     model.S("A", 0.8),
		},
	}

	inv.TaxableAmount = model.D("820", 0.9)
	inv.VATAmount = model.D("22", 0.9)
	inv.TotalAmount = model.D("842", 0.9)
	inv.WithholdingAmount = model.D("144", 0.8)
	inv.StampDutyAmount = model.D("2", 0.8)

	inv.PaymentTerms = []model.PaymentTerms{
		{
			PaymentConditions: model.Known(model.TP02, 0.9),
			PaymentMethod:     model.Known(model.MP05, 0.9),
			DueDate:           model.S("15/04/2024", 0.9),
			Amount:            model.D("698", 0.9),
			IBAN:              model.S("IT60X0542811101000000123456", 0.9),
			BIC:               model.S("BPMOIT22XXX", 0.8),
			BankName:          model.S("Banca Popolare", 0.8),
			BeneficiaryName:   model.S("Fornitore S.r.l.", 0.8),
		},
		{
			PaymentConditions: model.Known(model.TP01, 0.7),
			PaymentMethod:     model.Known(model.MP01, 0.7),
			DueDate:           model.S("2024-05-15", 0.7),
			Amount:            model.D("144", 0.7),
		},
	}

	inv.ReferenceDocuments = []model.ReferenceDocument{
		{
			DocumentType:   model.S("order", 0.8),
			DocumentNumber: model.S("PO-778", 0.9),
			DocumentDate:   model.S("2024-01-10", 0.8),
			CIG:            model.S("Z1A2B3C4D5", 0.8),
			CUP:            model.S("J11B22000000001", 0.8),
		},
		{
			DocumentType: model.S("order", 0.4),
			CIG:          model.S("ZZZ999", 0.3),
		},
	}

	inv.Transportation = &model.Transportation{
		CarrierName:             model.S("Trasporti Veloci S.r.l.", 0.8),
		CarrierVATID:            model.S("IT99988877766", 0.8),
		TransportMethod:         model.S("Camion", 0.8),
		TransportReason:         model.S("Vendita", 0.8),
		NumberOfPackages:        model.D("3", 0.8),
		GrossWeight:             model.D("120.5", 0.8),
		TransportDate:           model.S("2024-03-14", 0.8),
		TransportDocumentNumber: model.S("DDT-55", 0.8),
		TransportDocumentDate:   model.S("2024-03-14", 0.8),
	}

	inv.HasAttachments = model.B(true, 0.9)
	inv.AttachmentCount = model.D("1", 0.9)
	inv.AttachmentDescriptions = []model.Text{model.S("Timesheet febbraio", 0.8)}

	inv.GeneralNotes = model.S("Fattura relativa a consulenza & fornitura", 0.8)
	inv.IsDigitallySigned = model.B(true, 0.9)
	inv.SignerName = model.S("Mario Rossi", 0.9)
	inv.SignatureDate = model.S("2024-03-15", 0.9)
	inv.ExtractionDate = model.S("2024-03-16T10:00:00Z", 1)
	inv.ProcessingNotes = model.S("second page rotated", 1)

	return inv
}
