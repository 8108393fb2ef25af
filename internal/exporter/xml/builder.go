package xml

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/fatturapa-exporter/internal/decimal"
	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Defaults for required elements the extraction commonly misses.
const (
	defaultTransmissionFormat = "FPR12"
	defaultCountry            = "IT"
	defaultCurrency           = "EUR"
	defaultSenderCode         = "00000000000"
	defaultRecipientCode      = "0000000"
	defaultPostalCode         = "00000"
	defaultTaxRegime          = "RF01"
	defaultArticleCodeType    = "INTERNO"
)

// builder assembles one document. Text is escaped by etree on write.
type builder struct {
	inv  *model.Invoice
	opts Options
	now  time.Time
}

func (b *builder) transmissionFormat() string {
	return field.StringOr(b.inv.TransmissionFormat, defaultTransmissionFormat)
}

func (b *builder) add(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(text)
	return el
}

// leaf appends an element whose content came from l.
func (b *builder) leaf(parent *etree.Element, tag string, l model.Leaf, text string) *etree.Element {
	if b.opts.IncludeConfidenceData && field.Present(l) {
		parent.CreateComment(fmt.Sprintf(" confidence %s=%.2f ", tag, l.Score()))
	}
	return b.add(parent, tag, text)
}

func (b *builder) text(parent *etree.Element, tag string, l model.Leaf, def string) {
	b.leaf(parent, tag, l, field.StringOr(l, def))
}

func (b *builder) optional(parent *etree.Element, tag string, l model.Leaf) {
	if field.Present(l) {
		b.leaf(parent, tag, l, field.String(l))
	}
}

func (b *builder) amount(parent *etree.Element, tag string, l model.Amount) {
	b.leaf(parent, tag, l, money.Format(field.Unwrap(l)))
}

func (b *builder) optionalAmount(parent *etree.Element, tag string, l model.Amount) {
	if l.IsPresent() {
		b.amount(parent, tag, l)
	}
}

func (b *builder) date(parent *etree.Element, tag string, l model.Text) {
	b.leaf(parent, tag, l, field.DateOrNow(l.Or(""), b.now))
}

func (b *builder) optionalDate(parent *etree.Element, tag string, l model.Text) {
	if l.IsPresent() {
		b.date(parent, tag, l)
	}
}

// splitVAT separates a leading ISO country prefix from a VAT number.
func splitVAT(vat, fallback string) (country, code string) {
	vat = strings.ReplaceAll(strings.TrimSpace(vat), " ", "")
	if len(vat) > 2 && isLetter(vat[0]) && isLetter(vat[1]) {
		return strings.ToUpper(vat[:2]), vat[2:]
	}
	return fallback, vat
}

func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

// chunks splits s into pieces of at most n runes.
func chunks(s string, n int) []string {
	r := []rune(s)
	var out []string
	for len(r) > n {
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

func positive(l model.Amount) bool {
	v, ok := l.Get()
	return ok && v.GreaterThan(decimal.Zero)
}
