package processor

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

// Decode checks data against the invoice schema and decodes it
func Decode(data []byte) (*model.Invoice, error) {
	if err := validate.Schema(data); err != nil {
		return nil, err
	}

	var inv model.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, model.NewParseError("json", "", "failed to decode invoice", err)
	}
	return &inv, nil
}

// Split returns the raw invoice documents in data: the elements of a top-level
// array, or data itself when it is a single object.
func Split(data []byte) ([][]byte, error) {
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, model.NewParseError("json", "", "input is not valid JSON", nil)
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsObject():
		return [][]byte{data}, nil
	case root.IsArray():
		var docs [][]byte
		root.ForEach(func(_, value gjson.Result) bool {
			docs = append(docs, []byte(value.Raw))
			return true
		})
		return docs, nil
	}
	return nil, model.NewParseError("json", "", "expected an invoice object or an array of invoices", nil)
}

// DecodeItems decodes every document of data into batch items. Documents
// that fail to decode become items carrying the error.
func DecodeItems(data []byte, source string) ([]Item, error) {
	docs, err := Split(data)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(docs))
	for i, doc := range docs {
		inv, err := Decode(doc)
		items = append(items, Item{
			Source:  sourceName(source, i, len(docs)),
			Invoice: inv,
			Err:     err,
		})
	}
	return items, nil
}

func sourceName(source string, i, n int) string {
	if n == 1 {
		return source
	}
	return source + "#" + strconv.Itoa(i)
}
