package validate

import (
	_ "embed"
	"errors"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rezonia/fatturapa-exporter/internal/model"
)

//go:embed invoice.schema.json
var invoiceSchema string

const schemaURL = "invoice.schema.json"

var compiled = jsonschema.MustCompileString(schemaURL, invoiceSchema)

// Schema checks the shape of an extracted invoice document before decoding.
// Structural problems come back as *model.ParseError values, one per failing
// location, joined with errors.Join.
func Schema(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.NewParseError("json", "", "malformed document", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return model.NewParseError("json", "", "invoice must be a JSON object", nil)
	}

	err := compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return model.NewParseError("schema", "", "schema check failed", err)
	}

	var errs []error
	for _, leaf := range leaves(ve) {
		location := leaf.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, model.NewParseError("schema", location, leaf.Message, nil))
	}
	return errors.Join(errs...)
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}
