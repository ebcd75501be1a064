package signal

import (
	_ "embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/models"
)

//go:embed sample.schema.json
var sampleSchemaJSON string

var sampleSchema = jsonschema.MustCompileString(
	"sample.schema.json",
	sampleSchemaJSON,
)

// ErrMalformedSample is returned for sample documents that do not match the
// sample schema.
var ErrMalformedSample = &apperr.Error{
	Message: "malformed sample",
	Kind:    apperr.KindValidation,
}

// DecodeSample validates a JSON sample document and decodes it.
func DecodeSample(raw []byte) (models.Sample, error) {
	var doc any

	err := json.Unmarshal(raw, &doc)
	if err != nil {
		return models.Sample{}, ErrMalformedSample.Wrap(err)
	}

	err = sampleSchema.Validate(doc)
	if err != nil {
		return models.Sample{}, ErrMalformedSample.Wrap(err)
	}

	var s models.Sample

	err = json.Unmarshal(raw, &s)
	if err != nil {
		return models.Sample{}, ErrMalformedSample.Wrap(err)
	}

	return s, nil
}
