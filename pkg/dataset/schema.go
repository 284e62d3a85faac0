package dataset

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/geomkit/pkg/errors"
)

const recordsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "records",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": {"type": ["string", "number", "boolean", "null"]}
  }
}`

const hierarchySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "hierarchy",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "value": {"type": "number"},
    "children": {"type": "array", "items": {"$ref": "#"}}
  }
}`

// maxReported caps the schema errors joined into one message.
const maxReported = 5

// ValidateRecords checks that data is a JSON array of flat objects whose
// values are scalars.
func ValidateRecords(data []byte) error {
	return validate(recordsSchema, data)
}

// ValidateHierarchy checks that data is a JSON tree of named nodes with
// numeric values.
func ValidateHierarchy(data []byte) error {
	return validate(hierarchySchema, data)
}

func validate(schema string, data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse document")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, maxReported)
	for i, e := range result.Errors() {
		if i == maxReported {
			msgs = append(msgs, "...")
			break
		}
		msgs = append(msgs, e.String())
	}
	return errors.New(errors.ErrCodeInvalidData, "schema validation failed: %s", strings.Join(msgs, "; "))
}
