package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// responseSchema describes what the submission endpoint must send back.
// user_id identifies the record the endpoint stored.
const responseSchema = `{
	"type": "object",
	"required": ["user_id"],
	"properties": {
		"user_id": {
			"anyOf": [
				{"type": "string", "minLength": 1},
				{"type": "integer"}
			]
		},
		"status": {"type": "string"}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(responseSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse response schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://submission-response.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add response schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// decodeResponse validates body against the response schema and decodes it.
func decodeResponse(body []byte) (Receipt, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return Receipt{}, &MalformedResponseError{Body: body, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	s, err := schema()
	if err != nil {
		return Receipt{}, err
	}
	if err := s.Validate(parsed); err != nil {
		return Receipt{}, &MalformedResponseError{Body: body, Err: err}
	}

	obj := parsed.(map[string]any)
	receipt := Receipt{}
	switch id := obj["user_id"].(type) {
	case string:
		receipt.UserID = id
	case json.Number:
		receipt.UserID = id.String()
	}
	if status, ok := obj["status"].(string); ok {
		receipt.Status = status
	}
	return receipt, nil
}
