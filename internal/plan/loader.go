package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/rigup-dev/rigup/internal/errors"
)

// documentSchema is the persisted-plan contract: runId and actions are
// required, and every action carries the fields apply dispatches on.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["runId", "actions"],
  "properties": {
    "runId": {"type": "string", "minLength": 1},
    "manifest": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "path": {"type": "string"},
        "hash": {"type": "string"}
      }
    },
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "status", "driver", "id", "ref"],
        "properties": {
          "type": {"enum": ["app", "restore", "verify"]},
          "status": {"enum": ["install", "skip", "fail"]},
          "driver": {"type": "string"},
          "id": {"type": "string"},
          "ref": {"type": "string"},
          "reason": {"type": "string"}
        }
      }
    },
    "summary": {
      "type": "object",
      "properties": {
        "install": {"type": "integer"},
        "skip": {"type": "integer"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func planSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile([]byte(documentSchema))
	})
	return compiledSchema, schemaErr
}

// Load reads and validates a persisted plan document. Validation happens
// before any action could run: a plan missing runId or actions is
// rejected here.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeParseError, fmt.Sprintf("cannot read plan: %s", path), err).
			WithRemediation("Check the --plan path, or run 'rigup plan' to create one")
	}

	if !json.Valid(data) {
		return nil, errors.New(errors.CodeParseError, fmt.Sprintf("plan document is not valid JSON: %s", path)).
			WithRemediation("Regenerate the plan with 'rigup plan'")
	}

	schema, err := planSchema()
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "plan schema failed to compile", err)
	}

	result := schema.ValidateJSON(data)
	if !result.IsValid() {
		return nil, errors.New(errors.CodeParseError, fmt.Sprintf("plan document is invalid: %s", path)).
			WithDetail(fmt.Sprintf("%v", result.Errors)).
			WithRemediation("Regenerate the plan with 'rigup plan'")
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.NewParseError(path, err)
	}
	return &p, nil
}

// Save writes a plan document to disk.
func Save(p *Plan, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write plan file: %w", err)
	}
	return nil
}
