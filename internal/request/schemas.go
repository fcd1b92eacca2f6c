package request

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBase = "https://coinlog.local/schemas/"

const transactionSchema = `{
  "type": "object",
  "required": ["amount"],
  "properties": {
    "amount": {"type": "integer", "minimum": 1, "maximum": %d}
  },
  "additionalProperties": false
}`

const snapshotSchema = `{
  "type": "object",
  "required": ["player_id"],
  "properties": {
    "player_id": {"type": ["string", "integer"], "minLength": 1}
  }
}`

const profileProps = `{
    "username": {"type": "string", "minLength": 1, "maxLength": 64},
    "email": {"type": "string", "format": "email"},
    "age": {"type": "integer", "minimum": 0, "maximum": 150},
    "gold_trophies": {"type": "integer", "minimum": 0},
    "silver_trophies": {"type": "integer", "minimum": 0},
    "bronze_trophies": {"type": "integer", "minimum": 0}
  }`

var profileCreateSchema = `{
  "type": "object",
  "required": ["username", "email", "age"],
  "properties": ` + profileProps + `,
  "additionalProperties": false
}`

var profileUpdateSchema = `{
  "type": "object",
  "minProperties": 1,
  "properties": ` + profileProps + `,
  "additionalProperties": false
}`

func compile(name, schema string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	url := schemaBase + name + ".schema.json"
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("%s schema load failed: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%s schema compile failed: %w", name, err)
	}
	return s, nil
}
