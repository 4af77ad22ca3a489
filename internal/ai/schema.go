package ai

// SchemaType is a JSON value type understood by every provider
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral description of a structured response.
// Providers translate it into their own request format.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Object builds an object schema
func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// ArrayOf builds an array schema
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// String builds a string schema
func String() *Schema { return &Schema{Type: TypeString} }

// Number builds a number schema
func Number() *Schema { return &Schema{Type: TypeNumber} }

// Integer builds an integer schema
func Integer() *Schema { return &Schema{Type: TypeInteger} }

// Describe sets the description and returns the schema
func (s *Schema) Describe(desc string) *Schema {
	s.Description = desc
	return s
}

// JSONSchema renders the schema as a JSON Schema document
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	doc := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		doc["properties"] = props
	}
	if s.Items != nil {
		doc["items"] = s.Items.JSONSchema()
	}
	if len(s.Required) > 0 {
		required := make([]any, len(s.Required))
		for i, r := range s.Required {
			required[i] = r
		}
		doc["required"] = required
	}
	return doc
}
