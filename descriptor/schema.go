package descriptor

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the JSON descriptor format.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	item := r.Reflect(&Descriptor{})
	item.Version = ""

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "plexus descriptors",
		Description: "Agents of a plexus graph",
		Type:        "array",
		Items:       item,
	}
}
