package schema

//go:generate go run ../tools/schema-generator -out ../hydrate.schema.json

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/grovetools/hydrate/config"
	"github.com/invopop/jsonschema"
)

// Compose returns the schema for a full configuration document. Extension
// sections are strict; unknown top-level keys are still allowed so other
// tools can share the file.
func Compose() ([]byte, error) {
	base, err := config.GenerateSchema()
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return nil, fmt.Errorf("could not parse base schema: %w", err)
	}

	props, _ := doc["properties"].(map[string]interface{})
	if props == nil {
		props = make(map[string]interface{})
		doc["properties"] = props
	}

	keys := make([]string, 0, len(Extensions))
	for key := range Extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ext, err := reflectExtension(Extensions[key])
		if err != nil {
			return nil, fmt.Errorf("could not reflect %q extension: %w", key, err)
		}
		props[key] = ext
	}

	doc["description"] = "Schema for hydrate.yml / hydrate.toml, including extension sections."
	return json.MarshalIndent(doc, "", "  ")
}

func reflectExtension(v interface{}) (map[string]interface{}, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:              "yaml",
	}
	data, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out, nil
}
