package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/fbenoist/calrooms/internal/logging"
)

// anyType is the type used for parameters declared without a type.
var anyType = reflect.TypeOf((*any)(nil)).Elem()

type jsonNull struct{}

// Null marks a parameter as optional without a concrete default value. The
// derived schema carries "default": null for it.
var Null any = jsonNull{}

// emptyObjectSchema is the canonical schema for callables with no parameters.
func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []any{},
	}
}

// deriveSchema produces the input schema for a parameter list. The primary
// path models the parameters as a dynamic struct and reflects a full JSON
// Schema from it; when that fails the basic type mapping takes over. This
// function never fails.
func (r *Registry) deriveSchema(action string, params []Param, logger *slog.Logger) map[string]any {
	if len(params) == 0 {
		return emptyObjectSchema()
	}

	schema, err := reflectSchema(params)
	if err != nil {
		logger.Warn("schema reflection failed, falling back to basic type mapping", logging.Err(err))
		if r.onFallback != nil {
			r.onFallback(action)
		}
		return basicSchema(params, logger)
	}
	return schema
}

// reflectSchema builds a struct type from the parameter declarations and
// reflects a JSON Schema document from it. Parameters with a default become
// optional; the rest are required in declaration order.
func reflectSchema(params []Param) (schema map[string]any, err error) {
	// reflect.StructOf panics on declarations it cannot express; surface
	// that as an error so the caller can fall back.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("schema model construction panicked: %v", p)
		}
	}()

	fields := make([]reflect.StructField, 0, len(params))
	for i, p := range params {
		typ := p.Type
		if typ == nil {
			typ = anyType
		}
		if err := checkModelable(typ, nil); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}

		tag := p.Name
		if p.Default != nil {
			tag += ",omitempty"
		}
		fields = append(fields, reflect.StructField{
			Name: fmt.Sprintf("Field%d", i),
			Type: typ,
			Tag:  reflect.StructTag(fmt.Sprintf(`json:%q`, tag)),
		})
	}

	// ExpandedStruct must stay off: the reflector nil-panics with it on the
	// unnamed type reflect.StructOf returns.
	reflector := &jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	model := reflector.ReflectFromType(reflect.StructOf(fields))

	raw, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema model: %w", err)
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("decoding schema model: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")

	// The modeler omits empty collections; restore the canonical shape.
	if _, ok := schema["properties"]; !ok {
		schema["properties"] = map[string]any{}
	}
	if _, ok := schema["required"]; !ok {
		schema["required"] = []any{}
	}
	if _, ok := schema["type"]; !ok {
		schema["type"] = "object"
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range params {
			if p.Default == nil {
				continue
			}
			if prop, ok := props[p.Name].(map[string]any); ok {
				if p.Default == Null {
					prop["default"] = nil
				} else {
					prop["default"] = p.Default
				}
			}
		}
	}

	return schema, nil
}

// checkModelable rejects types that have no JSON Schema representation
// before they reach the reflector, which would otherwise panic or emit an
// unusable document.
func checkModelable(t reflect.Type, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}

	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer,
		reflect.Complex64, reflect.Complex128, reflect.Uintptr, reflect.Invalid:
		return fmt.Errorf("type %s cannot be modeled as a schema", t.String())
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return checkModelable(t.Elem(), seen)
	case reflect.Map:
		return checkModelable(t.Elem(), seen)
	case reflect.Struct:
		if seen == nil {
			seen = make(map[reflect.Type]bool)
		}
		seen[t] = true
		for i := range t.NumField() {
			if err := checkModelable(t.Field(i).Type, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// basicSchema is the fallback derivation: only parameters with a declared
// type are described, each mapped to a primitive JSON Schema type, and every
// one of them lands in required regardless of any default value. That loses
// optionality but cannot fail.
func basicSchema(params []Param, logger *slog.Logger) map[string]any {
	properties := map[string]any{}
	required := []any{}

	for _, p := range params {
		if p.Type == nil {
			continue
		}
		typ, known := primitiveType(p.Type)
		if !known {
			logger.Warn("unknown parameter type, defaulting to string",
				logging.Param(p.Name), "type", p.Type.String())
		}
		properties[p.Name] = map[string]any{"type": typ}
		required = append(required, p.Name)
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// primitiveType maps a Go type to a primitive JSON Schema type name. The
// second return value reports whether the mapping was exact; unrecognized
// types degrade to "string".
func primitiveType(t reflect.Type) (string, bool) {
	switch t.Kind() {
	case reflect.String:
		return "string", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer", true
	case reflect.Float32, reflect.Float64:
		return "number", true
	case reflect.Bool:
		return "boolean", true
	case reflect.Map:
		return "object", true
	default:
		return "string", false
	}
}
