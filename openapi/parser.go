package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/olreppe/pyWATS-sub001/internal/logging"
)

// Parse loads an API document from raw bytes and builds an Index. WATS
// servers publish Swagger 2.0; those documents are converted to OpenAPI 3
// first.
func Parse(ctx context.Context, group string, data []byte) (*Index, error) {
	doc, err := load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing api doc for %s: %w", group, err)
	}

	// Validation problems are common in generated documents and do not
	// prevent indexing.
	if err := doc.Validate(ctx); err != nil {
		logging.Debug("api doc validation", zap.String("group", group), zap.Error(err))
	}

	return buildIndex(group, doc), nil
}

func load(data []byte) (*openapi3.T, error) {
	var version struct {
		Swagger string `json:"swagger"`
	}
	if err := json.Unmarshal(data, &version); err == nil && strings.HasPrefix(version.Swagger, "2") {
		var doc2 openapi2.T
		if err := json.Unmarshal(data, &doc2); err != nil {
			return nil, fmt.Errorf("decoding swagger 2.0: %w", err)
		}
		doc, err := openapi2conv.ToV3(&doc2)
		if err != nil {
			return nil, fmt.Errorf("converting swagger 2.0: %w", err)
		}
		return doc, nil
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, err
	}
	if doc.OpenAPI == "" {
		return nil, errors.New("document has no openapi version")
	}
	return doc, nil
}

func buildIndex(group string, doc *openapi3.T) *Index {
	idx := &Index{
		Group:     group,
		Endpoints: make(map[string]map[string]*EndpointDetail),
	}
	if doc.Paths == nil {
		return idx
	}

	for path, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			if op == nil {
				continue
			}

			method = strings.ToUpper(method)

			detail := &EndpointDetail{
				Group:       group,
				Method:      method,
				Path:        path,
				OperationID: op.OperationID,
				Summary:     op.Summary,
				Description: op.Description,
				Tags:        op.Tags,
				Deprecated:  op.Deprecated,
				Responses:   make(map[string]string),
			}

			for _, pRef := range op.Parameters {
				if pRef.Value == nil {
					continue
				}
				p := pRef.Value
				pi := ParameterInfo{
					Name:        p.Name,
					In:          p.In,
					Required:    p.Required,
					Description: p.Description,
				}
				if p.Schema != nil {
					pi.Type = schemaType(p.Schema.Value)
				}
				detail.Parameters = append(detail.Parameters, pi)
			}

			if op.RequestBody != nil && op.RequestBody.Value != nil {
				detail.RequestBody = requestBody(op.RequestBody.Value.Content)
			}

			if op.Responses != nil {
				for code, respRef := range op.Responses.Map() {
					if respRef.Value != nil && respRef.Value.Description != nil {
						detail.Responses[code] = *respRef.Value.Description
					}
				}
			}

			if idx.Endpoints[path] == nil {
				idx.Endpoints[path] = make(map[string]*EndpointDetail)
			}
			idx.Endpoints[path][method] = detail
		}
	}

	return idx
}

// requestBody picks JSON over the other content types WATS declares.
func requestBody(content openapi3.Content) *SchemaInfo {
	ct := ""
	for candidate := range content {
		if strings.Contains(candidate, "json") {
			ct = candidate
			break
		}
		if ct == "" || candidate < ct {
			ct = candidate
		}
	}
	if ct == "" {
		return nil
	}

	si := &SchemaInfo{ContentType: ct}
	mt := content[ct]
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return si
	}
	schema := mt.Schema.Value
	if schema.Items != nil && schema.Items.Value != nil {
		schema = schema.Items.Value
	}
	si.Properties = flattenSchema(schema)
	si.Required = schema.Required
	si.Example = mt.Example
	return si
}

func schemaType(s *openapi3.Schema) string {
	if s == nil {
		return "unknown"
	}
	types := s.Type.Slice()
	if len(types) == 0 {
		return "unknown"
	}
	if types[0] == "array" && s.Items != nil {
		return "array<" + schemaType(s.Items.Value) + ">"
	}
	return types[0]
}

// flattenSchema extracts property names and types from a schema.
func flattenSchema(schema *openapi3.Schema) map[string]any {
	if schema == nil || len(schema.Properties) == 0 {
		return nil
	}

	props := make(map[string]any)
	for name, propRef := range schema.Properties {
		if propRef.Value == nil {
			props[name] = "unknown"
			continue
		}
		p := propRef.Value
		t := schemaType(p)
		if p.Description != "" {
			props[name] = map[string]string{"type": t, "description": p.Description}
		} else {
			props[name] = t
		}
	}
	return props
}
