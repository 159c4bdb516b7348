package openapi

// EndpointSummary is a compact listing entry.
type EndpointSummary struct {
	Group   string `json:"group"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary"`
	Tag     string `json:"tag"`
}

// EndpointDetail is the full detail for a specific endpoint.
type EndpointDetail struct {
	Group       string            `json:"group"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	OperationID string            `json:"operation_id,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Deprecated  bool              `json:"deprecated,omitempty"`
	Parameters  []ParameterInfo   `json:"parameters,omitempty"`
	RequestBody *SchemaInfo       `json:"request_body,omitempty"`
	Responses   map[string]string `json:"responses,omitempty"`
}

// ParameterInfo describes a single parameter.
type ParameterInfo struct {
	Name        string `json:"name"`
	In          string `json:"in"` // query, path, header
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// SchemaInfo is a simplified schema representation.
type SchemaInfo struct {
	ContentType string         `json:"content_type"`
	Properties  map[string]any `json:"properties,omitempty"`
	Required    []string       `json:"required,omitempty"`
	Example     any            `json:"example,omitempty"`
}

func (d *EndpointDetail) summary() EndpointSummary {
	t := ""
	if len(d.Tags) > 0 {
		t = d.Tags[0]
	}
	return EndpointSummary{
		Group:   d.Group,
		Method:  d.Method,
		Path:    d.Path,
		Summary: d.Summary,
		Tag:     t,
	}
}
