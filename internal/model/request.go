package model

// FileMarker is the value recorded for file-like form fields.
// No binary payload is invented; the transport collaborator decides
// what to attach.
const FileMarker = "<file>"

// FormField is one synthesized form entry, in declaration order
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`

	// True when Value is the file marker rather than real data
	IsFile bool `json:"isFile,omitempty"`
}

// GeneratedRequest is a concrete, ready-to-send request synthesized from an
// EndpointDescriptor. Produced fresh per synthesis call and never mutated;
// a new call produces a new value.
type GeneratedRequest struct {
	// HTTP verb, copied from the endpoint
	Method string `json:"method"`

	// Full URL when an Environment was supplied, otherwise the substituted
	// route template alone
	URL string `json:"url"`

	// Header entries; environment headers merged under endpoint headers
	Headers map[string]string `json:"headers,omitempty"`

	// Query string entries
	Query map[string]string `json:"query,omitempty"`

	// JSON-like body value (map[string]any, slice, or scalar), nil when the
	// endpoint declares no body parameter
	Body any `json:"body,omitempty"`

	// Form entries; empty unless a parameter binds from form data
	FormFields []FormField `json:"formFields,omitempty"`
}

// Environment is owned by an external configuration collaborator and
// consumed read-only here.
type Environment struct {
	Name     string            `mapstructure:"name" json:"name"`
	BaseURL  string            `mapstructure:"base_url" json:"baseUrl"`
	BasePath string            `mapstructure:"base_path" json:"basePath"`
	Headers  map[string]string `mapstructure:"headers" json:"headers,omitempty"`
}
