package model

// RequestSample pairs an endpoint with the sample request synthesized for it
type RequestSample struct {
	Endpoint *EndpointDescriptor
	Request  *GeneratedRequest
}

// Report is the full analysis result handed to the exporters. Assembled once
// after the pipeline finishes and read-only from then on.
type Report struct {
	Summary     *Summary
	Controllers []ControllerDescriptor
	Endpoints   []EndpointDescriptor
	Catalog     *TypeCatalog
	Warnings    []Warning
	Samples     []RequestSample

	// Environment the samples were synthesized against, nil when none
	Environment *Environment
}
