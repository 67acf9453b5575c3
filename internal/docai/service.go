// Package docai sends local PDFs to Google Cloud Document AI for OCR.
//
// The client talks to the regional endpoint derived from the location
// (e.g. "eu" routes to eu-documentai.googleapis.com) and issues exactly one
// synchronous ProcessDocument call per document. There is no retry; every
// service error is classified and returned to the caller.
//
// Configuration:
//   - CredentialsFile: service account JSON, passed to the client explicitly
//   - ProjectID, Location, ProcessorID: identify the processor
//
// Document AI online processing limits:
//   - Maximum file size: 20MB
//   - Page limits depend on the processor; restrict pages to stay under them
package docai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// Processor is the remote OCR boundary. Implementations return the structured
// document for pdf, restricted to pages when pages is non-empty.
type Processor interface {
	Process(ctx context.Context, pdf []byte, pages []int) (*documentaipb.Document, error)
	Close() error
}

// Config identifies the processor and the credentials used to reach it.
type Config struct {
	// CredentialsFile is the path to a service account JSON file. When empty,
	// Application Default Credentials are used.
	CredentialsFile string

	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	// It must match where the processor was created.
	Location string

	// ProcessorID is the Document AI processor ID.
	ProcessorID string
}

// Endpoint returns the regional API endpoint for the location.
func (c Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// ProcessorName returns the full resource name of the processor.
func (c Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}
