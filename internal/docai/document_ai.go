package docai

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docaiocr/internal/logger"
)

// PDFMimeType is the MIME type sent with every raw document.
const PDFMimeType = "application/pdf"

// documentProcessor is the subset of the generated client used here.
type documentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// Client implements Processor using Google Document AI.
type Client struct {
	client documentProcessor
	config Config
	log    zerolog.Logger
}

// NewClient creates a Document AI client routed to the regional endpoint for
// config.Location, authenticating with config.CredentialsFile.
func NewClient(ctx context.Context, config Config) (*Client, error) {
	const op = "NewClient"

	if config.Location == "" {
		config.Location = "us"
	}

	clientOptions := []option.ClientOption{option.WithEndpoint(config.Endpoint())}
	if config.CredentialsFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		return nil, WrapProcessingError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return newClient(config, client), nil
}

func newClient(config Config, client documentProcessor) *Client {
	return &Client{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// BuildRequest constructs the ProcessRequest for pdf. A page selector is only
// attached when pages is non-empty; page numbers are 1-indexed as given.
func (c *Client) BuildRequest(pdf []byte, pages []int) *documentaipb.ProcessRequest {
	req := &documentaipb.ProcessRequest{
		Name: c.config.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdf,
				MimeType: PDFMimeType,
			},
		},
	}

	if len(pages) > 0 {
		selected := make([]int32, len(pages))
		for i, p := range pages {
			selected[i] = int32(p)
		}
		req.ProcessOptions = &documentaipb.ProcessOptions{
			PageRange: &documentaipb.ProcessOptions_IndividualPageSelector_{
				IndividualPageSelector: &documentaipb.ProcessOptions_IndividualPageSelector{
					Pages: selected,
				},
			},
		}
	}

	return req
}

// Process sends pdf to the processor and returns the structured document.
func (c *Client) Process(ctx context.Context, pdf []byte, pages []int) (*documentaipb.Document, error) {
	const op = "Process"

	req := c.BuildRequest(pdf, pages)

	c.log.Info().
		Str("processor", req.Name).
		Int("bytes", len(pdf)).
		Ints("pages", pages).
		Msg("Sending document to Document AI")

	resp, err := c.client.ProcessDocument(ctx, req)
	if err != nil {
		c.log.Error().Err(err).Str("processor", req.Name).Msg("Document AI request failed")
		return nil, ClassifyError(op, err)
	}

	if resp.GetDocument() == nil {
		return nil, WrapProcessingError(op, ErrEmptyResponse, req.Name)
	}

	c.log.Info().
		Int("returned_pages", len(resp.Document.Pages)).
		Int("text_length", len(resp.Document.Text)).
		Msg("Document AI processing completed")

	return resp.Document, nil
}

// Close closes the underlying Document AI client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
