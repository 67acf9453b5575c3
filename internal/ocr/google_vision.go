package ocr

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docaiocr/internal/docai"
	"docaiocr/internal/logger"
)

// fileAnnotator is the subset of the Vision client used here.
type fileAnnotator interface {
	BatchAnnotateFiles(ctx context.Context, req *visionpb.BatchAnnotateFilesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateFilesResponse, error)
	Close() error
}

// VisionProcessor implements docai.Processor using Google Cloud Vision API.
type VisionProcessor struct {
	client fileAnnotator
	log    zerolog.Logger
}

// NewVisionProcessor creates a Vision client authenticated with credentialsFile
// and billed to projectID.
func NewVisionProcessor(ctx context.Context, credentialsFile, projectID string) (*VisionProcessor, error) {
	const op = "NewVisionProcessor"

	var clientOptions []option.ClientOption
	if credentialsFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credentialsFile))
	}
	if projectID != "" {
		clientOptions = append(clientOptions, option.WithQuotaProject(projectID))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, clientOptions...)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	return newVisionProcessor(client), nil
}

func newVisionProcessor(client fileAnnotator) *VisionProcessor {
	return &VisionProcessor{
		client: client,
		log:    logger.WithComponent("vision"),
	}
}

// Process runs document text detection on pdf and folds the per-page
// responses into a Document AI document.
func (v *VisionProcessor) Process(ctx context.Context, pdf []byte, pages []int) (*documentaipb.Document, error) {
	const op = "Process"

	if len(pdf) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, docai.ErrInvalidRequest, fmt.Sprintf("file size %d bytes exceeds %d", len(pdf), MaxFileSizeBytes))
	}
	if len(pages) > MaxPagesSync {
		return nil, WrapOCRError(op, ErrTooManyPages, fmt.Sprintf("%d pages requested", len(pages)))
	}

	selected := make([]int32, len(pages))
	for i, p := range pages {
		selected[i] = int32(p)
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  pdf,
					MimeType: docai.PDFMimeType,
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				Pages: selected,
			},
		},
	}

	v.log.Info().
		Int("bytes", len(pdf)).
		Ints("pages", pages).
		Msg("Sending document to Vision API")

	resp, err := v.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		v.log.Error().Err(err).Msg("Vision API request failed")
		return nil, WrapOCRError(op, docai.ClassifyError(op, err), "Vision API call failed")
	}
	if len(resp.GetResponses()) == 0 {
		return nil, WrapOCRError(op, ErrEmptyResponse, "")
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	doc, err := ToDocument(fileResp)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to process Vision API response")
	}

	v.log.Info().
		Int("returned_pages", len(doc.Pages)).
		Int("text_length", len(doc.Text)).
		Msg("Vision processing completed")

	return doc, nil
}

// ToDocument converts a Vision file response into a Document AI document.
// Text segment offsets count code points, matching Document AI text anchors.
func ToDocument(fileResp *visionpb.AnnotateFileResponse) (*documentaipb.Document, error) {
	doc := &documentaipb.Document{MimeType: docai.PDFMimeType}

	var text strings.Builder
	offset := 0

	for i, page := range fileResp.GetResponses() {
		if page.GetError() != nil {
			return nil, fmt.Errorf("%w: page %d: %s", ErrOCRFailed, i+1, page.GetError().GetMessage())
		}

		pageText := page.GetFullTextAnnotation().GetText()
		start := offset
		offset += utf8.RuneCountInString(pageText)
		text.WriteString(pageText)

		pageNumber := page.GetContext().GetPageNumber()
		if pageNumber == 0 {
			pageNumber = int32(i + 1)
		}

		out := &documentaipb.Document_Page{
			PageNumber: pageNumber,
			Layout: &documentaipb.Document_Page_Layout{
				TextAnchor: &documentaipb.Document_TextAnchor{
					TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
						{StartIndex: int64(start), EndIndex: int64(offset)},
					},
				},
			},
		}

		if annotated := page.GetFullTextAnnotation().GetPages(); len(annotated) > 0 {
			first := annotated[0]
			out.Dimension = &documentaipb.Document_Page_Dimension{
				Width:  float32(first.GetWidth()),
				Height: float32(first.GetHeight()),
				Unit:   "pixels",
			}
			for _, lang := range first.GetProperty().GetDetectedLanguages() {
				out.DetectedLanguages = append(out.DetectedLanguages, &documentaipb.Document_Page_DetectedLanguage{
					LanguageCode: lang.GetLanguageCode(),
					Confidence:   lang.GetConfidence(),
				})
			}
			out.Layout.Confidence = first.GetConfidence()
		}

		doc.Pages = append(doc.Pages, out)
	}

	doc.Text = text.String()
	return doc, nil
}

// Close closes the underlying Vision client.
func (v *VisionProcessor) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
