package ocr

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"docaiocr/internal/docai"
)

type stubAnnotator struct {
	req   *visionpb.BatchAnnotateFilesRequest
	resp  *visionpb.BatchAnnotateFilesResponse
	err   error
	calls int
}

func (s *stubAnnotator) BatchAnnotateFiles(_ context.Context, req *visionpb.BatchAnnotateFilesRequest, _ ...gax.CallOption) (*visionpb.BatchAnnotateFilesResponse, error) {
	s.calls++
	s.req = req
	return s.resp, s.err
}

func (s *stubAnnotator) Close() error { return nil }

func pageResponse(number int32, text string) *visionpb.AnnotateImageResponse {
	return &visionpb.AnnotateImageResponse{
		FullTextAnnotation: &visionpb.TextAnnotation{
			Text: text,
			Pages: []*visionpb.Page{{
				Width:  612,
				Height: 792,
				Property: &visionpb.TextAnnotation_TextProperty{
					DetectedLanguages: []*visionpb.TextAnnotation_DetectedLanguage{{LanguageCode: "de", Confidence: 0.9}},
				},
			}},
		},
		Context: &visionpb.ImageAnnotationContext{PageNumber: number},
	}
}

func TestToDocumentBuildsTextAnchors(t *testing.T) {
	fileResp := &visionpb.AnnotateFileResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			pageResponse(2, "Grüße\n"),
			pageResponse(5, "second page\n"),
		},
	}

	doc, err := ToDocument(fileResp)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	if doc.Text != "Grüße\nsecond page\n" {
		t.Fatalf("Text = %q", doc.Text)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(doc.Pages))
	}

	first := doc.Pages[0].Layout.TextAnchor.TextSegments[0]
	second := doc.Pages[1].Layout.TextAnchor.TextSegments[0]
	// "Grüße\n" is 6 code points but 8 bytes.
	if first.StartIndex != 0 || first.EndIndex != 6 {
		t.Errorf("first segment = [%d,%d), want [0,6)", first.StartIndex, first.EndIndex)
	}
	if second.StartIndex != 6 || second.EndIndex != 18 {
		t.Errorf("second segment = [%d,%d), want [6,18)", second.StartIndex, second.EndIndex)
	}
	if doc.Pages[0].PageNumber != 2 || doc.Pages[1].PageNumber != 5 {
		t.Errorf("page numbers = %d,%d, want 2,5", doc.Pages[0].PageNumber, doc.Pages[1].PageNumber)
	}
	if dim := doc.Pages[0].Dimension; dim == nil || dim.Width != 612 || dim.Height != 792 {
		t.Errorf("Dimension = %v", dim)
	}
	if langs := doc.Pages[0].DetectedLanguages; len(langs) != 1 || langs[0].LanguageCode != "de" {
		t.Errorf("DetectedLanguages = %v", langs)
	}
}

func TestToDocumentPageError(t *testing.T) {
	fileResp := &visionpb.AnnotateFileResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			{Error: &statuspb.Status{Code: 3, Message: "bad page"}},
		},
	}
	if _, err := ToDocument(fileResp); !errors.Is(err, ErrOCRFailed) {
		t.Fatalf("err = %v, want ErrOCRFailed", err)
	}
}

func TestProcessSendsPageSelection(t *testing.T) {
	stub := &stubAnnotator{resp: &visionpb.BatchAnnotateFilesResponse{
		Responses: []*visionpb.AnnotateFileResponse{{
			Responses: []*visionpb.AnnotateImageResponse{pageResponse(1, "a"), pageResponse(3, "b")},
		}},
	}}
	v := newVisionProcessor(stub)

	doc, err := v.Process(context.Background(), []byte("%PDF"), []int{1, 3})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.Text != "ab" {
		t.Fatalf("Text = %q", doc.Text)
	}

	fileReq := stub.req.Requests[0]
	if !reflect.DeepEqual(fileReq.Pages, []int32{1, 3}) {
		t.Errorf("Pages = %v, want [1 3]", fileReq.Pages)
	}
	if fileReq.InputConfig.MimeType != docai.PDFMimeType {
		t.Errorf("MimeType = %q", fileReq.InputConfig.MimeType)
	}
	if fileReq.Features[0].Type != visionpb.Feature_DOCUMENT_TEXT_DETECTION {
		t.Errorf("Feature = %v", fileReq.Features[0].Type)
	}
}

func TestProcessRejectsTooManyPages(t *testing.T) {
	stub := &stubAnnotator{}
	v := newVisionProcessor(stub)

	_, err := v.Process(context.Background(), []byte("%PDF"), []int{1, 2, 3, 4, 5, 6})
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("err = %v, want ErrTooManyPages", err)
	}
	if stub.calls != 0 {
		t.Fatalf("Vision called %d times, want 0", stub.calls)
	}
}

func TestProcessClassifiesServiceError(t *testing.T) {
	v := newVisionProcessor(&stubAnnotator{err: status.Error(codes.ResourceExhausted, "quota")})

	_, err := v.Process(context.Background(), []byte("%PDF"), nil)
	if !errors.Is(err, docai.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want docai.ErrQuotaExceeded", err)
	}
	var ocrErr *OCRError
	if !errors.As(err, &ocrErr) || ocrErr.Op != "Process" {
		t.Fatalf("err = %#v, want *OCRError", err)
	}
}

func TestProcessEmptyResponse(t *testing.T) {
	v := newVisionProcessor(&stubAnnotator{resp: &visionpb.BatchAnnotateFilesResponse{}})
	if _, err := v.Process(context.Background(), []byte("%PDF"), nil); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
