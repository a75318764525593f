package documents

import (
	"bytes"
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of the S3 client the service needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Renderer interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Service renders a quotation to PDF and stores it in S3 under
// quotations/<number>/rev-<revision>.pdf.
type Service struct {
	renderer      Renderer
	store         ObjectPutter
	bucket        string
	publicBaseURL string
}

var _ interfaces.IDocumentService = (*Service)(nil)

func NewService(renderer Renderer, store ObjectPutter, bucket, publicBaseURL string) *Service {
	return &Service{
		renderer:      renderer,
		store:         store,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *Service) Generate(ctx context.Context, q entities.Quotation) (string, error) {
	html, err := RenderQuotationHTML(q)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	pdf, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	key := ObjectKey(q)
	_, err = s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return s.url(key), nil
}

func ObjectKey(q entities.Quotation) string {
	return fmt.Sprintf("quotations/%s/rev-%d.pdf", q.QuotationNumber, q.RevisionNumber)
}

func (s *Service) url(key string) string {
	if s.publicBaseURL == "" {
		return fmt.Sprintf("s3://%s/%s", s.bucket, key)
	}
	return s.publicBaseURL + "/" + key
}
