package report

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	queryHeadersEndpoint   = client.Endpoint{Method: http.MethodGet, Path: "/api/Report/Query/Header"}
	headersByMiscEndpoint  = client.Endpoint{Method: http.MethodGet, Path: "/api/Report/Query/HeaderByMiscInfo"}
	getWSJFEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/Report/Wsjf/{id}"}
	submitWSJFEndpoint     = client.Endpoint{Method: http.MethodPost, Path: "/api/Report/WSJF", Success: []int{200, 201}}
	getWSXFEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/Report/Wsxf/{id}"}
	submitWSXFEndpoint     = client.Endpoint{Method: http.MethodPost, Path: "/api/Report/WSXF", Success: []int{200, 201}}
	getAttachmentEndpoint  = client.Endpoint{Method: http.MethodGet, Path: "/api/Report/Attachment"}
	getCertificateEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/Report/Certificate/{id}"}
)

func accept(contentType string) http.Header {
	return http.Header{"Accept": {contentType}}
}

// QueryHeaders lists report headers matching an OData query.
func (s *Service) QueryHeaders(ctx context.Context, q client.ODataQuery) ([]Header, error) {
	return client.ParsedList(s.QueryHeadersDetailed(ctx, q))
}

// QueryHeadersDetailed is QueryHeaders returning the full response.
func (s *Service) QueryHeadersDetailed(ctx context.Context, q client.ODataQuery) (*client.Response[[]Header], error) {
	return client.Do[[]Header](ctx, s.c, queryHeadersEndpoint, client.Request{Query: q})
}

// QueryHeadersByMiscInfo lists report headers carrying a misc-info entry.
func (s *Service) QueryHeadersByMiscInfo(ctx context.Context, q MiscInfoQuery) ([]Header, error) {
	return client.ParsedList(s.QueryHeadersByMiscInfoDetailed(ctx, q))
}

// QueryHeadersByMiscInfoDetailed is like QueryHeadersByMiscInfo but returns the full response.
func (s *Service) QueryHeadersByMiscInfoDetailed(ctx context.Context, q MiscInfoQuery) (*client.Response[[]Header], error) {
	if q.Description == "" {
		return nil, &client.MissingParameterError{Name: "description"}
	}
	return client.Do[[]Header](ctx, s.c, headersByMiscEndpoint, client.Request{Query: q})
}

// GetWSJF fetches a full report as JSON.
func (s *Service) GetWSJF(ctx context.Context, id uuid.UUID) (*Report, error) {
	return client.Parsed(s.GetWSJFDetailed(ctx, id))
}

// GetWSJFDetailed is like GetWSJF but returns the full response.
func (s *Service) GetWSJFDetailed(ctx context.Context, id uuid.UUID) (*client.Response[Report], error) {
	return client.Do[Report](ctx, s.c, getWSJFEndpoint, client.Request{
		Path: map[string]string{"id": idParam(id)},
	})
}

// SubmitWSJF validates and uploads a report.
func (s *Service) SubmitWSJF(ctx context.Context, r *Report) (*SubmitResult, error) {
	return client.Parsed(s.SubmitWSJFDetailed(ctx, r))
}

// SubmitWSJFDetailed is like SubmitWSJF but returns the full response.
func (s *Service) SubmitWSJFDetailed(ctx context.Context, r *Report) (*client.Response[SubmitResult], error) {
	return client.Do[SubmitResult](ctx, s.c, submitWSJFEndpoint, client.Request{Body: client.JSON(r)})
}

// GetWSXF fetches a report as WSXF XML.
func (s *Service) GetWSXF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return client.ParsedList(s.GetWSXFDetailed(ctx, id))
}

// GetWSXFDetailed is like GetWSXF but returns the full response.
func (s *Service) GetWSXFDetailed(ctx context.Context, id uuid.UUID) (*client.Response[[]byte], error) {
	return client.Do[[]byte](ctx, s.c, getWSXFEndpoint, client.Request{
		Path:   map[string]string{"id": idParam(id)},
		Header: accept(client.ContentTypeXML),
	})
}

// SubmitWSXF uploads a report already serialized as WSXF XML.
func (s *Service) SubmitWSXF(ctx context.Context, doc []byte) (*SubmitResult, error) {
	return client.Parsed(s.SubmitWSXFDetailed(ctx, doc))
}

// SubmitWSXFDetailed is like SubmitWSXF but returns the full response.
func (s *Service) SubmitWSXFDetailed(ctx context.Context, doc []byte) (*client.Response[SubmitResult], error) {
	return client.Do[SubmitResult](ctx, s.c, submitWSXFEndpoint, client.Request{
		Body: client.Raw(client.ContentTypeXML, doc),
	})
}

// GetAttachment downloads a report attachment.
func (s *Service) GetAttachment(ctx context.Context, q AttachmentQuery) ([]byte, error) {
	return client.ParsedList(s.GetAttachmentDetailed(ctx, q))
}

// GetAttachmentDetailed is like GetAttachment but returns the full response.
func (s *Service) GetAttachmentDetailed(ctx context.Context, q AttachmentQuery) (*client.Response[[]byte], error) {
	if q.AttachmentID == nil && q.ReportID == nil {
		return nil, &client.MissingParameterError{Name: "attachmentId or reportId"}
	}
	return client.Do[[]byte](ctx, s.c, getAttachmentEndpoint, client.Request{
		Query:  q,
		Header: accept(client.ContentTypeOctet),
	})
}

// GetCertificate downloads the PDF certificate of a report.
func (s *Service) GetCertificate(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return client.ParsedList(s.GetCertificateDetailed(ctx, id))
}

// GetCertificateDetailed is like GetCertificate but returns the full response.
func (s *Service) GetCertificateDetailed(ctx context.Context, id uuid.UUID) (*client.Response[[]byte], error) {
	return client.Do[[]byte](ctx, s.c, getCertificateEndpoint, client.Request{
		Path:   map[string]string{"id": idParam(id)},
		Header: accept("application/pdf"),
	})
}

func idParam(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
