package rootcause

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	getTicketEndpoint     = client.Endpoint{Method: http.MethodGet, Path: "/api/RootCause/Ticket/{id}"}
	ticketsEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/RootCause/Tickets"}
	createEndpoint        = client.Endpoint{Method: http.MethodPost, Path: "/api/RootCause/Ticket", Success: []int{200, 201}}
	updateEndpoint        = client.Endpoint{Method: http.MethodPut, Path: "/api/RootCause/Ticket"}
	archiveEndpoint       = client.Endpoint{Method: http.MethodPost, Path: "/api/RootCause/ArchiveTickets", Success: []int{200, 204}}
	uploadEndpoint        = client.Endpoint{Method: http.MethodPost, Path: "/api/RootCause/Attachment", Success: []int{200, 201}}
	getAttachmentEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/RootCause/Attachment"}
)

// GetTicket returns a ticket with its history.
func (s *Service) GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	return client.Parsed(s.GetTicketDetailed(ctx, id))
}

// GetTicketDetailed is like GetTicket but returns the full response.
func (s *Service) GetTicketDetailed(ctx context.Context, id uuid.UUID) (*client.Response[Ticket], error) {
	var path map[string]string
	if id != uuid.Nil {
		path = map[string]string{"id": id.String()}
	}
	return client.Do[Ticket](ctx, s.c, getTicketEndpoint, client.Request{Path: path})
}

// Tickets lists tickets. A zero Status returns active tickets.
func (s *Service) Tickets(ctx context.Context, q TicketQuery) ([]Ticket, error) {
	return client.ParsedList(s.TicketsDetailed(ctx, q))
}

// TicketsDetailed is like Tickets but returns the full response.
func (s *Service) TicketsDetailed(ctx context.Context, q TicketQuery) (*client.Response[[]Ticket], error) {
	if q.Status == 0 {
		q.Status = StatusActive
	}
	return client.Do[[]Ticket](ctx, s.c, ticketsEndpoint, client.Request{Query: q})
}

// Create opens a ticket.
func (s *Service) Create(ctx context.Context, t *Ticket) (*Ticket, error) {
	return client.Parsed(s.CreateDetailed(ctx, t))
}

// CreateDetailed is like Create but returns the full response.
func (s *Service) CreateDetailed(ctx context.Context, t *Ticket) (*client.Response[Ticket], error) {
	return client.Do[Ticket](ctx, s.c, createEndpoint, client.Request{Body: client.JSON(t)})
}

// Update applies an update to a ticket and returns the result.
func (s *Service) Update(ctx context.Context, u *Update) (*Ticket, error) {
	return client.Parsed(s.UpdateDetailed(ctx, u))
}

// UpdateDetailed is like Update but returns the full response.
func (s *Service) UpdateDetailed(ctx context.Context, u *Update) (*client.Response[Ticket], error) {
	return client.Do[Ticket](ctx, s.c, updateEndpoint, client.Request{Body: client.JSON(u)})
}

// Archive archives solved or closed tickets.
func (s *Service) Archive(ctx context.Context, ids ...uuid.UUID) error {
	_, err := s.ArchiveDetailed(ctx, ids...)
	return err
}

// ArchiveDetailed is like Archive but returns the full response.
func (s *Service) ArchiveDetailed(ctx context.Context, ids ...uuid.UUID) (*client.Response[client.NoContent], error) {
	if len(ids) == 0 {
		return nil, &client.MissingParameterError{Name: "ticket ids"}
	}
	return client.Do[client.NoContent](ctx, s.c, archiveEndpoint, client.Request{Body: client.JSON(ids)})
}

// UploadAttachment stores a file and returns its id for use in Update.
func (s *Service) UploadAttachment(ctx context.Context, fileName, contentType string, r io.Reader) (uuid.UUID, error) {
	id, err := client.Parsed(s.UploadAttachmentDetailed(ctx, fileName, contentType, r))
	if err != nil || id == nil {
		return uuid.Nil, err
	}
	return *id, nil
}

// UploadAttachmentDetailed is like UploadAttachment but returns the full response.
func (s *Service) UploadAttachmentDetailed(ctx context.Context, fileName, contentType string, r io.Reader) (*client.Response[uuid.UUID], error) {
	if err := client.Require("fileName", fileName); err != nil {
		return nil, err
	}
	return client.Do[uuid.UUID](ctx, s.c, uploadEndpoint, client.Request{
		Body: client.Multipart(nil, client.File{
			FileName:    fileName,
			ContentType: contentType,
			Payload:     r,
		}),
	})
}

// GetAttachment downloads an attachment.
func (s *Service) GetAttachment(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return client.ParsedList(s.GetAttachmentDetailed(ctx, id))
}

// GetAttachmentDetailed is like GetAttachment but returns the full response.
func (s *Service) GetAttachmentDetailed(ctx context.Context, id uuid.UUID) (*client.Response[[]byte], error) {
	if id == uuid.Nil {
		return nil, &client.MissingParameterError{Name: "attachmentId"}
	}
	return client.Do[[]byte](ctx, s.c, getAttachmentEndpoint, client.Request{
		Query:  attachmentQuery{ID: id},
		Header: http.Header{"Accept": {client.ContentTypeOctet}},
	})
}
