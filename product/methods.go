package product

import (
	"context"
	"net/http"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	queryEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/Product/Query"}
	getEndpoint          = client.Endpoint{Method: http.MethodGet, Path: "/api/Product/{partNumber}"}
	putEndpoint          = client.Endpoint{Method: http.MethodPut, Path: "/api/Product"}
	getRevisionEndpoint  = client.Endpoint{Method: http.MethodGet, Path: "/api/Product/Revision"}
	putRevisionsEndpoint = client.Endpoint{Method: http.MethodPut, Path: "/api/Product/Revisions"}
	getBOMEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/Product/BOM"}
	putBOMEndpoint       = client.Endpoint{Method: http.MethodPut, Path: "/api/Product/BOM", Success: []int{200, 204}}
	groupsEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/Product/Groups"}
	vendorsEndpoint      = client.Endpoint{Method: http.MethodGet, Path: "/api/Product/Vendors"}
)

// Query lists products matching an OData query.
func (s *Service) Query(ctx context.Context, q client.ODataQuery) ([]Product, error) {
	return client.ParsedList(s.QueryDetailed(ctx, q))
}

// QueryDetailed is like Query but returns the full response.
func (s *Service) QueryDetailed(ctx context.Context, q client.ODataQuery) (*client.Response[[]Product], error) {
	return client.Do[[]Product](ctx, s.c, queryEndpoint, client.Request{Query: q})
}

// Get returns a product with its revisions.
func (s *Service) Get(ctx context.Context, partNumber string) (*Product, error) {
	return client.Parsed(s.GetDetailed(ctx, partNumber))
}

// GetDetailed is like Get but returns the full response.
func (s *Service) GetDetailed(ctx context.Context, partNumber string) (*client.Response[Product], error) {
	return client.Do[Product](ctx, s.c, getEndpoint, client.Request{
		Path: map[string]string{"partNumber": partNumber},
	})
}

// Put creates or updates a product and returns the stored version.
func (s *Service) Put(ctx context.Context, p *Product) (*Product, error) {
	return client.Parsed(s.PutDetailed(ctx, p))
}

// PutDetailed is like Put but returns the full response.
func (s *Service) PutDetailed(ctx context.Context, p *Product) (*client.Response[Product], error) {
	return client.Do[Product](ctx, s.c, putEndpoint, client.Request{Body: client.JSON(p)})
}

// GetRevision returns one revision of a product.
func (s *Service) GetRevision(ctx context.Context, partNumber, revision string) (*Revision, error) {
	return client.Parsed(s.GetRevisionDetailed(ctx, partNumber, revision))
}

// GetRevisionDetailed is like GetRevision but returns the full response.
func (s *Service) GetRevisionDetailed(ctx context.Context, partNumber, revision string) (*client.Response[Revision], error) {
	q, err := revisionQuery(partNumber, revision)
	if err != nil {
		return nil, err
	}
	return client.Do[Revision](ctx, s.c, getRevisionEndpoint, client.Request{Query: q})
}

// PutRevisions creates or updates revisions in bulk.
func (s *Service) PutRevisions(ctx context.Context, revs []Revision) ([]Revision, error) {
	return client.ParsedList(s.PutRevisionsDetailed(ctx, revs))
}

// PutRevisionsDetailed is like PutRevisions but returns the full response.
func (s *Service) PutRevisionsDetailed(ctx context.Context, revs []Revision) (*client.Response[[]Revision], error) {
	return client.Do[[]Revision](ctx, s.c, putRevisionsEndpoint, client.Request{Body: client.JSON(revs)})
}

// GetBOM returns the bill of materials of a product revision.
func (s *Service) GetBOM(ctx context.Context, partNumber, revision string) ([]BOMItem, error) {
	return client.ParsedList(s.GetBOMDetailed(ctx, partNumber, revision))
}

// GetBOMDetailed is like GetBOM but returns the full response.
func (s *Service) GetBOMDetailed(ctx context.Context, partNumber, revision string) (*client.Response[[]BOMItem], error) {
	q, err := revisionQuery(partNumber, revision)
	if err != nil {
		return nil, err
	}
	return client.Do[[]BOMItem](ctx, s.c, getBOMEndpoint, client.Request{Query: q})
}

// PutBOM uploads a bill of materials in WSBF XML.
func (s *Service) PutBOM(ctx context.Context, wsbf []byte) error {
	_, err := s.PutBOMDetailed(ctx, wsbf)
	return err
}

// PutBOMDetailed is like PutBOM but returns the full response.
func (s *Service) PutBOMDetailed(ctx context.Context, wsbf []byte) (*client.Response[client.NoContent], error) {
	return client.Do[client.NoContent](ctx, s.c, putBOMEndpoint, client.Request{
		Body: client.Raw(client.ContentTypeXML, wsbf),
	})
}

// Groups lists product groups.
func (s *Service) Groups(ctx context.Context) ([]Group, error) {
	return client.ParsedList(s.GroupsDetailed(ctx))
}

// GroupsDetailed is like Groups but returns the full response.
func (s *Service) GroupsDetailed(ctx context.Context) (*client.Response[[]Group], error) {
	return client.Do[[]Group](ctx, s.c, groupsEndpoint, client.Request{})
}

// Vendors lists component vendors.
func (s *Service) Vendors(ctx context.Context) ([]Vendor, error) {
	return client.ParsedList(s.VendorsDetailed(ctx))
}

// VendorsDetailed is like Vendors but returns the full response.
func (s *Service) VendorsDetailed(ctx context.Context) (*client.Response[[]Vendor], error) {
	return client.Do[[]Vendor](ctx, s.c, vendorsEndpoint, client.Request{})
}

func revisionQuery(partNumber, revision string) (RevisionQuery, error) {
	switch {
	case partNumber == "":
		return RevisionQuery{}, &client.MissingParameterError{Name: "partNumber"}
	case revision == "":
		return RevisionQuery{}, &client.MissingParameterError{Name: "revision"}
	}
	return RevisionQuery{PartNumber: partNumber, Revision: revision}, nil
}
