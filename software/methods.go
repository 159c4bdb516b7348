package software

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	packagesEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/Software/Packages"}
	getEndpoint            = client.Endpoint{Method: http.MethodGet, Path: "/api/Software/Package/{id}"}
	byNameEndpoint         = client.Endpoint{Method: http.MethodGet, Path: "/api/Software/PackageByName"}
	byTagEndpoint          = client.Endpoint{Method: http.MethodGet, Path: "/api/Software/PackagesByTag"}
	createEndpoint         = client.Endpoint{Method: http.MethodPost, Path: "/api/Software/Package", Success: []int{200, 201}}
	updateEndpoint         = client.Endpoint{Method: http.MethodPut, Path: "/api/Software/Package/{id}"}
	deleteEndpoint         = client.Endpoint{Method: http.MethodDelete, Path: "/api/Software/Package/{id}", Success: []int{200, 204}}
	deleteByNameEndpoint   = client.Endpoint{Method: http.MethodDelete, Path: "/api/Software/PackageByName", Success: []int{200, 204}}
	setStatusEndpoint      = client.Endpoint{Method: http.MethodPost, Path: "/api/Software/PackageStatus/{id}", Success: []int{200, 204}}
	filesEndpoint          = client.Endpoint{Method: http.MethodGet, Path: "/api/Software/PackageFiles/{id}"}
	uploadEndpoint         = client.Endpoint{Method: http.MethodPost, Path: "/api/Software/Upload/{id}", Success: []int{200, 201, 204}}
	virtualFoldersEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/Software/VirtualFolders"}
)

// Packages lists all packages.
func (s *Service) Packages(ctx context.Context) ([]Package, error) {
	return client.ParsedList(s.PackagesDetailed(ctx))
}

// PackagesDetailed is like Packages but returns the full response.
func (s *Service) PackagesDetailed(ctx context.Context) (*client.Response[[]Package], error) {
	return client.Do[[]Package](ctx, s.c, packagesEndpoint, client.Request{})
}

// Get returns a package by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Package, error) {
	return client.Parsed(s.GetDetailed(ctx, id))
}

// GetDetailed is like Get but returns the full response.
func (s *Service) GetDetailed(ctx context.Context, id uuid.UUID) (*client.Response[Package], error) {
	return client.Do[Package](ctx, s.c, getEndpoint, client.Request{Path: idPath(id)})
}

// GetByName returns the newest package with a name, optionally restricted to
// a status or version.
func (s *Service) GetByName(ctx context.Context, q NameQuery) (*Package, error) {
	return client.Parsed(s.GetByNameDetailed(ctx, q))
}

// GetByNameDetailed is like GetByName but returns the full response.
func (s *Service) GetByNameDetailed(ctx context.Context, q NameQuery) (*client.Response[Package], error) {
	if err := client.Require("name", q.Name); err != nil {
		return nil, err
	}
	return client.Do[Package](ctx, s.c, byNameEndpoint, client.Request{Query: q})
}

// ByTag lists packages carrying a tag.
func (s *Service) ByTag(ctx context.Context, q TagQuery) ([]Package, error) {
	return client.ParsedList(s.ByTagDetailed(ctx, q))
}

// ByTagDetailed is like ByTag but returns the full response.
func (s *Service) ByTagDetailed(ctx context.Context, q TagQuery) (*client.Response[[]Package], error) {
	if err := client.Require("tag", q.Tag); err != nil {
		return nil, err
	}
	return client.Do[[]Package](ctx, s.c, byTagEndpoint, client.Request{Query: q})
}

// Create registers a new draft package.
func (s *Service) Create(ctx context.Context, p *Package) (*Package, error) {
	return client.Parsed(s.CreateDetailed(ctx, p))
}

// CreateDetailed is like Create but returns the full response.
func (s *Service) CreateDetailed(ctx context.Context, p *Package) (*client.Response[Package], error) {
	return client.Do[Package](ctx, s.c, createEndpoint, client.Request{Body: client.JSON(p)})
}

// Update replaces a package's metadata.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p *Package) (*Package, error) {
	return client.Parsed(s.UpdateDetailed(ctx, id, p))
}

// UpdateDetailed is like Update but returns the full response.
func (s *Service) UpdateDetailed(ctx context.Context, id uuid.UUID, p *Package) (*client.Response[Package], error) {
	return client.Do[Package](ctx, s.c, updateEndpoint, client.Request{
		Path: idPath(id),
		Body: client.JSON(p),
	})
}

// Delete removes a package.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.DeleteDetailed(ctx, id)
	return err
}

// DeleteDetailed is like Delete but returns the full response.
func (s *Service) DeleteDetailed(ctx context.Context, id uuid.UUID) (*client.Response[client.NoContent], error) {
	return client.Do[client.NoContent](ctx, s.c, deleteEndpoint, client.Request{Path: idPath(id)})
}

// DeleteByName removes a package by name, or only one version of it.
func (s *Service) DeleteByName(ctx context.Context, name string, version int) error {
	_, err := s.DeleteByNameDetailed(ctx, name, version)
	return err
}

// DeleteByNameDetailed is like DeleteByName but returns the full response.
func (s *Service) DeleteByNameDetailed(ctx context.Context, name string, version int) (*client.Response[client.NoContent], error) {
	if err := client.Require("name", name); err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, deleteByNameEndpoint, client.Request{
		Query: NameQuery{Name: name, Version: version},
	})
}

// SetStatus moves a package through Draft, Pending, Released and Revoked.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := s.SetStatusDetailed(ctx, id, status)
	return err
}

// SetStatusDetailed is like SetStatus but returns the full response.
func (s *Service) SetStatusDetailed(ctx context.Context, id uuid.UUID, status Status) (*client.Response[client.NoContent], error) {
	switch status {
	case StatusDraft, StatusPending, StatusReleased, StatusRevoked:
	default:
		return nil, fmt.Errorf("invalid package status %q", status)
	}
	return client.Do[client.NoContent](ctx, s.c, setStatusEndpoint, client.Request{
		Path:  idPath(id),
		Query: statusQuery{Status: status},
	})
}

// Files lists the files of a package.
func (s *Service) Files(ctx context.Context, id uuid.UUID) ([]File, error) {
	return client.ParsedList(s.FilesDetailed(ctx, id))
}

// FilesDetailed is like Files but returns the full response.
func (s *Service) FilesDetailed(ctx context.Context, id uuid.UUID) (*client.Response[[]File], error) {
	return client.Do[[]File](ctx, s.c, filesEndpoint, client.Request{Path: idPath(id)})
}

// UploadZip uploads a zip archive as the content of a draft package. With
// clean set, files not present in the archive are removed.
func (s *Service) UploadZip(ctx context.Context, id uuid.UUID, fileName string, zip io.Reader, clean bool) error {
	_, err := s.UploadZipDetailed(ctx, id, fileName, zip, clean)
	return err
}

// UploadZipDetailed is like UploadZip but returns the full response.
func (s *Service) UploadZipDetailed(ctx context.Context, id uuid.UUID, fileName string, zip io.Reader, clean bool) (*client.Response[client.NoContent], error) {
	if fileName == "" {
		fileName = "package.zip"
	}
	return client.Do[client.NoContent](ctx, s.c, uploadEndpoint, client.Request{
		Path:  idPath(id),
		Query: uploadQuery{CleanInstall: clean},
		Body: client.Multipart(nil, client.File{
			FileName:    fileName,
			ContentType: client.ContentTypeZip,
			Payload:     zip,
		}),
	})
}

// VirtualFolders lists the configured virtual folders.
func (s *Service) VirtualFolders(ctx context.Context) ([]VirtualFolder, error) {
	return client.ParsedList(s.VirtualFoldersDetailed(ctx))
}

// VirtualFoldersDetailed is like VirtualFolders but returns the full response.
func (s *Service) VirtualFoldersDetailed(ctx context.Context) (*client.Response[[]VirtualFolder], error) {
	return client.Do[[]VirtualFolder](ctx, s.c, virtualFoldersEndpoint, client.Request{})
}

func idPath(id uuid.UUID) map[string]string {
	if id == uuid.Nil {
		return nil
	}
	return map[string]string{"id": id.String()}
}
