package internalapi

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	processesEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Process/GetProcesses"}
	processEndpoint          = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Process/GetProcess/{id}"}
	repairOperationsEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Process/GetRepairOperations"}
	repairCategoriesEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Process/GetRepairCategories"}
	unitPhasesEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Mes/GetUnitPhases"}
	unitFlowEndpoint         = client.Endpoint{Method: http.MethodPost, Path: "/api/internal/UnitFlow"}
	unitFlowUnitsEndpoint    = client.Endpoint{Method: http.MethodPost, Path: "/api/internal/UnitFlow/Units"}
	boxBuildEndpoint         = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Product/GetBoxBuildTemplate"}
	putBoxBuildEndpoint      = client.Endpoint{Method: http.MethodPut, Path: "/api/internal/Product/PutBoxBuildTemplate", Success: []int{200, 204}}
	uploadAssetFileEndpoint  = client.Endpoint{Method: http.MethodPost, Path: "/api/internal/Blob/Asset", Success: []int{200, 201}}
	assetFileEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/internal/Blob/Asset"}
)

// Processes lists all processes with internal details.
func (s *Service) Processes(ctx context.Context) ([]Process, error) {
	return client.ParsedList(s.ProcessesDetailed(ctx))
}

// ProcessesDetailed is like Processes but returns the full response.
func (s *Service) ProcessesDetailed(ctx context.Context) (*client.Response[[]Process], error) {
	return client.Do[[]Process](ctx, s.c, processesEndpoint, s.request(client.Request{}))
}

// Process returns one process.
func (s *Service) Process(ctx context.Context, id uuid.UUID) (*Process, error) {
	return client.Parsed(s.ProcessDetailed(ctx, id))
}

// ProcessDetailed is like Process but returns the full response.
func (s *Service) ProcessDetailed(ctx context.Context, id uuid.UUID) (*client.Response[Process], error) {
	var path map[string]string
	if id != uuid.Nil {
		path = map[string]string{"id": id.String()}
	}
	return client.Do[Process](ctx, s.c, processEndpoint, s.request(client.Request{Path: path}))
}

// RepairOperations lists repair processes with their categories.
func (s *Service) RepairOperations(ctx context.Context) ([]RepairOperation, error) {
	return client.ParsedList(s.RepairOperationsDetailed(ctx))
}

// RepairOperationsDetailed is like RepairOperations but returns the full response.
func (s *Service) RepairOperationsDetailed(ctx context.Context) (*client.Response[[]RepairOperation], error) {
	return client.Do[[]RepairOperation](ctx, s.c, repairOperationsEndpoint, s.request(client.Request{}))
}

// RepairCategories lists the fail code categories of a repair operation.
func (s *Service) RepairCategories(ctx context.Context, repairOperation int) ([]RepairCategory, error) {
	return client.ParsedList(s.RepairCategoriesDetailed(ctx, repairOperation))
}

// RepairCategoriesDetailed is like RepairCategories but returns the full response.
func (s *Service) RepairCategoriesDetailed(ctx context.Context, repairOperation int) (*client.Response[[]RepairCategory], error) {
	return client.Do[[]RepairCategory](ctx, s.c, repairCategoriesEndpoint, s.request(client.Request{
		Query: repairCategoryQuery{RepairOperation: repairOperation},
	}))
}

// UnitPhases lists the configured unit phases.
func (s *Service) UnitPhases(ctx context.Context) ([]UnitPhase, error) {
	return client.ParsedList(s.UnitPhasesDetailed(ctx))
}

// UnitPhasesDetailed is like UnitPhases but returns the full response.
func (s *Service) UnitPhasesDetailed(ctx context.Context) (*client.Response[[]UnitPhase], error) {
	return client.Do[[]UnitPhase](ctx, s.c, unitPhasesEndpoint, s.request(client.Request{}))
}

// UnitFlow returns the process flow graph of the units matched by f.
func (s *Service) UnitFlow(ctx context.Context, f FlowFilter) (*Flow, error) {
	return client.Parsed(s.UnitFlowDetailed(ctx, f))
}

// UnitFlowDetailed is like UnitFlow but returns the full response.
func (s *Service) UnitFlowDetailed(ctx context.Context, f FlowFilter) (*client.Response[Flow], error) {
	return client.Do[Flow](ctx, s.c, unitFlowEndpoint, s.request(client.Request{Body: client.JSON(f)}))
}

// UnitFlowUnits lists the units at f.Node.
func (s *Service) UnitFlowUnits(ctx context.Context, f FlowFilter) ([]FlowUnit, error) {
	return client.ParsedList(s.UnitFlowUnitsDetailed(ctx, f))
}

// UnitFlowUnitsDetailed is like UnitFlowUnits but returns the full response.
func (s *Service) UnitFlowUnitsDetailed(ctx context.Context, f FlowFilter) (*client.Response[[]FlowUnit], error) {
	if err := client.Require("node", f.Node); err != nil {
		return nil, err
	}
	return client.Do[[]FlowUnit](ctx, s.c, unitFlowUnitsEndpoint, s.request(client.Request{Body: client.JSON(f)}))
}

// BoxBuildTemplate returns the box-build template of a product revision.
func (s *Service) BoxBuildTemplate(ctx context.Context, partNumber, revision string) (*BoxBuildTemplate, error) {
	return client.Parsed(s.BoxBuildTemplateDetailed(ctx, partNumber, revision))
}

// BoxBuildTemplateDetailed is like BoxBuildTemplate but returns the full response.
func (s *Service) BoxBuildTemplateDetailed(ctx context.Context, partNumber, revision string) (*client.Response[BoxBuildTemplate], error) {
	if err := client.Require("partNumber", partNumber, "revision", revision); err != nil {
		return nil, err
	}
	return client.Do[BoxBuildTemplate](ctx, s.c, boxBuildEndpoint, s.request(client.Request{
		Query: templateQuery{PartNumber: partNumber, Revision: revision},
	}))
}

// PutBoxBuildTemplate replaces a box-build template.
func (s *Service) PutBoxBuildTemplate(ctx context.Context, t *BoxBuildTemplate) error {
	_, err := s.PutBoxBuildTemplateDetailed(ctx, t)
	return err
}

// PutBoxBuildTemplateDetailed is like PutBoxBuildTemplate but returns the full response.
func (s *Service) PutBoxBuildTemplateDetailed(ctx context.Context, t *BoxBuildTemplate) (*client.Response[client.NoContent], error) {
	return client.Do[client.NoContent](ctx, s.c, putBoxBuildEndpoint, s.request(client.Request{Body: client.JSON(t)}))
}

// UploadAssetFile stores a file with an asset.
func (s *Service) UploadAssetFile(ctx context.Context, assetID uuid.UUID, fileName string, r io.Reader) (*AssetFile, error) {
	return client.Parsed(s.UploadAssetFileDetailed(ctx, assetID, fileName, r))
}

// UploadAssetFileDetailed is like UploadAssetFile but returns the full response.
func (s *Service) UploadAssetFileDetailed(ctx context.Context, assetID uuid.UUID, fileName string, r io.Reader) (*client.Response[AssetFile], error) {
	if assetID == uuid.Nil {
		return nil, &client.MissingParameterError{Name: "assetId"}
	}
	if err := client.Require("fileName", fileName); err != nil {
		return nil, err
	}
	return client.Do[AssetFile](ctx, s.c, uploadAssetFileEndpoint, s.request(client.Request{
		Query: assetFileQuery{AssetID: assetID},
		Body:  client.Multipart(nil, client.File{FileName: fileName, Payload: r}),
	}))
}

// DownloadAssetFile fetches a file stored with an asset.
func (s *Service) DownloadAssetFile(ctx context.Context, assetID uuid.UUID, fileName string) ([]byte, error) {
	return client.ParsedList(s.DownloadAssetFileDetailed(ctx, assetID, fileName))
}

// DownloadAssetFileDetailed is like DownloadAssetFile but returns the full response.
func (s *Service) DownloadAssetFileDetailed(ctx context.Context, assetID uuid.UUID, fileName string) (*client.Response[[]byte], error) {
	if assetID == uuid.Nil {
		return nil, &client.MissingParameterError{Name: "assetId"}
	}
	if err := client.Require("fileName", fileName); err != nil {
		return nil, err
	}
	return client.Do[[]byte](ctx, s.c, assetFileEndpoint, s.request(client.Request{
		Query:  assetFileQuery{AssetID: assetID, FileName: fileName},
		Header: http.Header{"Accept": {client.ContentTypeOctet}},
	}))
}
