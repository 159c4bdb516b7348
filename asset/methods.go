package asset

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	listEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/Asset"}
	getEndpoint         = client.Endpoint{Method: http.MethodGet, Path: "/api/Asset/{id}"}
	putEndpoint         = client.Endpoint{Method: http.MethodPut, Path: "/api/Asset"}
	deleteEndpoint      = client.Endpoint{Method: http.MethodDelete, Path: "/api/Asset", Success: []int{200, 204}}
	statusEndpoint      = client.Endpoint{Method: http.MethodGet, Path: "/api/Asset/Status"}
	stateEndpoint       = client.Endpoint{Method: http.MethodPut, Path: "/api/Asset/State", Success: []int{200, 204}}
	countEndpoint       = client.Endpoint{Method: http.MethodPut, Path: "/api/Asset/Count", Success: []int{200, 204}}
	resetCountEndpoint  = client.Endpoint{Method: http.MethodPut, Path: "/api/Asset/ResetRunningCount", Success: []int{200, 204}}
	calibrationEndpoint = client.Endpoint{Method: http.MethodPost, Path: "/api/Asset/Calibration", Success: []int{200, 204}}
	maintenanceEndpoint = client.Endpoint{Method: http.MethodPost, Path: "/api/Asset/Maintenance", Success: []int{200, 204}}
	typesEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/Asset/Types"}
	putTypeEndpoint     = client.Endpoint{Method: http.MethodPut, Path: "/api/Asset/Types"}
	subAssetsEndpoint   = client.Endpoint{Method: http.MethodGet, Path: "/api/Asset/SubAssets"}
	logEndpoint         = client.Endpoint{Method: http.MethodGet, Path: "/api/Asset/Log"}
)

type noContent = client.Response[client.NoContent]

// List returns assets matching an OData query.
func (s *Service) List(ctx context.Context, q client.ODataQuery) ([]Asset, error) {
	return client.ParsedList(s.ListDetailed(ctx, q))
}

// ListDetailed is like List but returns the full response.
func (s *Service) ListDetailed(ctx context.Context, q client.ODataQuery) (*client.Response[[]Asset], error) {
	return client.Do[[]Asset](ctx, s.c, listEndpoint, client.Request{Query: q})
}

// Get returns one asset. idOrSerial may be the asset id or its serial number.
func (s *Service) Get(ctx context.Context, idOrSerial string) (*Asset, error) {
	return client.Parsed(s.GetDetailed(ctx, idOrSerial))
}

// GetDetailed is like Get but returns the full response.
func (s *Service) GetDetailed(ctx context.Context, idOrSerial string) (*client.Response[Asset], error) {
	return client.Do[Asset](ctx, s.c, getEndpoint, client.Request{
		Path: map[string]string{"id": idOrSerial},
	})
}

// Put creates or updates an asset.
func (s *Service) Put(ctx context.Context, a *Asset) (*Asset, error) {
	return client.Parsed(s.PutDetailed(ctx, a))
}

// PutDetailed is like Put but returns the full response.
func (s *Service) PutDetailed(ctx context.Context, a *Asset) (*client.Response[Asset], error) {
	return client.Do[Asset](ctx, s.c, putEndpoint, client.Request{Body: client.JSON(a)})
}

// Delete removes an asset.
func (s *Service) Delete(ctx context.Context, ref Ref) error {
	_, err := s.DeleteDetailed(ctx, ref)
	return err
}

// DeleteDetailed is like Delete but returns the full response.
func (s *Service) DeleteDetailed(ctx context.Context, ref Ref) (*noContent, error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, deleteEndpoint, client.Request{Query: ref})
}

// Status evaluates an asset's counters and service dates against its limits.
func (s *Service) Status(ctx context.Context, ref Ref) (*Status, error) {
	return client.Parsed(s.StatusDetailed(ctx, ref))
}

// StatusDetailed is like Status but returns the full response.
func (s *Service) StatusDetailed(ctx context.Context, ref Ref) (*client.Response[Status], error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	return client.Do[Status](ctx, s.c, statusEndpoint, client.Request{Query: ref})
}

// SetState changes an asset's operational state.
func (s *Service) SetState(ctx context.Context, ref Ref, state State) error {
	_, err := s.SetStateDetailed(ctx, ref, state)
	return err
}

// SetStateDetailed is like SetState but returns the full response.
func (s *Service) SetStateDetailed(ctx context.Context, ref Ref, state State) (*noContent, error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, stateEndpoint, client.Request{
		Query: stateQuery{Ref: ref, State: state},
	})
}

// IncrementCount adds n uses to an asset's running and total counters.
func (s *Service) IncrementCount(ctx context.Context, ref Ref, n int, subAssets bool) error {
	_, err := s.IncrementCountDetailed(ctx, ref, n, subAssets)
	return err
}

// IncrementCountDetailed is like IncrementCount but returns the full response.
func (s *Service) IncrementCountDetailed(ctx context.Context, ref Ref, n int, subAssets bool) (*noContent, error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}
	return client.Do[client.NoContent](ctx, s.c, countEndpoint, client.Request{
		Query: countQuery{Ref: ref, Increment: n, IncrementSubAssets: subAssets},
	})
}

// ResetRunningCount zeroes an asset's running counter.
func (s *Service) ResetRunningCount(ctx context.Context, ref Ref, comment string) error {
	_, err := s.ResetRunningCountDetailed(ctx, ref, comment)
	return err
}

// ResetRunningCountDetailed is like ResetRunningCount but returns the full response.
func (s *Service) ResetRunningCountDetailed(ctx context.Context, ref Ref, comment string) (*noContent, error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, resetCountEndpoint, client.Request{
		Query: commentQuery{Ref: ref, Comment: comment},
	})
}

// Calibration records a calibration of an asset.
func (s *Service) Calibration(ctx context.Context, ref Ref, rec ServiceRecord) error {
	_, err := s.CalibrationDetailed(ctx, ref, rec)
	return err
}

// CalibrationDetailed is like Calibration but returns the full response.
func (s *Service) CalibrationDetailed(ctx context.Context, ref Ref, rec ServiceRecord) (*noContent, error) {
	return s.serviceEvent(ctx, calibrationEndpoint, ref, rec)
}

// Maintenance records a maintenance of an asset.
func (s *Service) Maintenance(ctx context.Context, ref Ref, rec ServiceRecord) error {
	_, err := s.MaintenanceDetailed(ctx, ref, rec)
	return err
}

// MaintenanceDetailed is like Maintenance but returns the full response.
func (s *Service) MaintenanceDetailed(ctx context.Context, ref Ref, rec ServiceRecord) (*noContent, error) {
	return s.serviceEvent(ctx, maintenanceEndpoint, ref, rec)
}

func (s *Service) serviceEvent(ctx context.Context, ep client.Endpoint, ref Ref, rec ServiceRecord) (*noContent, error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, ep, client.Request{
		Query: serviceQuery{Ref: ref, ServiceRecord: rec},
	})
}

// Types lists asset types.
func (s *Service) Types(ctx context.Context) ([]Type, error) {
	return client.ParsedList(s.TypesDetailed(ctx))
}

// TypesDetailed is like Types but returns the full response.
func (s *Service) TypesDetailed(ctx context.Context) (*client.Response[[]Type], error) {
	return client.Do[[]Type](ctx, s.c, typesEndpoint, client.Request{})
}

// PutType creates or updates an asset type.
func (s *Service) PutType(ctx context.Context, t *Type) (*Type, error) {
	return client.Parsed(s.PutTypeDetailed(ctx, t))
}

// PutTypeDetailed is like PutType but returns the full response.
func (s *Service) PutTypeDetailed(ctx context.Context, t *Type) (*client.Response[Type], error) {
	return client.Do[Type](ctx, s.c, putTypeEndpoint, client.Request{Body: client.JSON(t)})
}

// SubAssets lists the assets mounted in another asset. A level of 0 returns
// all descendants.
func (s *Service) SubAssets(ctx context.Context, ref Ref, level int) ([]Asset, error) {
	return client.ParsedList(s.SubAssetsDetailed(ctx, ref, level))
}

// SubAssetsDetailed is like SubAssets but returns the full response.
func (s *Service) SubAssetsDetailed(ctx context.Context, ref Ref, level int) (*client.Response[[]Asset], error) {
	if err := ref.check(); err != nil {
		return nil, err
	}
	return client.Do[[]Asset](ctx, s.c, subAssetsEndpoint, client.Request{
		Query: subAssetQuery{Ref: ref, Level: level},
	})
}

// Log returns asset history entries matching an OData query.
func (s *Service) Log(ctx context.Context, q client.ODataQuery) ([]LogEntry, error) {
	return client.ParsedList(s.LogDetailed(ctx, q))
}

// LogDetailed is like Log but returns the full response.
func (s *Service) LogDetailed(ctx context.Context, q client.ODataQuery) (*client.Response[[]LogEntry], error) {
	return client.Do[[]LogEntry](ctx, s.c, logEndpoint, client.Request{Query: q})
}

// LogFor is Log restricted to one asset.
func (s *Service) LogFor(ctx context.Context, id uuid.UUID, top int) ([]LogEntry, error) {
	return s.Log(ctx, client.ODataQuery{
		Filter:  "assetId eq " + id.String(),
		Top:     top,
		OrderBy: "date desc",
	})
}
