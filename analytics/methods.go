package analytics

import (
	"context"
	"net/http"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/report"
)

var (
	versionEndpoint       = client.Endpoint{Method: http.MethodGet, Path: "/api/App/Version"}
	levelsEndpoint        = client.Endpoint{Method: http.MethodGet, Path: "/api/App/Levels"}
	productGroupsEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/App/ProductGroups"}
	dynamicYieldEndpoint  = client.Endpoint{Method: http.MethodPost, Path: "/api/App/DynamicYield"}
	dynamicRepairEndpoint = client.Endpoint{Method: http.MethodPost, Path: "/api/App/DynamicRepair"}
	topFailedEndpoint     = client.Endpoint{Method: http.MethodPost, Path: "/api/App/TopFailed"}
	highVolumeEndpoint    = client.Endpoint{Method: http.MethodPost, Path: "/api/App/HighVolume"}
	worstYieldEndpoint    = client.Endpoint{Method: http.MethodPost, Path: "/api/App/WorstYield"}
	snHistoryEndpoint     = client.Endpoint{Method: http.MethodPost, Path: "/api/App/SerialNumberHistory"}
	uutReportsEndpoint    = client.Endpoint{Method: http.MethodPost, Path: "/api/App/UutReport"}
	uurReportsEndpoint    = client.Endpoint{Method: http.MethodPost, Path: "/api/App/UurReport"}
	aggregatedEndpoint    = client.Endpoint{Method: http.MethodPost, Path: "/api/App/AggregatedMeasurements"}
	measurementsEndpoint  = client.Endpoint{Method: http.MethodPost, Path: "/api/App/Measurements"}
	stepAnalysisEndpoint  = client.Endpoint{Method: http.MethodPost, Path: "/api/App/TestStepAnalysis"}
	repairHistoryEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/App/RelatedRepairHistory"}
)

func query[T any](ctx context.Context, c *client.Client, ep client.Endpoint, f Filter) (*client.Response[[]T], error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return client.Do[[]T](ctx, c, ep, client.Request{Body: client.JSON(f)})
}

// Version returns the server version.
func (s *Service) Version(ctx context.Context) (string, error) {
	v, err := client.Parsed(s.VersionDetailed(ctx))
	if err != nil || v == nil {
		return "", err
	}
	return string(*v), nil
}

// VersionDetailed is like Version but returns the full response.
func (s *Service) VersionDetailed(ctx context.Context) (*client.Response[ServerVersion], error) {
	return client.Do[ServerVersion](ctx, s.c, versionEndpoint, client.Request{})
}

// Levels lists production levels.
func (s *Service) Levels(ctx context.Context) ([]Level, error) {
	return client.ParsedList(s.LevelsDetailed(ctx))
}

// LevelsDetailed is like Levels but returns the full response.
func (s *Service) LevelsDetailed(ctx context.Context) (*client.Response[[]Level], error) {
	return client.Do[[]Level](ctx, s.c, levelsEndpoint, client.Request{})
}

// ProductGroups lists product groups usable in filters.
func (s *Service) ProductGroups(ctx context.Context) ([]ProductGroup, error) {
	return client.ParsedList(s.ProductGroupsDetailed(ctx))
}

// ProductGroupsDetailed is like ProductGroups but returns the full response.
func (s *Service) ProductGroupsDetailed(ctx context.Context) (*client.Response[[]ProductGroup], error) {
	return client.Do[[]ProductGroup](ctx, s.c, productGroupsEndpoint, client.Request{})
}

// DynamicYield computes yield grouped by f.Dimensions and f.DateGrouping.
func (s *Service) DynamicYield(ctx context.Context, f Filter) ([]Yield, error) {
	return client.ParsedList(s.DynamicYieldDetailed(ctx, f))
}

// DynamicYieldDetailed is like DynamicYield but returns the full response.
func (s *Service) DynamicYieldDetailed(ctx context.Context, f Filter) (*client.Response[[]Yield], error) {
	return query[Yield](ctx, s.c, dynamicYieldEndpoint, f)
}

// DynamicRepair computes repair statistics grouped by f.Dimensions.
func (s *Service) DynamicRepair(ctx context.Context, f Filter) ([]Repair, error) {
	return client.ParsedList(s.DynamicRepairDetailed(ctx, f))
}

// DynamicRepairDetailed is like DynamicRepair but returns the full response.
func (s *Service) DynamicRepairDetailed(ctx context.Context, f Filter) (*client.Response[[]Repair], error) {
	return query[Repair](ctx, s.c, dynamicRepairEndpoint, f)
}

// TopFailed ranks the steps that fail most often.
func (s *Service) TopFailed(ctx context.Context, f Filter) ([]FailedStep, error) {
	return client.ParsedList(s.TopFailedDetailed(ctx, f))
}

// TopFailedDetailed is like TopFailed but returns the full response.
func (s *Service) TopFailedDetailed(ctx context.Context, f Filter) (*client.Response[[]FailedStep], error) {
	return query[FailedStep](ctx, s.c, topFailedEndpoint, f)
}

// HighVolume lists the products with the most tested units.
func (s *Service) HighVolume(ctx context.Context, f Filter) ([]Yield, error) {
	return client.ParsedList(s.HighVolumeDetailed(ctx, f))
}

// HighVolumeDetailed is like HighVolume but returns the full response.
func (s *Service) HighVolumeDetailed(ctx context.Context, f Filter) (*client.Response[[]Yield], error) {
	return query[Yield](ctx, s.c, highVolumeEndpoint, f)
}

// WorstYield lists the products with the lowest yield.
func (s *Service) WorstYield(ctx context.Context, f Filter) ([]Yield, error) {
	return client.ParsedList(s.WorstYieldDetailed(ctx, f))
}

// WorstYieldDetailed is like WorstYield but returns the full response.
func (s *Service) WorstYieldDetailed(ctx context.Context, f Filter) (*client.Response[[]Yield], error) {
	return query[Yield](ctx, s.c, worstYieldEndpoint, f)
}

// SerialNumberHistory lists every report of the units matched by f.
func (s *Service) SerialNumberHistory(ctx context.Context, f Filter) ([]report.Header, error) {
	return client.ParsedList(s.SerialNumberHistoryDetailed(ctx, f))
}

// SerialNumberHistoryDetailed is like SerialNumberHistory but returns the full response.
func (s *Service) SerialNumberHistoryDetailed(ctx context.Context, f Filter) (*client.Response[[]report.Header], error) {
	return query[report.Header](ctx, s.c, snHistoryEndpoint, f)
}

// UUTReports lists test report headers matched by f.
func (s *Service) UUTReports(ctx context.Context, f Filter) ([]report.Header, error) {
	return client.ParsedList(s.UUTReportsDetailed(ctx, f))
}

// UUTReportsDetailed is like UUTReports but returns the full response.
func (s *Service) UUTReportsDetailed(ctx context.Context, f Filter) (*client.Response[[]report.Header], error) {
	return query[report.Header](ctx, s.c, uutReportsEndpoint, f)
}

// UURReports lists repair report headers matched by f.
func (s *Service) UURReports(ctx context.Context, f Filter) ([]report.Header, error) {
	return client.ParsedList(s.UURReportsDetailed(ctx, f))
}

// UURReportsDetailed is like UURReports but returns the full response.
func (s *Service) UURReportsDetailed(ctx context.Context, f Filter) (*client.Response[[]report.Header], error) {
	return query[report.Header](ctx, s.c, uurReportsEndpoint, f)
}

// AggregatedMeasurements summarizes the measurements in f.MeasurementPaths.
func (s *Service) AggregatedMeasurements(ctx context.Context, f Filter) ([]AggregatedMeasurement, error) {
	return client.ParsedList(s.AggregatedMeasurementsDetailed(ctx, f))
}

// AggregatedMeasurementsDetailed is like AggregatedMeasurements but returns the full response.
func (s *Service) AggregatedMeasurementsDetailed(ctx context.Context, f Filter) (*client.Response[[]AggregatedMeasurement], error) {
	if err := client.Require("measurementPaths", f.MeasurementPaths); err != nil {
		return nil, err
	}
	return query[AggregatedMeasurement](ctx, s.c, aggregatedEndpoint, f)
}

// Measurements returns the individual values of f.MeasurementPaths.
func (s *Service) Measurements(ctx context.Context, f Filter) ([]Measurement, error) {
	return client.ParsedList(s.MeasurementsDetailed(ctx, f))
}

// MeasurementsDetailed is like Measurements but returns the full response.
func (s *Service) MeasurementsDetailed(ctx context.Context, f Filter) (*client.Response[[]Measurement], error) {
	if err := client.Require("measurementPaths", f.MeasurementPaths); err != nil {
		return nil, err
	}
	return query[Measurement](ctx, s.c, measurementsEndpoint, f)
}

// TestStepAnalysis returns per-step execution statistics.
func (s *Service) TestStepAnalysis(ctx context.Context, f Filter) ([]StepAnalysis, error) {
	return client.ParsedList(s.TestStepAnalysisDetailed(ctx, f))
}

// TestStepAnalysisDetailed is like TestStepAnalysis but returns the full response.
func (s *Service) TestStepAnalysisDetailed(ctx context.Context, f Filter) (*client.Response[[]StepAnalysis], error) {
	return query[StepAnalysis](ctx, s.c, stepAnalysisEndpoint, f)
}

// RelatedRepairHistory lists past repairs of a product.
func (s *Service) RelatedRepairHistory(ctx context.Context, q RepairHistoryQuery) ([]RepairHistory, error) {
	return client.ParsedList(s.RelatedRepairHistoryDetailed(ctx, q))
}

// RelatedRepairHistoryDetailed is like RelatedRepairHistory but returns the full response.
func (s *Service) RelatedRepairHistoryDetailed(ctx context.Context, q RepairHistoryQuery) (*client.Response[[]RepairHistory], error) {
	if err := client.Require("partNumber", q.PartNumber); err != nil {
		return nil, err
	}
	return client.Do[[]RepairHistory](ctx, s.c, repairHistoryEndpoint, client.Request{Query: q})
}
