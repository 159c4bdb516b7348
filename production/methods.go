package production

import (
	"context"
	"net/http"

	"github.com/olreppe/pyWATS-sub001/client"
)

var (
	getUnitEndpoint           = client.Endpoint{Method: http.MethodGet, Path: "/api/Production/Unit/{serialNumber}/{partNumber}"}
	putUnitsEndpoint          = client.Endpoint{Method: http.MethodPut, Path: "/api/Production/Units", Success: []int{200, 204}}
	verificationEndpoint      = client.Endpoint{Method: http.MethodGet, Path: "/api/Production/UnitVerification"}
	setPhaseEndpoint          = client.Endpoint{Method: http.MethodPut, Path: "/api/Production/SetUnitPhase", Success: []int{200, 204}}
	setProcessEndpoint        = client.Endpoint{Method: http.MethodPut, Path: "/api/Production/SetUnitProcess", Success: []int{200, 204}}
	addChildEndpoint          = client.Endpoint{Method: http.MethodPost, Path: "/api/Production/AddChildUnit", Success: []int{200, 204}}
	removeChildEndpoint       = client.Endpoint{Method: http.MethodPost, Path: "/api/Production/RemoveChildUnit", Success: []int{200, 204}}
	checkChildrenEndpoint     = client.Endpoint{Method: http.MethodGet, Path: "/api/Production/CheckChildUnits"}
	serialNumberTypesEndpoint = client.Endpoint{Method: http.MethodGet, Path: "/api/Production/SerialNumbers/Types"}
	takeSerialsEndpoint       = client.Endpoint{Method: http.MethodPost, Path: "/api/Production/SerialNumbers/Take"}
	putBatchesEndpoint        = client.Endpoint{Method: http.MethodPut, Path: "/api/Production/Batches", Success: []int{200, 204}}
)

// GetUnit returns a unit with its sub-units.
func (s *Service) GetUnit(ctx context.Context, serialNumber, partNumber string) (*Unit, error) {
	return client.Parsed(s.GetUnitDetailed(ctx, serialNumber, partNumber))
}

// GetUnitDetailed is like GetUnit but returns the full response.
func (s *Service) GetUnitDetailed(ctx context.Context, serialNumber, partNumber string) (*client.Response[Unit], error) {
	return client.Do[Unit](ctx, s.c, getUnitEndpoint, client.Request{
		Path: map[string]string{"serialNumber": serialNumber, "partNumber": partNumber},
	})
}

// PutUnits creates or updates units.
func (s *Service) PutUnits(ctx context.Context, units []Unit) error {
	_, err := s.PutUnitsDetailed(ctx, units)
	return err
}

// PutUnitsDetailed is like PutUnits but returns the full response.
func (s *Service) PutUnitsDetailed(ctx context.Context, units []Unit) (*client.Response[client.NoContent], error) {
	return client.Do[client.NoContent](ctx, s.c, putUnitsEndpoint, client.Request{Body: client.JSON(units)})
}

// GetUnitVerification checks a unit against its product's test route.
func (s *Service) GetUnitVerification(ctx context.Context, q UnitQuery) (*Verification, error) {
	return client.Parsed(s.GetUnitVerificationDetailed(ctx, q))
}

// GetUnitVerificationDetailed is like GetUnitVerification but returns the full response.
func (s *Service) GetUnitVerificationDetailed(ctx context.Context, q UnitQuery) (*client.Response[Verification], error) {
	if err := client.Require("serialNumber", q.SerialNumber, "partNumber", q.PartNumber); err != nil {
		return nil, err
	}
	return client.Do[Verification](ctx, s.c, verificationEndpoint, client.Request{Query: q})
}

// SetUnitPhase moves a unit to another production phase.
func (s *Service) SetUnitPhase(ctx context.Context, c PhaseChange) error {
	_, err := s.SetUnitPhaseDetailed(ctx, c)
	return err
}

// SetUnitPhaseDetailed is like SetUnitPhase but returns the full response.
func (s *Service) SetUnitPhaseDetailed(ctx context.Context, c PhaseChange) (*client.Response[client.NoContent], error) {
	if err := client.Require("serialNumber", c.SerialNumber, "partNumber", c.PartNumber); err != nil {
		return nil, err
	}
	if c.Phase == 0 {
		return nil, &client.MissingParameterError{Name: "phase"}
	}
	return client.Do[client.NoContent](ctx, s.c, setPhaseEndpoint, client.Request{Query: c})
}

// SetUnitProcess records the process a unit is in.
func (s *Service) SetUnitProcess(ctx context.Context, c ProcessChange) error {
	_, err := s.SetUnitProcessDetailed(ctx, c)
	return err
}

// SetUnitProcessDetailed is like SetUnitProcess but returns the full response.
func (s *Service) SetUnitProcessDetailed(ctx context.Context, c ProcessChange) (*client.Response[client.NoContent], error) {
	if err := client.Require("serialNumber", c.SerialNumber, "partNumber", c.PartNumber); err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, setProcessEndpoint, client.Request{Query: c})
}

// AddChildUnit attaches a child unit to a parent assembly.
func (s *Service) AddChildUnit(ctx context.Context, c ChildUnit) error {
	_, err := s.AddChildUnitDetailed(ctx, c)
	return err
}

// AddChildUnitDetailed is like AddChildUnit but returns the full response.
func (s *Service) AddChildUnitDetailed(ctx context.Context, c ChildUnit) (*client.Response[client.NoContent], error) {
	return s.childUnit(ctx, addChildEndpoint, c)
}

// RemoveChildUnit detaches a child unit from its parent.
func (s *Service) RemoveChildUnit(ctx context.Context, c ChildUnit) error {
	_, err := s.RemoveChildUnitDetailed(ctx, c)
	return err
}

// RemoveChildUnitDetailed is like RemoveChildUnit but returns the full response.
func (s *Service) RemoveChildUnitDetailed(ctx context.Context, c ChildUnit) (*client.Response[client.NoContent], error) {
	return s.childUnit(ctx, removeChildEndpoint, c)
}

func (s *Service) childUnit(ctx context.Context, ep client.Endpoint, c ChildUnit) (*client.Response[client.NoContent], error) {
	err := client.Require(
		"serialNumber", c.SerialNumber,
		"partNumber", c.PartNumber,
		"childSerialNumber", c.ChildSerialNumber,
		"childPartNumber", c.ChildPartNumber,
	)
	if err != nil {
		return nil, err
	}
	return client.Do[client.NoContent](ctx, s.c, ep, client.Request{Query: c})
}

// CheckChildUnits compares a parent's children with its box-build template.
func (s *Service) CheckChildUnits(ctx context.Context, q ChildCheckQuery) ([]ChildCheck, error) {
	return client.ParsedList(s.CheckChildUnitsDetailed(ctx, q))
}

// CheckChildUnitsDetailed is like CheckChildUnits but returns the full response.
func (s *Service) CheckChildUnitsDetailed(ctx context.Context, q ChildCheckQuery) (*client.Response[[]ChildCheck], error) {
	if err := client.Require("parentSerialNumber", q.SerialNumber, "parentPartNumber", q.PartNumber); err != nil {
		return nil, err
	}
	return client.Do[[]ChildCheck](ctx, s.c, checkChildrenEndpoint, client.Request{Query: q})
}

// SerialNumberTypes lists the serial number pools.
func (s *Service) SerialNumberTypes(ctx context.Context) ([]SerialNumberType, error) {
	return client.ParsedList(s.SerialNumberTypesDetailed(ctx))
}

// SerialNumberTypesDetailed is like SerialNumberTypes but returns the full response.
func (s *Service) SerialNumberTypesDetailed(ctx context.Context) (*client.Response[[]SerialNumberType], error) {
	return client.Do[[]SerialNumberType](ctx, s.c, serialNumberTypesEndpoint, client.Request{})
}

// TakeSerialNumbers reserves serial numbers from a pool.
func (s *Service) TakeSerialNumbers(ctx context.Context, r TakeRequest) ([]string, error) {
	return client.ParsedList(s.TakeSerialNumbersDetailed(ctx, r))
}

// TakeSerialNumbersDetailed is like TakeSerialNumbers but returns the full response.
func (s *Service) TakeSerialNumbersDetailed(ctx context.Context, r TakeRequest) (*client.Response[[]string], error) {
	if r.Type == "" {
		return nil, &client.MissingParameterError{Name: "serialNumberType"}
	}
	if r.Quantity < 1 {
		r.Quantity = 1
	}
	return client.Do[[]string](ctx, s.c, takeSerialsEndpoint, client.Request{Body: client.Form(r)})
}

// PutBatches creates or updates production batches.
func (s *Service) PutBatches(ctx context.Context, batches []Batch) error {
	_, err := s.PutBatchesDetailed(ctx, batches)
	return err
}

// PutBatchesDetailed is like PutBatches but returns the full response.
func (s *Service) PutBatchesDetailed(ctx context.Context, batches []Batch) (*client.Response[client.NoContent], error) {
	return client.Do[client.NoContent](ctx, s.c, putBatchesEndpoint, client.Request{Body: client.JSON(batches)})
}
