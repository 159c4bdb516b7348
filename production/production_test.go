package production

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/internal/watstest"
)

func TestGetUnit(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Production/Unit/{serialNumber}/{partNumber}", http.StatusOK, map[string]any{
		"serialNumber": "SN-1", "partNumber": "PCBA-100", "unitPhaseId": 4, "unitPhase": "Finalized",
		"subUnits": []map[string]any{{"serialNumber": "SN-1a", "partNumber": "PSU"}},
	})

	u, err := New(srv.Client(t)).GetUnit(context.Background(), "SN-1", "PCBA-100")
	if err != nil {
		t.Fatalf("GetUnit: %v", err)
	}
	if u.PhaseID != PhaseFinalized || u.PhaseID.String() != "Finalized" || len(u.SubUnits) != 1 {
		t.Errorf("unit = %+v", u)
	}
	if got := srv.Last(t).Path; got != "/api/Production/Unit/SN-1/PCBA-100" {
		t.Errorf("path = %q", got)
	}
}

func TestGetUnitMissingPartNumber(t *testing.T) {
	srv := watstest.New(t)
	_, err := New(srv.Client(t)).GetUnit(context.Background(), "SN-1", "")
	var missing *client.MissingParameterError
	if !errors.As(err, &missing) || missing.Name != "partNumber" {
		t.Fatalf("err = %v", err)
	}
}

func TestGetUnitVerification(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Production/UnitVerification", http.StatusOK, map[string]any{
		"serialNumber": "SN-1", "status": "Passed", "allProcessesPassedLastRun": true,
		"processes": []map[string]any{{"processCode": 10, "processName": "ICT", "status": "Passed", "totalCount": 2}},
	})
	svc := New(srv.Client(t))

	v, err := svc.GetUnitVerification(context.Background(), UnitQuery{SerialNumber: "SN-1", PartNumber: "PCBA-100"})
	if err != nil {
		t.Fatalf("GetUnitVerification: %v", err)
	}
	if !v.AllProcessesPassedLastRun || len(v.Processes) != 1 || v.Processes[0].TotalCount != 2 {
		t.Errorf("verification = %+v", v)
	}
	q := srv.Last(t).Query
	if q.Get("serialNumber") != "SN-1" || q.Has("revision") {
		t.Errorf("query = %v", q)
	}

	if _, err := svc.GetUnitVerification(context.Background(), UnitQuery{PartNumber: "P"}); err == nil {
		t.Error("expected error for missing serial number")
	}
}

func TestPhaseAndProcessChanges(t *testing.T) {
	srv := watstest.New(t)
	srv.Status(http.MethodPut, "/api/Production/SetUnitPhase", http.StatusOK)
	srv.Status(http.MethodPut, "/api/Production/SetUnitProcess", http.StatusNoContent)
	svc := New(srv.Client(t))

	err := svc.SetUnitPhase(context.Background(), PhaseChange{SerialNumber: "SN-1", PartNumber: "P", Phase: PhaseScrapped})
	if err != nil {
		t.Fatalf("SetUnitPhase: %v", err)
	}
	if q := srv.Last(t).Query; q.Get("phase") != "8" || q.Has("comment") {
		t.Errorf("query = %v", q)
	}

	if err := svc.SetUnitPhase(context.Background(), PhaseChange{SerialNumber: "SN-1", PartNumber: "P"}); err == nil {
		t.Error("expected error for missing phase")
	}

	err = svc.SetUnitProcess(context.Background(), ProcessChange{SerialNumber: "SN-1", PartNumber: "P", ProcessCode: 50, Comment: "rework"})
	if err != nil {
		t.Fatalf("SetUnitProcess: %v", err)
	}
	if q := srv.Last(t).Query; q.Get("processCode") != "50" || q.Get("comment") != "rework" {
		t.Errorf("query = %v", q)
	}
}

func TestChildUnits(t *testing.T) {
	srv := watstest.New(t)
	srv.Status(http.MethodPost, "/api/Production/AddChildUnit", http.StatusOK)
	srv.Status(http.MethodPost, "/api/Production/RemoveChildUnit", http.StatusOK)
	srv.JSON(http.MethodGet, "/api/Production/CheckChildUnits", http.StatusOK, []ChildCheck{
		{PartNumber: "PSU", Required: 1, Attached: 1, Ok: true},
	})
	svc := New(srv.Client(t))
	ctx := context.Background()

	child := ChildUnit{SerialNumber: "SN-1", PartNumber: "BOX", ChildSerialNumber: "PSU-9", ChildPartNumber: "PSU"}
	if err := svc.AddChildUnit(ctx, child); err != nil {
		t.Fatalf("AddChildUnit: %v", err)
	}
	if err := svc.RemoveChildUnit(ctx, child); err != nil {
		t.Fatalf("RemoveChildUnit: %v", err)
	}
	req := srv.Last(t)
	if req.Path != "/api/Production/RemoveChildUnit" || req.Query.Get("childSerialNumber") != "PSU-9" {
		t.Errorf("request = %s %v", req.Path, req.Query)
	}

	var missing *client.MissingParameterError
	child.ChildPartNumber = ""
	if err := svc.AddChildUnit(ctx, child); !errors.As(err, &missing) || missing.Name != "childPartNumber" {
		t.Errorf("err = %v", err)
	}

	checks, err := svc.CheckChildUnits(ctx, ChildCheckQuery{SerialNumber: "SN-1", PartNumber: "BOX"})
	if err != nil || len(checks) != 1 || !checks[0].Ok {
		t.Fatalf("CheckChildUnits = %+v, %v", checks, err)
	}
	if q := srv.Last(t).Query; q.Get("parentSerialNumber") != "SN-1" {
		t.Errorf("query = %v", q)
	}
}

func TestSerialNumbers(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Production/SerialNumbers/Types", http.StatusOK, []SerialNumberType{{Name: "MAC", Format: "00:1A:2B:xx:xx:xx"}})
	srv.JSON(http.MethodPost, "/api/Production/SerialNumbers/Take", http.StatusOK, []string{"00:1A:2B:00:00:01", "00:1A:2B:00:00:02"})
	svc := New(srv.Client(t))
	ctx := context.Background()

	types, err := svc.SerialNumberTypes(ctx)
	if err != nil || len(types) != 1 {
		t.Fatalf("SerialNumberTypes = %+v, %v", types, err)
	}

	got, err := svc.TakeSerialNumbers(ctx, TakeRequest{Type: "MAC", Quantity: 2, RefSN: "SN-1"})
	if err != nil || len(got) != 2 {
		t.Fatalf("TakeSerialNumbers = %v, %v", got, err)
	}
	req := srv.Last(t)
	if req.Header.Get("Content-Type") != client.ContentTypeForm {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	if string(req.Body) != "quantity=2&refSN=SN-1&serialNumberType=MAC" {
		t.Errorf("body = %q", req.Body)
	}

	if _, err := svc.TakeSerialNumbers(ctx, TakeRequest{Quantity: 1}); err == nil {
		t.Error("expected error for missing pool")
	}
}

func TestPutUnitsAndBatches(t *testing.T) {
	srv := watstest.New(t)
	srv.Status(http.MethodPut, "/api/Production/Units", http.StatusOK)
	srv.Status(http.MethodPut, "/api/Production/Batches", http.StatusNoContent)
	svc := New(srv.Client(t))
	ctx := context.Background()

	if err := svc.PutUnits(ctx, []Unit{{SerialNumber: "SN-2", PartNumber: "P"}}); err != nil {
		t.Fatalf("PutUnits: %v", err)
	}
	var sent []map[string]any
	srv.Last(t).DecodeBody(t, &sent)
	if len(sent) != 1 || sent[0]["serialNumber"] != "SN-2" {
		t.Errorf("body = %v", sent)
	}

	var verr *client.ValidationError
	if err := svc.PutUnits(ctx, []Unit{{PartNumber: "P"}}); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}

	if err := svc.PutBatches(ctx, []Batch{{BatchNumber: "B-1", BatchSize: 50}}); err != nil {
		t.Fatalf("PutBatches: %v", err)
	}
}

func TestUnexpectedStatusQuiet(t *testing.T) {
	srv := watstest.New(t)
	srv.Status(http.MethodPut, "/api/Production/SetUnitPhase", http.StatusBadRequest)
	svc := New(srv.Client(t, client.WithRaiseOnUnexpectedStatus(false)))

	resp, err := svc.SetUnitPhaseDetailed(context.Background(), PhaseChange{SerialNumber: "S", PartNumber: "P", Phase: PhaseShipped})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || resp.Parsed != nil {
		t.Errorf("resp = %+v", resp)
	}
}
