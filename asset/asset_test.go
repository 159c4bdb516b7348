package asset

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/internal/watstest"
)

func TestListAndGet(t *testing.T) {
	srv := watstest.New(t)
	id := uuid.New()
	srv.JSON(http.MethodGet, "/api/Asset", http.StatusOK, []map[string]any{
		{"assetId": id.String(), "serialNumber": "FIX-1", "typeId": uuid.NewString(), "state": 1, "runningCount": 120},
	})
	srv.JSON(http.MethodGet, "/api/Asset/{id}", http.StatusOK, map[string]any{
		"assetId": id.String(), "serialNumber": "FIX-1", "parentAssetId": nil,
	})
	svc := New(srv.Client(t))
	ctx := context.Background()

	assets, err := svc.List(ctx, client.ODataQuery{Filter: "state eq 1", Top: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(assets) != 1 || *assets[0].ID != id || assets[0].State != StateInOperation || assets[0].RunningCount != 120 {
		t.Fatalf("assets = %+v", assets)
	}
	if q := srv.Last(t).Query; q.Get("$filter") != "state eq 1" || q.Get("$top") != "50" {
		t.Errorf("query = %v", q)
	}

	a, err := svc.Get(ctx, "FIX-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !a.ParentAssetID.IsNull() {
		t.Error("parentAssetId should decode as explicit null")
	}
	if got := srv.Last(t).Path; got != "/api/Asset/FIX-1" {
		t.Errorf("path = %q", got)
	}
}

func TestRefRequired(t *testing.T) {
	srv := watstest.New(t)
	svc := New(srv.Client(t))
	ctx := context.Background()

	var missing *client.MissingParameterError
	checks := map[string]error{
		"status":    func() error { _, err := svc.Status(ctx, Ref{}); return err }(),
		"delete":    svc.Delete(ctx, ByID(uuid.Nil)),
		"state":     svc.SetState(ctx, Ref{}, StateScrapped),
		"count":     svc.IncrementCount(ctx, Ref{}, 1, false),
		"calibrate": svc.Calibration(ctx, Ref{}, ServiceRecord{}),
	}
	for name, err := range checks {
		if !errors.As(err, &missing) {
			t.Errorf("%s: err = %v, want MissingParameterError", name, err)
		}
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("%d requests sent", n)
	}
}

func TestStatus(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Asset/Status", http.StatusOK, map[string]any{
		"serialNumber": "FIX-1", "alarmState": 1, "messages": []string{"Running count at 85% of limit"},
	})

	st, err := New(srv.Client(t)).Status(context.Background(), BySerial("FIX-1"))
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.AlarmState != AlarmWarning || len(st.Messages) != 1 {
		t.Errorf("status = %+v", st)
	}
	q := srv.Last(t).Query
	if q.Get("serialNumber") != "FIX-1" || q.Has("id") {
		t.Errorf("query = %v", q)
	}
}

func TestCounterAndStateCalls(t *testing.T) {
	srv := watstest.New(t)
	for _, p := range []string{"/api/Asset/State", "/api/Asset/Count", "/api/Asset/ResetRunningCount"} {
		srv.Status(http.MethodPut, p, http.StatusNoContent)
	}
	svc := New(srv.Client(t))
	ctx := context.Background()
	id := uuid.New()

	if err := svc.SetState(ctx, ByID(id), StateInCalibration); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if q := srv.Last(t).Query; q.Get("id") != id.String() || q.Get("state") != "4" {
		t.Errorf("state query = %v", q)
	}

	if err := svc.IncrementCount(ctx, BySerial("FIX-1"), 0, true); err != nil {
		t.Fatalf("IncrementCount: %v", err)
	}
	if q := srv.Last(t).Query; q.Get("increment") != "1" || q.Get("incrementSubAssets") != "true" {
		t.Errorf("count query = %v", q)
	}

	if err := svc.ResetRunningCount(ctx, BySerial("FIX-1"), "new pins"); err != nil {
		t.Fatalf("ResetRunningCount: %v", err)
	}
	if q := srv.Last(t).Query; q.Get("comment") != "new pins" {
		t.Errorf("reset query = %v", q)
	}
}

func TestServiceEvents(t *testing.T) {
	srv := watstest.New(t)
	srv.Status(http.MethodPost, "/api/Asset/Calibration", http.StatusOK)
	srv.Status(http.MethodPost, "/api/Asset/Maintenance", http.StatusOK)
	svc := New(srv.Client(t))
	ctx := context.Background()

	when := client.NewDateTime(time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC))
	if err := svc.Calibration(ctx, BySerial("DMM-7"), ServiceRecord{Date: &when, Comment: "annual"}); err != nil {
		t.Fatalf("Calibration: %v", err)
	}
	q := srv.Last(t).Query
	if q.Get("dateTime") != "2024-05-02T08:30:00Z" || q.Get("comment") != "annual" {
		t.Errorf("calibration query = %v", q)
	}

	if err := svc.Maintenance(ctx, BySerial("DMM-7"), ServiceRecord{}); err != nil {
		t.Fatalf("Maintenance: %v", err)
	}
	if q := srv.Last(t).Query; q.Has("dateTime") || q.Has("comment") {
		t.Errorf("maintenance query = %v", q)
	}
}

func TestPutAndDelete(t *testing.T) {
	srv := watstest.New(t)
	srv.Handle(http.MethodPut, "/api/Asset", func(w http.ResponseWriter, r *http.Request) {
		watstest.WriteJSON(w, http.StatusOK, map[string]any{"assetId": uuid.NewString(), "serialNumber": "FIX-2"})
	})
	srv.Status(http.MethodDelete, "/api/Asset", http.StatusNoContent)
	svc := New(srv.Client(t))
	ctx := context.Background()

	a, err := svc.Put(ctx, &Asset{SerialNumber: "FIX-2", TypeID: uuid.New()})
	if err != nil || a.ID == nil {
		t.Fatalf("Put = %+v, %v", a, err)
	}
	var sent map[string]any
	srv.Last(t).DecodeBody(t, &sent)
	if _, ok := sent["parentAssetId"]; ok {
		t.Error("unset parentAssetId should be omitted")
	}

	var verr *client.ValidationError
	if _, err := svc.Put(ctx, &Asset{SerialNumber: "FIX-3"}); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError for missing typeId", err)
	}

	if err := svc.Delete(ctx, BySerial("FIX-2")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if req := srv.Last(t); req.Method != http.MethodDelete || req.Query.Get("serialNumber") != "FIX-2" {
		t.Errorf("request = %s %v", req.Method, req.Query)
	}
}

func TestTypesSubAssetsAndLog(t *testing.T) {
	srv := watstest.New(t)
	srv.JSON(http.MethodGet, "/api/Asset/Types", http.StatusOK, []map[string]any{{"typeName": "Fixture", "runningCountLimit": 10000}})
	srv.JSON(http.MethodPut, "/api/Asset/Types", http.StatusOK, map[string]any{"typeName": "Probe"})
	srv.JSON(http.MethodGet, "/api/Asset/SubAssets", http.StatusOK, []map[string]any{{"serialNumber": "PIN-1"}})
	srv.JSON(http.MethodGet, "/api/Asset/Log", http.StatusOK, []map[string]any{{"logId": 3, "date": "2024-05-02T08:30:00", "comment": "Calibrated"}})
	svc := New(srv.Client(t))
	ctx := context.Background()

	types, err := svc.Types(ctx)
	if err != nil || len(types) != 1 || *types[0].RunningCountLimit != 10000 {
		t.Fatalf("Types = %+v, %v", types, err)
	}

	var verr *client.ValidationError
	if _, err := svc.PutType(ctx, &Type{Name: "Probe", WarningThreshold: client.Ptr(120.0)}); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
	if typ, err := svc.PutType(ctx, &Type{Name: "Probe", WarningThreshold: client.Ptr(80.0)}); err != nil || typ.Name != "Probe" {
		t.Fatalf("PutType = %+v, %v", typ, err)
	}

	subs, err := svc.SubAssets(ctx, BySerial("FIX-1"), 1)
	if err != nil || len(subs) != 1 {
		t.Fatalf("SubAssets = %+v, %v", subs, err)
	}
	if q := srv.Last(t).Query; q.Get("level") != "1" {
		t.Errorf("query = %v", q)
	}

	id := uuid.New()
	entries, err := svc.LogFor(ctx, id, 5)
	if err != nil || len(entries) != 1 || entries[0].Comment != "Calibrated" {
		t.Fatalf("LogFor = %+v, %v", entries, err)
	}
	q := srv.Last(t).Query
	if q.Get("$filter") != "assetId eq "+id.String() || q.Get("$orderby") != "date desc" {
		t.Errorf("query = %v", q)
	}
}
