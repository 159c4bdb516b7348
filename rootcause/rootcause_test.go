package rootcause

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/internal/watstest"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{0, "None"},
		{StatusSolved, "Solved"},
		{StatusActive, "Open|InProgress|OnHold"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestTickets(t *testing.T) {
	srv := watstest.New(t)
	id := uuid.New()
	srv.JSON(http.MethodGet, "/api/RootCause/Tickets", http.StatusOK, []map[string]any{
		{"ticketId": id.String(), "ticketNumber": 42, "subject": "ICT false failures", "status": 2, "priority": 2},
	})
	srv.JSON(http.MethodGet, "/api/RootCause/Ticket/{id}", http.StatusOK, map[string]any{
		"ticketId": id.String(), "subject": "ICT false failures",
		"history": []map[string]any{{"ticketId": id.String(), "content": "Probe worn", "user": "anna"}},
	})
	svc := New(srv.Client(t))
	ctx := context.Background()

	tickets, err := svc.Tickets(ctx, TicketQuery{Search: "ICT"})
	if err != nil || len(tickets) != 1 || tickets[0].Priority != PriorityHigh || tickets[0].Status != StatusInProgress {
		t.Fatalf("Tickets = %+v, %v", tickets, err)
	}
	if q := srv.Last(t).Query; q.Get("status") != "7" || q.Get("searchString") != "ICT" {
		t.Errorf("query = %v", q)
	}

	tk, err := svc.GetTicket(ctx, id)
	if err != nil || len(tk.Updates) != 1 || tk.Updates[0].Content != "Probe worn" {
		t.Fatalf("GetTicket = %+v, %v", tk, err)
	}
}

func TestCreateAndUpdate(t *testing.T) {
	srv := watstest.New(t)
	id := uuid.New()
	srv.JSON(http.MethodPost, "/api/RootCause/Ticket", http.StatusCreated, map[string]any{"ticketId": id.String(), "subject": "x", "status": 1})
	srv.JSON(http.MethodPut, "/api/RootCause/Ticket", http.StatusOK, map[string]any{"ticketId": id.String(), "subject": "x", "status": 8})
	svc := New(srv.Client(t))
	ctx := context.Background()

	var verr *client.ValidationError
	if _, err := svc.Create(ctx, &Ticket{Priority: PriorityLow}); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}

	created, err := svc.Create(ctx, &Ticket{Subject: "x", Priority: PriorityMedium})
	if err != nil || *created.ID != id || created.Status != StatusOpen {
		t.Fatalf("Create = %+v, %v", created, err)
	}

	updated, err := svc.Update(ctx, &Update{
		TicketID: id,
		Status:   StatusSolved,
		Assignee: nullable.NewNullNullable[string](),
		Content:  "Replaced fixture pogo pins",
	})
	if err != nil || updated.Status != StatusSolved {
		t.Fatalf("Update = %+v, %v", updated, err)
	}
	var sent map[string]any
	srv.Last(t).DecodeBody(t, &sent)
	if v, ok := sent["assignee"]; !ok || v != nil {
		t.Errorf("assignee = %v (present %v), want null", v, ok)
	}
	if _, ok := sent["priority"]; ok {
		t.Error("unset priority should be omitted")
	}

	if _, err := svc.Update(ctx, &Update{Content: "no id"}); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestArchive(t *testing.T) {
	srv := watstest.New(t)
	srv.Status(http.MethodPost, "/api/RootCause/ArchiveTickets", http.StatusNoContent)
	svc := New(srv.Client(t))

	if err := svc.Archive(context.Background()); err == nil {
		t.Error("expected error without ids")
	}
	a, b := uuid.New(), uuid.New()
	if err := svc.Archive(context.Background(), a, b); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	var sent []uuid.UUID
	srv.Last(t).DecodeBody(t, &sent)
	if len(sent) != 2 || sent[0] != a || sent[1] != b {
		t.Errorf("body = %v", sent)
	}
}

func TestAttachments(t *testing.T) {
	srv := watstest.New(t)
	attID := uuid.New()
	srv.Handle(http.MethodPost, "/api/RootCause/Attachment", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "scope.png" || string(data) != "png-bytes" {
			http.Error(w, "unexpected upload", http.StatusBadRequest)
			return
		}
		watstest.WriteJSON(w, http.StatusOK, attID)
	})
	srv.Bytes(http.MethodGet, "/api/RootCause/Attachment", "image/png", []byte("png-bytes"))
	svc := New(srv.Client(t))
	ctx := context.Background()

	got, err := svc.UploadAttachment(ctx, "scope.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil || got != attID {
		t.Fatalf("UploadAttachment = %v, %v", got, err)
	}

	data, err := svc.GetAttachment(ctx, attID)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("GetAttachment = %q, %v", data, err)
	}
	if q := srv.Last(t).Query; q.Get("attachmentId") != attID.String() {
		t.Errorf("query = %v", q)
	}

	if _, err := svc.GetAttachment(ctx, uuid.Nil); err == nil {
		t.Error("expected error for nil id")
	}
}
