package rootcause

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Status is a ticket status. Values are bit flags so they can be combined
// in ticket queries.
type Status int

const (
	StatusOpen       Status = 1
	StatusInProgress Status = 2
	StatusOnHold     Status = 4
	StatusSolved     Status = 8
	StatusClosed     Status = 16
	StatusArchived   Status = 32

	// StatusActive matches every ticket that is not solved, closed or archived.
	StatusActive = StatusOpen | StatusInProgress | StatusOnHold
)

var statusNames = []struct {
	s    Status
	name string
}{
	{StatusOpen, "Open"},
	{StatusInProgress, "InProgress"},
	{StatusOnHold, "OnHold"},
	{StatusSolved, "Solved"},
	{StatusClosed, "Closed"},
	{StatusArchived, "Archived"},
}

func (s Status) String() string {
	var parts []string
	for _, n := range statusNames {
		if s&n.s != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// Priority is a ticket priority.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// Ticket is a root cause investigation.
type Ticket struct {
	ID          *uuid.UUID       `json:"ticketId,omitempty"`
	Number      int              `json:"ticketNumber,omitempty"`
	Subject     string           `json:"subject" validate:"required,max=200"`
	Status      Status           `json:"status,omitempty"`
	Priority    Priority         `json:"priority" validate:"gte=0,lte=2"`
	Assignee    string           `json:"assignee,omitempty"`
	Team        string           `json:"team,omitempty"`
	ReportID    *uuid.UUID       `json:"reportUuid,omitempty"`
	Created     *client.DateTime `json:"createdUtc,omitempty"`
	Updated     *client.DateTime `json:"updatedUtc,omitempty"`
	Tags        []Tag            `json:"tags,omitempty" validate:"dive"`
	Updates     []Update         `json:"history,omitempty"`
	Attachments []uuid.UUID      `json:"attachments,omitempty"`
}

// Tag is a key/value label on a ticket.
type Tag struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// Update changes a ticket and appends an entry to its history. Unset fields
// are left unchanged; a null Assignee unassigns the ticket.
type Update struct {
	TicketID    uuid.UUID                 `json:"ticketId" validate:"required"`
	Subject     string                    `json:"subject,omitempty"`
	Status      Status                    `json:"status,omitempty"`
	Priority    *Priority                 `json:"priority,omitempty"`
	Assignee    nullable.Nullable[string] `json:"assignee,omitempty"`
	Content     string                    `json:"content,omitempty"`
	Attachments []uuid.UUID               `json:"attachments,omitempty"`
	User        string                    `json:"user,omitempty"`
	Date        *client.DateTime          `json:"updateUtc,omitempty"`
}

// TicketQuery filters the ticket list.
type TicketQuery struct {
	Status Status `schema:"status,omitempty"`
	Search string `schema:"searchString,omitempty"`
	Top    int    `schema:"$top,omitempty"`
}

type attachmentQuery struct {
	ID uuid.UUID `schema:"attachmentId"`
}
