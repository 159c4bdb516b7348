package product

import (
	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
)

// State is the lifecycle state of a product or revision.
type State int

const (
	StateInactive State = 0
	StateActive   State = 1
)

// Product is a part number known to WATS.
//
// Description and ProductGroup are tri-state on update: leave them unset to
// keep the stored value, set them to null to clear it.
type Product struct {
	ID           *uuid.UUID                `json:"productId,omitempty"`
	PartNumber   string                    `json:"partNumber" validate:"required,max=100"`
	Name         string                    `json:"name,omitempty"`
	Description  nullable.Nullable[string] `json:"description,omitempty"`
	NonSerial    bool                      `json:"nonSerial"`
	State        State                     `json:"state"`
	ProductGroup nullable.Nullable[string] `json:"productGroup,omitempty"`
	Revisions    []Revision                `json:"revisions,omitempty" validate:"dive"`
	Tags         []Tag                     `json:"tags,omitempty" validate:"dive"`
}

// Revision is one revision of a product.
type Revision struct {
	ID          *uuid.UUID                `json:"productRevisionId,omitempty"`
	PartNumber  string                    `json:"partNumber" validate:"required"`
	Revision    string                    `json:"revision" validate:"required,max=100"`
	Name        string                    `json:"name,omitempty"`
	Description nullable.Nullable[string] `json:"description,omitempty"`
	State       State                     `json:"state"`
	Tags        []Tag                     `json:"tags,omitempty" validate:"dive"`
}

// Tag is a key/value setting attached to a product or revision.
type Tag struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// RevisionQuery addresses a single revision.
type RevisionQuery struct {
	PartNumber string `schema:"partNumber"`
	Revision   string `schema:"revision"`
}

// BOMItem is a line of a bill of materials.
type BOMItem struct {
	PartNumber   string  `json:"partNumber"`
	Revision     string  `json:"revision,omitempty"`
	Description  string  `json:"description,omitempty"`
	Quantity     float64 `json:"quantity"`
	ComponentRef string  `json:"componentRef,omitempty"`
}

// Group is a product group.
type Group struct {
	ID   int    `json:"productGroupId"`
	Name string `json:"name"`
}

// Vendor is a component vendor.
type Vendor struct {
	ID   uuid.UUID `json:"vendorId"`
	Name string    `json:"name"`
}
