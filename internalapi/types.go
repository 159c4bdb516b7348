package internalapi

import (
	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Process is the internal view of a process, including its repair setup.
type Process struct {
	ID                uuid.UUID `json:"processId"`
	Code              int       `json:"code"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	IsTestOperation   bool      `json:"isTestOperation"`
	IsRepairOperation bool      `json:"isRepairOperation"`
	IsWIPOperation    bool      `json:"isWipOperation"`
	Active            bool      `json:"active"`
	ProcessIndex      int       `json:"processIndex"`
}

// RepairOperation is a repair process with its failure categories.
type RepairOperation struct {
	Code       int              `json:"code"`
	Name       string           `json:"name"`
	Categories []RepairCategory `json:"categories,omitempty"`
}

// RepairCategory groups fail codes.
type RepairCategory struct {
	ID    uuid.UUID  `json:"categoryId"`
	Name  string     `json:"name"`
	Codes []FailCode `json:"failCodes,omitempty"`
}

// FailCode is a selectable repair finding.
type FailCode struct {
	ID          uuid.UUID `json:"failCodeId"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
}

type repairCategoryQuery struct {
	RepairOperation int `schema:"repairOperationCode"`
}

// UnitPhase is a production phase as configured on the server.
type UnitPhase struct {
	ID          int    `json:"phaseId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FlowFilter selects the units whose process flow is analysed.
type FlowFilter struct {
	PartNumber   string           `json:"partNumber,omitempty"`
	Revision     string           `json:"revision,omitempty"`
	SerialNumber string           `json:"serialNumber,omitempty"`
	StationName  string           `json:"stationName,omitempty"`
	DateFrom     *client.DateTime `json:"dateFrom,omitempty"`
	DateTo       *client.DateTime `json:"dateTo,omitempty"`
	Node         string           `json:"node,omitempty"`
	MaxUnits     int              `json:"maxUnits,omitempty" validate:"gte=0"`
}

// Flow is the graph of processes units passed through.
type Flow struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// FlowNode is a process in the flow graph.
type FlowNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitCount int    `json:"unitCount"`
}

// FlowLink counts units moving from one node to another.
type FlowLink struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	UnitCount int    `json:"unitCount"`
}

// FlowUnit is a unit found at a flow node.
type FlowUnit struct {
	SerialNumber string           `json:"serialNumber"`
	PartNumber   string           `json:"partNumber"`
	Revision     string           `json:"revision,omitempty"`
	LastSeen     *client.DateTime `json:"lastSeen,omitempty"`
}

// BoxBuildTemplate lists the child parts an assembly is built from.
type BoxBuildTemplate struct {
	PartNumber string         `json:"partNumber" validate:"required"`
	Revision   string         `json:"revision" validate:"required"`
	Items      []BoxBuildItem `json:"items" validate:"dive"`
}

// BoxBuildItem is one child part of a BoxBuildTemplate.
type BoxBuildItem struct {
	PartNumber   string `json:"partNumber" validate:"required"`
	RevisionMask string `json:"childRevisionMask,omitempty"`
	Quantity     int    `json:"quantity" validate:"gte=1"`
}

type templateQuery struct {
	PartNumber string `schema:"partNumber"`
	Revision   string `schema:"revision"`
}

// AssetFile describes a file stored with an asset.
type AssetFile struct {
	AssetID  uuid.UUID        `json:"assetId"`
	FileName string           `json:"fileName"`
	Size     int64            `json:"size"`
	Uploaded *client.DateTime `json:"uploadedUtc,omitempty"`
}

type assetFileQuery struct {
	AssetID  uuid.UUID `schema:"assetId"`
	FileName string    `schema:"fileName,omitempty"`
}
