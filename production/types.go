package production

import (
	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Phase is a unit's production phase. The values are the bit flags WATS uses.
type Phase int

const (
	PhaseUnderProduction Phase = 1
	PhaseQueued          Phase = 2
	PhaseFinalized       Phase = 4
	PhaseScrapped        Phase = 8
	PhaseExtendedTest    Phase = 16
	PhaseCustomization   Phase = 32
	PhaseRepaired        Phase = 64
	PhaseMissing         Phase = 128
	PhaseInStorage       Phase = 256
	PhaseShipped         Phase = 512
)

var phaseNames = map[Phase]string{
	PhaseUnderProduction: "Under production",
	PhaseQueued:          "Production queued",
	PhaseFinalized:       "Finalized",
	PhaseScrapped:        "Scrapped",
	PhaseExtendedTest:    "Extended test",
	PhaseCustomization:   "Customization",
	PhaseRepaired:        "Repaired",
	PhaseMissing:         "Missing",
	PhaseInStorage:       "In storage",
	PhaseShipped:         "Shipped",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Unit is a serialized unit under production.
type Unit struct {
	SerialNumber       string           `json:"serialNumber" validate:"required,max=100"`
	PartNumber         string           `json:"partNumber" validate:"required,max=100"`
	Revision           string           `json:"revision,omitempty"`
	ParentSerialNumber string           `json:"parentSerialNumber,omitempty"`
	BatchNumber        string           `json:"batchNumber,omitempty"`
	SerialDate         *client.DateTime `json:"serialDate,omitempty"`
	CurrentLocation    string           `json:"currentLocation,omitempty"`
	PhaseID            Phase            `json:"unitPhaseId,omitempty"`
	Phase              string           `json:"unitPhase,omitempty"`
	ProcessCode        *int             `json:"processCode,omitempty"`
	Tags               []Tag            `json:"tags,omitempty" validate:"dive"`
	SubUnits           []Unit           `json:"subUnits,omitempty" validate:"dive"`
}

// Tag is a key/value setting on a unit.
type Tag struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// UnitQuery identifies a unit for verification.
type UnitQuery struct {
	SerialNumber string `schema:"serialNumber"`
	PartNumber   string `schema:"partNumber"`
	Revision     string `schema:"revision,omitempty"`
}

// Verification is the route/grade check of a unit.
type Verification struct {
	SerialNumber               string                `json:"serialNumber"`
	PartNumber                 string                `json:"partNumber"`
	Revision                   string                `json:"revision"`
	ProcessCode                int                   `json:"processCode"`
	ProcessName                string                `json:"processName"`
	Status                     string                `json:"status"`
	Grade                      string                `json:"grade,omitempty"`
	AllProcessesPassedFirstRun bool                  `json:"allProcessesPassedFirstRun"`
	AllProcessesPassedLastRun  bool                  `json:"allProcessesPassedLastRun"`
	Processes                  []ProcessVerification `json:"processes,omitempty"`
}

// ProcessVerification is the per-process part of a Verification.
type ProcessVerification struct {
	ProcessCode    int              `json:"processCode"`
	ProcessName    string           `json:"processName"`
	ProcessIndex   int              `json:"processIndex"`
	Status         string           `json:"status"`
	Start          *client.DateTime `json:"start,omitempty"`
	ReportID       *uuid.UUID       `json:"reportId,omitempty"`
	TotalCount     int              `json:"totalCount"`
	NonPassedCount int              `json:"nonPassedCount"`
	RepairCount    int              `json:"repairCount"`
}

// PhaseChange moves a unit to another phase.
type PhaseChange struct {
	SerialNumber string `schema:"serialNumber"`
	PartNumber   string `schema:"partNumber"`
	Phase        Phase  `schema:"phase"`
	Comment      string `schema:"comment,omitempty"`
}

// ProcessChange records the process a unit is currently in.
type ProcessChange struct {
	SerialNumber string `schema:"serialNumber"`
	PartNumber   string `schema:"partNumber"`
	ProcessCode  int    `schema:"processCode"`
	Comment      string `schema:"comment,omitempty"`
}

// ChildUnit links a child unit to its parent assembly.
type ChildUnit struct {
	SerialNumber      string `schema:"serialNumber"`
	PartNumber        string `schema:"partNumber"`
	ChildSerialNumber string `schema:"childSerialNumber"`
	ChildPartNumber   string `schema:"childPartNumber"`
	CheckPartNumber   string `schema:"checkPartNumber,omitempty"`
	CheckRevision     string `schema:"checkRevision,omitempty"`
}

// ChildCheckQuery selects the parent whose box-build children are checked.
type ChildCheckQuery struct {
	SerialNumber string `schema:"parentSerialNumber"`
	PartNumber   string `schema:"parentPartNumber"`
	Revision     string `schema:"parentRevision,omitempty"`
}

// ChildCheck compares the attached children with the box-build template.
type ChildCheck struct {
	PartNumber    string   `json:"partNumber"`
	Revision      string   `json:"revision,omitempty"`
	Required      int      `json:"quantity"`
	Attached      int      `json:"attached"`
	SerialNumbers []string `json:"serialNumbers,omitempty"`
	Ok            bool     `json:"ok"`
}

// SerialNumberType is a serial number pool definition.
type SerialNumberType struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
	RegEx       string `json:"regEx,omitempty"`
}

// TakeRequest reserves serial numbers from a pool. It is sent as a form.
type TakeRequest struct {
	Type           string `schema:"serialNumberType"`
	Quantity       int    `schema:"quantity"`
	RefSN          string `schema:"refSN,omitempty"`
	RefPN          string `schema:"refPN,omitempty"`
	RefStation     string `schema:"refStation,omitempty"`
	OnlyInSequence bool   `schema:"onlyInSequence,omitempty"`
}

// Batch is a production batch.
type Batch struct {
	BatchNumber string `json:"batchNumber" validate:"required"`
	PartNumber  string `json:"partNumber,omitempty"`
	Revision    string `json:"revision,omitempty"`
	BatchSize   int    `json:"batchSize,omitempty" validate:"gte=0"`
}
