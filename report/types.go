package report

import (
	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Type distinguishes test (UUT) and repair (UUR) reports.
type Type string

const (
	TypeUUT Type = "T"
	TypeUUR Type = "R"
)

// Result is the overall outcome code of a report.
type Result string

const (
	ResultPassed     Result = "P"
	ResultFailed     Result = "F"
	ResultError      Result = "E"
	ResultTerminated Result = "T"
)

// StepStatus is the outcome of a single step or measurement.
type StepStatus string

const (
	StepPassed     StepStatus = "P"
	StepFailed     StepStatus = "F"
	StepSkipped    StepStatus = "S"
	StepDone       StepStatus = "D"
	StepError      StepStatus = "E"
	StepTerminated StepStatus = "T"
)

// Header is the summary row returned by report queries.
type Header struct {
	UUID         uuid.UUID        `json:"uuid"`
	ReportType   Type             `json:"reportType,omitempty"`
	PartNumber   string           `json:"partNumber"`
	SerialNumber string           `json:"serialNumber"`
	Revision     string           `json:"revision"`
	BatchNumber  string           `json:"batchNumber,omitempty"`
	ProcessCode  int              `json:"processCode"`
	ProcessName  string           `json:"processName,omitempty"`
	Result       Result           `json:"result"`
	StationName  string           `json:"stationName"`
	Location     string           `json:"location,omitempty"`
	Purpose      string           `json:"purpose,omitempty"`
	Operator     string           `json:"operator,omitempty"`
	Start        client.DateTime  `json:"start"`
	StartUTC     *client.DateTime `json:"startUtc,omitempty"`
	ExecTime     float64          `json:"execTime,omitempty"`
	FixtureID    string           `json:"fixtureId,omitempty"`
	ErrorCode    *int             `json:"errorCode,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// MiscInfoQuery selects report headers by a misc-info key/value pair.
type MiscInfoQuery struct {
	Description string `schema:"description"`
	StringValue string `schema:"stringValue,omitempty"`
	Top         int    `schema:"$top,omitempty"`
}

// AttachmentQuery addresses a report attachment either by its own id or by
// the report and step that carry it.
type AttachmentQuery struct {
	AttachmentID *uuid.UUID `schema:"attachmentId,omitempty"`
	ReportID     *uuid.UUID `schema:"reportId,omitempty"`
	StepID       *int       `schema:"stepId,omitempty"`
}

// Report is a full test or repair report in WSJF form.
type Report struct {
	Type         Type             `json:"type" validate:"required,oneof=T R"`
	ID           uuid.UUID        `json:"id" validate:"required"`
	PartNumber   string           `json:"pn" validate:"required,max=100"`
	SerialNumber string           `json:"sn" validate:"required,max=100"`
	Revision     string           `json:"rev" validate:"required,max=100"`
	ProcessCode  int              `json:"processCode"`
	ProcessName  string           `json:"processName,omitempty"`
	Result       Result           `json:"result" validate:"required,oneof=P F E T"`
	StationName  string           `json:"machineName" validate:"required,max=100"`
	Location     string           `json:"location,omitempty"`
	Purpose      string           `json:"purpose,omitempty"`
	Start        client.DateTime  `json:"start" validate:"required"`
	StartUTC     *client.DateTime `json:"startUTC,omitempty"`
	Origin       string           `json:"origin,omitempty"`
	UUT          *UUTInfo         `json:"uut,omitempty" validate:"required_if=Type T"`
	UUR          *UURInfo         `json:"uur,omitempty" validate:"required_if=Type R"`
	Root         *Step            `json:"root,omitempty"`
	MiscInfos    []MiscInfo       `json:"miscInfos,omitempty" validate:"dive"`
	SubUnits     []SubUnit        `json:"subUnits,omitempty" validate:"dive"`
	Assets       []AssetUsage     `json:"assets,omitempty" validate:"dive"`
}

// UUTInfo holds the test-specific part of a report.
type UUTInfo struct {
	Operator        string  `json:"user" validate:"required"`
	ExecTime        float64 `json:"execTime"`
	BatchSN         string  `json:"batchSN,omitempty"`
	FixtureID       string  `json:"fixtureId,omitempty"`
	TestSocketIndex *int    `json:"testSocketIndex,omitempty"`
	ErrorCode       *int    `json:"errorCode,omitempty"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
	Comment         string  `json:"comment,omitempty"`
}

// UURInfo holds the repair-specific part of a report.
type UURInfo struct {
	Operator     string           `json:"userLoginName" validate:"required"`
	RepairCode   int              `json:"processCode"`
	RefUUT       *uuid.UUID       `json:"refUUT,omitempty"`
	ConfirmDate  *client.DateTime `json:"confirmDate,omitempty"`
	FinalizeDate *client.DateTime `json:"finalizeDate,omitempty"`
	ExecTime     float64          `json:"execTime"`
	Comment      string           `json:"comment,omitempty"`
	Failures     []Failure        `json:"failures,omitempty" validate:"dive"`
}

// Failure is a repair finding attached to a UUR.
type Failure struct {
	Category     string `json:"category" validate:"required"`
	Code         string `json:"code" validate:"required"`
	Comment      string `json:"comment,omitempty"`
	ComponentRef string `json:"comprefArticleNumber,omitempty"`
	StepID       *int   `json:"failedStepId,omitempty"`
}

// Step is a node of the report's step tree.
type Step struct {
	ID           int                  `json:"id"`
	Group        string               `json:"group,omitempty"`
	StepType     string               `json:"stepType,omitempty"`
	Name         string               `json:"name" validate:"required"`
	Status       StepStatus           `json:"status" validate:"required"`
	TotalTime    float64              `json:"totTime,omitempty"`
	ReportText   string               `json:"reportText,omitempty"`
	ErrorCode    *int                 `json:"errorCode,omitempty"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	Numeric      []NumericMeasurement `json:"numericMeas,omitempty" validate:"dive"`
	PassFail     []BooleanMeasurement `json:"booleanMeas,omitempty" validate:"dive"`
	Strings      []StringMeasurement  `json:"stringMeas,omitempty" validate:"dive"`
	Steps        []Step               `json:"steps,omitempty" validate:"dive"`
}

// NumericMeasurement is a measured value with optional limits.
type NumericMeasurement struct {
	Name      string     `json:"name,omitempty"`
	Status    StepStatus `json:"status" validate:"required"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit,omitempty"`
	CompOp    string     `json:"compOp,omitempty"`
	LowLimit  *float64   `json:"lowLimit,omitempty"`
	HighLimit *float64   `json:"highLimit,omitempty"`
}

// BooleanMeasurement is a pass/fail check.
type BooleanMeasurement struct {
	Name   string     `json:"name,omitempty"`
	Status StepStatus `json:"status" validate:"required"`
}

// StringMeasurement compares a string value against a limit.
type StringMeasurement struct {
	Name   string     `json:"name,omitempty"`
	Status StepStatus `json:"status" validate:"required"`
	Value  string     `json:"value"`
	CompOp string     `json:"compOp,omitempty"`
	Limit  string     `json:"limit,omitempty"`
}

// MiscInfo is a free-form key/value attached to a report.
type MiscInfo struct {
	Description string   `json:"description" validate:"required"`
	Text        string   `json:"text,omitempty"`
	Numeric     *float64 `json:"numeric,omitempty"`
}

// SubUnit identifies a component unit built into the reported unit.
type SubUnit struct {
	PartType     string `json:"partType,omitempty"`
	PartNumber   string `json:"pn" validate:"required"`
	SerialNumber string `json:"sn" validate:"required"`
	Revision     string `json:"rev,omitempty"`
}

// AssetUsage records equipment used while producing the report.
type AssetUsage struct {
	SerialNumber string `json:"assetSN" validate:"required"`
	UsageCount   int    `json:"usageCount"`
}

// SubmitResult is the server's acknowledgement of a stored report.
type SubmitResult struct {
	ID  uuid.UUID `json:"ID"`
	URL string    `json:"URL,omitempty"`
}
