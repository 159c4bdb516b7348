package analytics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/olreppe/pyWATS-sub001/client"
)

// DateGrouping is the period size used to bucket statistics.
type DateGrouping string

const (
	GroupByYear    DateGrouping = "YEAR"
	GroupByQuarter DateGrouping = "QUARTER"
	GroupByMonth   DateGrouping = "MONTH"
	GroupByWeek    DateGrouping = "WEEK"
	GroupByDay     DateGrouping = "DAY"
	GroupByHour    DateGrouping = "HOUR"
)

// Filter is the filter document shared by all statistics endpoints. Empty
// fields do not restrict the result.
type Filter struct {
	SerialNumber         string           `json:"serialNumber,omitempty"`
	PartNumber           string           `json:"partNumber,omitempty"`
	Revision             string           `json:"revision,omitempty"`
	BatchNumber          string           `json:"batchNumber,omitempty"`
	StationName          string           `json:"stationName,omitempty"`
	TestOperation        string           `json:"testOperation,omitempty"`
	Status               string           `json:"status,omitempty"`
	MiscDescription      string           `json:"miscDescription,omitempty"`
	MiscValue            string           `json:"miscValue,omitempty"`
	ProductGroup         string           `json:"productGroup,omitempty"`
	Level                string           `json:"level,omitempty"`
	SWFilename           string           `json:"swFilename,omitempty"`
	SWVersion            string           `json:"swVersion,omitempty"`
	Socket               string           `json:"socket,omitempty"`
	DateFrom             *client.DateTime `json:"dateFrom,omitempty"`
	DateTo               *client.DateTime `json:"dateTo,omitempty"`
	DateGrouping         DateGrouping     `json:"dateGrouping,omitempty" validate:"omitempty,oneof=YEAR QUARTER MONTH WEEK DAY HOUR"`
	PeriodCount          int              `json:"periodCount,omitempty" validate:"gte=0"`
	IncludeCurrentPeriod *bool            `json:"includeCurrentPeriod,omitempty"`
	MaxCount             int              `json:"maxCount,omitempty" validate:"gte=0"`
	MinCount             int              `json:"minCount,omitempty" validate:"gte=0"`
	TopCount             int              `json:"topCount,omitempty" validate:"gte=0"`
	Dimensions           string           `json:"dimensions,omitempty"`
	MeasurementPaths     string           `json:"measurementPaths,omitempty"`
}

// ServerVersion is the WATS server version string.
type ServerVersion string

// Level is a level in the production hierarchy (site, line, cell).
type Level struct {
	ID   int    `json:"levelId"`
	Name string `json:"levelName"`
}

// ProductGroup is a product group usable as a filter value.
type ProductGroup struct {
	ID   int    `json:"productGroupId"`
	Name string `json:"productGroupName"`
}

// Yield is one row of a yield statistic, grouped by the requested
// dimensions and period.
type Yield struct {
	PartNumber    string  `json:"partNumber,omitempty"`
	Revision      string  `json:"revision,omitempty"`
	ProductName   string  `json:"productName,omitempty"`
	ProductGroup  string  `json:"productGroup,omitempty"`
	StationName   string  `json:"stationName,omitempty"`
	TestOperation string  `json:"testOperation,omitempty"`
	Period        string  `json:"period,omitempty"`
	UnitCount     int     `json:"unitCount"`
	FirstPass     int     `json:"fpCount"`
	SecondPass    int     `json:"spCount"`
	ThirdPass     int     `json:"tpCount"`
	LastPass      int     `json:"lpCount"`
	FPY           float64 `json:"fpy"`
	SPY           float64 `json:"spy"`
	TPY           float64 `json:"tpy"`
	LPY           float64 `json:"lpy"`
}

// Repair is one row of a repair statistic.
type Repair struct {
	PartNumber      string `json:"partNumber,omitempty"`
	Revision        string `json:"revision,omitempty"`
	RepairOperation string `json:"repairOperation,omitempty"`
	Period          string `json:"period,omitempty"`
	FailCategory    string `json:"failCategory,omitempty"`
	FailCode        string `json:"failCode,omitempty"`
	RepairCount     int    `json:"repairCount"`
	ReportCount     int    `json:"repairReportCount"`
}

// FailedStep is a step ranked by its failure count.
type FailedStep struct {
	StepName   string  `json:"stepName"`
	StepPath   string  `json:"stepPath,omitempty"`
	StepType   string  `json:"stepType,omitempty"`
	StepGroup  string  `json:"stepGroup,omitempty"`
	FailCount  int     `json:"failCount"`
	TotalCount int     `json:"totalCount"`
	FailRate   float64 `json:"failRate,omitempty"`
}

// AggregatedMeasurement summarizes all values of one measurement path.
type AggregatedMeasurement struct {
	MeasurementPath string   `json:"measurementPath"`
	Count           int      `json:"count"`
	Min             float64  `json:"min"`
	Max             float64  `json:"max"`
	Avg             float64  `json:"avg"`
	StdDev          float64  `json:"stdev"`
	Cp              *float64 `json:"cp,omitempty"`
	Cpk             *float64 `json:"cpk,omitempty"`
	LowLimit        *float64 `json:"limitLow,omitempty"`
	HighLimit       *float64 `json:"limitHigh,omitempty"`
}

// Measurement is a single measured value with its report context.
type Measurement struct {
	ReportID        uuid.UUID       `json:"reportId"`
	SerialNumber    string          `json:"serialNumber"`
	PartNumber      string          `json:"partNumber"`
	Start           client.DateTime `json:"start"`
	StepName        string          `json:"stepName"`
	MeasurementPath string          `json:"measurementPath"`
	Value           float64         `json:"value"`
	Unit            string          `json:"unit,omitempty"`
	Status          string          `json:"status"`
	LowLimit        *float64        `json:"limitLow,omitempty"`
	HighLimit       *float64        `json:"limitHigh,omitempty"`
}

// StepAnalysis is the execution statistic of one step.
type StepAnalysis struct {
	StepName        string  `json:"stepName"`
	StepPath        string  `json:"stepPath"`
	StepType        string  `json:"stepType,omitempty"`
	StepCount       int     `json:"stepCount"`
	PassedCount     int     `json:"stepPassedCount"`
	FailedCount     int     `json:"stepFailedCount"`
	ErrorCount      int     `json:"stepErrorCount"`
	TerminatedCount int     `json:"stepTerminatedCount"`
	AvgTime         float64 `json:"avgTime"`
	MinTime         float64 `json:"minTime"`
	MaxTime         float64 `json:"maxTime"`
}

// RepairHistoryQuery selects the product whose repairs are listed.
type RepairHistoryQuery struct {
	PartNumber string `schema:"partNumber"`
	Revision   string `schema:"revision,omitempty"`
	Top        int    `schema:"$top,omitempty"`
}

// RepairHistory is a past repair related to a product.
type RepairHistory struct {
	SerialNumber   string          `json:"serialNumber"`
	PartNumber     string          `json:"partNumber"`
	RepairReportID uuid.UUID       `json:"repairReportId"`
	RepairDate     client.DateTime `json:"repairDate"`
	FailCategory   string          `json:"failCategory,omitempty"`
	FailCode       string          `json:"failCode,omitempty"`
	Component      string          `json:"component,omitempty"`
	Comment        string          `json:"comment,omitempty"`
}

func (f *Filter) check() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(f.DateFrom.Time) {
		return fmt.Errorf("filter: dateTo %s is before dateFrom %s", f.DateTo, f.DateFrom)
	}
	return nil
}
