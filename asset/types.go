package asset

import (
	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/olreppe/pyWATS-sub001/client"
)

// State is the operational state of an asset.
type State int

const (
	StateUnknown       State = 0
	StateInOperation   State = 1
	StateInTransit     State = 2
	StateInMaintenance State = 3
	StateInCalibration State = 4
	StateInStorage     State = 5
	StateScrapped      State = 6
)

// AlarmState summarizes an asset's limits.
type AlarmState int

const (
	AlarmOK      AlarmState = 0
	AlarmWarning AlarmState = 1
	AlarmAlarm   AlarmState = 2
)

// Asset is a piece of equipment tracked by WATS.
type Asset struct {
	ID                  *uuid.UUID                   `json:"assetId,omitempty"`
	SerialNumber        string                       `json:"serialNumber" validate:"required,max=100"`
	TypeID              uuid.UUID                    `json:"typeId" validate:"required"`
	ParentAssetID       nullable.Nullable[uuid.UUID] `json:"parentAssetId,omitempty"`
	Name                string                       `json:"assetName,omitempty"`
	Description         string                       `json:"description,omitempty"`
	Location            string                       `json:"location,omitempty"`
	State               State                        `json:"state"`
	FirstSeenDate       *client.DateTime             `json:"firstSeenDate,omitempty"`
	LastSeenDate        *client.DateTime             `json:"lastSeenDate,omitempty"`
	LastMaintenanceDate *client.DateTime             `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate *client.DateTime             `json:"nextMaintenanceDate,omitempty"`
	LastCalibrationDate *client.DateTime             `json:"lastCalibrationDate,omitempty"`
	NextCalibrationDate *client.DateTime             `json:"nextCalibrationDate,omitempty"`
	TotalCount          int64                        `json:"totalCount"`
	RunningCount        int64                        `json:"runningCount"`
	Tags                []Tag                        `json:"tags,omitempty" validate:"dive"`
}

// Tag is a key/value setting on an asset.
type Tag struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// Type is an asset type with its usage limits and service intervals.
type Type struct {
	ID                  *uuid.UUID `json:"typeId,omitempty"`
	Name                string     `json:"typeName" validate:"required"`
	RunningCountLimit   *int64     `json:"runningCountLimit,omitempty"`
	TotalCountLimit     *int64     `json:"totalCountLimit,omitempty"`
	MaintenanceInterval *float64   `json:"maintenanceInterval,omitempty"`
	CalibrationInterval *float64   `json:"calibrationInterval,omitempty"`
	WarningThreshold    *float64   `json:"warningThreshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	AlarmThreshold      *float64   `json:"alarmThreshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsReadOnly          bool       `json:"isReadOnly,omitempty"`
}

// Status is the evaluated limit state of an asset.
type Status struct {
	AssetID      uuid.UUID  `json:"assetId"`
	SerialNumber string     `json:"serialNumber"`
	AlarmState   AlarmState `json:"alarmState"`
	Messages     []string   `json:"messages,omitempty"`
	RunningCount int64      `json:"runningCount"`
	TotalCount   int64      `json:"totalCount"`
}

// LogEntry is one line of an asset's history.
type LogEntry struct {
	ID           int             `json:"logId"`
	AssetID      uuid.UUID       `json:"assetId"`
	SerialNumber string          `json:"serialNumber,omitempty"`
	Date         client.DateTime `json:"date"`
	User         string          `json:"user,omitempty"`
	Type         string          `json:"type,omitempty"`
	Comment      string          `json:"comment,omitempty"`
}

// Ref identifies an asset by id or serial number.
type Ref struct {
	ID           *uuid.UUID `schema:"id,omitempty"`
	SerialNumber string     `schema:"serialNumber,omitempty"`
}

// ByID refers to an asset by its id.
func ByID(id uuid.UUID) Ref {
	return Ref{ID: &id}
}

// BySerial refers to an asset by its serial number.
func BySerial(sn string) Ref {
	return Ref{SerialNumber: sn}
}

func (r Ref) check() error {
	if (r.ID == nil || *r.ID == uuid.Nil) && r.SerialNumber == "" {
		return &client.MissingParameterError{Name: "id or serialNumber"}
	}
	return nil
}

type stateQuery struct {
	Ref
	State State `schema:"state"`
}

type countQuery struct {
	Ref
	Increment          int  `schema:"increment"`
	IncrementSubAssets bool `schema:"incrementSubAssets,omitempty"`
}

type commentQuery struct {
	Ref
	Comment string `schema:"comment,omitempty"`
}

// ServiceRecord records a calibration or maintenance event.
type ServiceRecord struct {
	Date    *client.DateTime `schema:"dateTime,omitempty"`
	Comment string           `schema:"comment,omitempty"`
}

type serviceQuery struct {
	Ref
	ServiceRecord
}

type subAssetQuery struct {
	Ref
	Level int `schema:"level,omitempty"`
}
