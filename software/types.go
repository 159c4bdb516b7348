package software

import (
	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Status is the release status of a package.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusPending  Status = "Pending"
	StatusReleased Status = "Released"
	StatusRevoked  Status = "Revoked"
)

// Package is a versioned software package distributed to test stations.
type Package struct {
	ID            *uuid.UUID                `json:"packageId,omitempty"`
	Name          string                    `json:"name" validate:"required,max=100"`
	Description   nullable.Nullable[string] `json:"description,omitempty"`
	Version       int                       `json:"version,omitempty" validate:"gte=0"`
	Status        Status                    `json:"status,omitempty" validate:"omitempty,oneof=Draft Pending Released Revoked"`
	InstallOnRoot bool                      `json:"installOnRoot"`
	RootDirectory string                    `json:"rootDirectory,omitempty"`
	Priority      int                       `json:"priority,omitempty"`
	Tags          []Tag                     `json:"tags,omitempty" validate:"dive"`
	CreatedBy     string                    `json:"createdBy,omitempty"`
	Created       *client.DateTime          `json:"createdUtc,omitempty"`
	Modified      *client.DateTime          `json:"modifiedUtc,omitempty"`
}

// Tag is a key/value label used to select packages for stations.
type Tag struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// File is a file contained in a package.
type File struct {
	ID         uuid.UUID `json:"fileId"`
	FileName   string    `json:"fileName"`
	Path       string    `json:"path,omitempty"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum,omitempty"`
	Attributes string    `json:"attributes,omitempty"`
}

// VirtualFolder maps a package location onto a station directory.
type VirtualFolder struct {
	ID          uuid.UUID `json:"virtualFolderId"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description,omitempty"`
}

// NameQuery selects a package by name.
type NameQuery struct {
	Name    string `schema:"name"`
	Status  Status `schema:"status,omitempty"`
	Version int    `schema:"version,omitempty"`
}

// TagQuery selects packages carrying a tag.
type TagQuery struct {
	Tag    string `schema:"tag"`
	Value  string `schema:"value,omitempty"`
	Status Status `schema:"status,omitempty"`
}

type statusQuery struct {
	Status Status `schema:"status"`
}

type uploadQuery struct {
	CleanInstall bool `schema:"clean,omitempty"`
}
