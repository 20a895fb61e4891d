package models

import (
	"encoding/json"
	"time"
)

// PingRequest is the POST /ping payload.
// Fields stay raw so clients may send either JSON strings or native types
// ("1429572087" and 1429572087 are both valid epoch seconds).
type PingRequest struct {
	ClientStartTime  json.RawMessage `json:"client_start_time"`
	LogsetGatherTime json.RawMessage `json:"logset_gather_time"`
	OneFSVersion     json.RawMessage `json:"onefs_version"`
	ESRSEnabled      json.RawMessage `json:"esrs_enabled"`
	ToolVersion      json.RawMessage `json:"tool_version"`
	SRNumber         json.RawMessage `json:"sr_number"`
}

// DiagnosticPing is one stored row of diagnostic_ping_data.
// Rows are written once and never updated. Nil pointers are NULL columns.
type DiagnosticPing struct {
	PingID           int64      `json:"ping_id" gorm:"column:ping_id;primaryKey;autoIncrement"`
	ClientStartTime  *time.Time `json:"client_start_time" gorm:"column:client_start_time"`
	LogsetGatherTime *time.Time `json:"logset_gather_time" gorm:"column:logset_gather_time"`
	OneFSVersion     *string    `json:"onefs_version" gorm:"column:onefs_version;size:64"`
	ESRSEnabled      *bool      `json:"esrs_enabled" gorm:"column:esrs_enabled"`
	ToolVersion      *string    `json:"tool_version" gorm:"column:tool_version;size:64"`
	SRNumber         *int64     `json:"sr_number" gorm:"column:sr_number;check:sr_number >= 0"`
	DBInsertTime     time.Time  `json:"db_insert_time" gorm:"column:db_insert_time;not null"`
}

// TableName pins the GORM table name to the one in schema.sql.
func (DiagnosticPing) TableName() string { return "diagnostic_ping_data" }
