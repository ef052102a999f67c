// Package model contains the dispensing domain objects shared across layers.
// I keep it to data shapes; rules that need the database live in the stored procedures.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActionContext carries who did something, where and when. Every write receives it
// explicitly; audit columns are filled from it, never from ambient state.
type ActionContext struct {
	ActorKey  uuid.UUID  `json:"actor_key" validate:"required"`
	DeviceKey *uuid.UUID `json:"device_key,omitempty"`
	UTCNow    time.Time  `json:"utc_now" validate:"required"`
	LocalNow  time.Time  `json:"local_now" validate:"required"`
}

// NewActionContext stamps both clocks from now: UTCNow in UTC, LocalNow in now's own location.
func NewActionContext(actor uuid.UUID, device *uuid.UUID, now time.Time) ActionContext {
	return ActionContext{
		ActorKey:  actor,
		DeviceKey: device,
		UTCNow:    now.UTC(),
		LocalNow:  now,
	}
}

// AdministrationRoute is how a medication is given (oral, IV push, ...).
type AdministrationRoute struct {
	Key             uuid.UUID `json:"key"`
	Name            string    `json:"name" validate:"required,max=50"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=200"`
	SortValue       int       `json:"sort_value" validate:"gte=0"`
	SystemFlag      bool      `json:"system_flag"`
	DeletedFlag     bool      `json:"deleted_flag"`
	LastModifiedUTC time.Time `json:"last_modified_utc"`
}

// Server types known to the dispensing system.
const (
	ServerTypeDatabase    = "database"
	ServerTypeApplication = "application"
	ServerTypeInterface   = "interface"
	ServerTypeReporting   = "reporting"
)

// Server is a host the dispensing devices talk to.
type Server struct {
	Key             uuid.UUID `json:"key"`
	ServerName      string    `json:"server_name" validate:"required,max=100"`
	HostAddress     string    `json:"host_address" validate:"required,max=255,hostname_rfc1123|ip"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=200"`
	ServerType      string    `json:"server_type" validate:"required,oneof=database application interface reporting"`
	ActiveFlag      bool      `json:"active_flag"`
	DeletedFlag     bool      `json:"deleted_flag"`
	LastModifiedUTC time.Time `json:"last_modified_utc"`
}

// TimingRecordPriority ranks medication timing records (STAT, ASAP, routine, ...).
type TimingRecordPriority struct {
	Key             uuid.UUID `json:"key"`
	DisplayCode     string    `json:"display_code" validate:"required,max=20"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=200"`
	SortValue       int       `json:"sort_value" validate:"gte=0"`
	InternalCode    *string   `json:"internal_code,omitempty" validate:"omitempty,max=20"`
	SystemFlag      bool      `json:"system_flag"`
	DeletedFlag     bool      `json:"deleted_flag"`
	LastModifiedUTC time.Time `json:"last_modified_utc"`
}

// AuthenticationEvent is one sign-in attempt at a device or workstation. Events are append-only.
type AuthenticationEvent struct {
	Key                 uuid.UUID  `json:"key"`
	UserAccountKey      *uuid.UUID `json:"user_account_key,omitempty"`
	UserName            string     `json:"user_name" validate:"required,max=100"`
	DispensingDeviceKey *uuid.UUID `json:"dispensing_device_key,omitempty"`
	Method              string     `json:"method" validate:"required,oneof=password fingerprint badge pin"`
	Purpose             string     `json:"purpose" validate:"required,oneof=login witness override verify"`
	Successful          bool       `json:"successful"`
	Message             *string    `json:"message,omitempty" validate:"omitempty,max=500"`
	OccurredUTC         time.Time  `json:"occurred_utc"`
	OccurredLocal       time.Time  `json:"occurred_local"`
}

// Inventory transaction types.
const (
	TransactionIssue   = "issue"
	TransactionReturn  = "return"
	TransactionWaste   = "waste"
	TransactionRestock = "restock"
	TransactionCount   = "count"
	TransactionAdjust  = "adjust"
)

// InventoryTransaction is one quantity movement of an item in a dispensing device.
// Corrections void the original and record a new transaction.
type InventoryTransaction struct {
	Key                 uuid.UUID       `json:"key"`
	DispensingDeviceKey uuid.UUID       `json:"dispensing_device_key" validate:"required"`
	StorageSpaceKey     *uuid.UUID      `json:"storage_space_key,omitempty"`
	ItemKey             uuid.UUID       `json:"item_key" validate:"required"`
	Type                string          `json:"type" validate:"required,oneof=issue return waste restock count adjust"`
	Quantity            decimal.Decimal `json:"quantity" validate:"quantity"`
	UnitOfMeasure       string          `json:"unit_of_measure" validate:"required,max=20"`
	EncounterKey        *uuid.UUID      `json:"encounter_key,omitempty"`
	ActorKey            uuid.UUID       `json:"actor_key"`
	OccurredUTC         time.Time       `json:"occurred_utc"`
	OccurredLocal       time.Time       `json:"occurred_local"`
	VoidedFlag          bool            `json:"voided_flag"`
	VoidedUTC           *time.Time      `json:"voided_utc,omitempty"`
}
