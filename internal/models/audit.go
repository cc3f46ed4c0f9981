package models

import "time"

// Audit actor types.
const (
	AuditActorUser    = "user"
	AuditActorService = "service"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionLogin  = "login"
	AuditActionLogout = "logout"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID           string    `db:"id" json:"id"`
	ActorType    string    `db:"actor_type" json:"actor_type"`
	ActorUserID  *string   `db:"actor_user_id" json:"actor_user_id,omitempty"`
	ActorService string    `db:"actor_service" json:"actor_service"`
	Action       string    `db:"action" json:"action"`
	EntityTable  string    `db:"entity_table" json:"entity_table"`
	EntityID     *string   `db:"entity_id" json:"entity_id,omitempty"`
	AfterData    JSONMap   `db:"after_data" json:"after_data,omitempty"`
	Meta         JSONMap   `db:"meta" json:"meta,omitempty"`
	IPAddress    string    `db:"ip_address" json:"ip_address"`
	UserAgent    string    `db:"user_agent" json:"user_agent"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
