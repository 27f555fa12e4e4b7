package domain

import "time"

// AuditLog records user-visible actions published on the event bus
type AuditLog struct {
	ID      int64     `gorm:"primaryKey" json:"id,string"`
	Actor   string    `gorm:"size:255;index" json:"actor"`
	Action  string    `gorm:"size:64;index" json:"action"`
	Detail  string    `gorm:"type:text" json:"detail"`
	OptTime time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (AuditLog) TableName() string {
	return "audit_log"
}
