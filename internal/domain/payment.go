package domain

import "time"

// Amount sources recorded on a PaymentRecord
const (
	AmountSourceRequest       = "request"
	AmountSourceCatalog       = "catalog"
	AmountSourceDefaultTable  = "default_table"
	AmountSourceGlobalDefault = "global_default"
)

// PaymentRecord ledger row for every payment intent created with the processor
type PaymentRecord struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	ServiceKey      string    `gorm:"size:100;index" json:"service_key"`
	Amount          int64     `json:"amount"`
	Currency        string    `gorm:"size:10" json:"currency"`
	AmountSource    string    `gorm:"size:32" json:"amount_source"`
	PaymentIntentID string    `gorm:"size:255;uniqueIndex" json:"payment_intent_id"`
	UserEmail       string    `gorm:"size:255;index" json:"user_email"`
	Status          string    `gorm:"size:32" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName Specify table name
func (PaymentRecord) TableName() string {
	return "payment_record"
}
