package domain

import "time"

const (
	ExchangeStatusProcessing = "processing"
	ExchangeStatusCompleted  = "completed"
)

// ExchangeOrder a simulated USDT -> KRW withdrawal request
type ExchangeOrder struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string" csv:"id"`
	UserEmail     string    `gorm:"size:255;index" json:"user_email" csv:"user_email"`
	UsdtAmount    float64   `json:"usdt_amount" csv:"usdt_amount"`
	KrwAmount     int64     `json:"krw_amount" csv:"krw_amount"`
	Rate          float64   `json:"rate" csv:"rate"`
	FeeKrw        int64     `json:"fee_krw" csv:"fee_krw"`
	BankName      string    `gorm:"size:100" json:"bank_name" csv:"bank_name"`
	BankAccount   string    `gorm:"size:100" json:"bank_account" csv:"bank_account"`
	AccountHolder string    `gorm:"size:100" json:"account_holder" csv:"account_holder"`
	Status        string    `gorm:"size:20;index" json:"status" csv:"status"`
	CreatedAt     time.Time `gorm:"index" json:"created_at" csv:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" csv:"-"`
}

// TableName Specify table name
func (ExchangeOrder) TableName() string {
	return "exchange_order"
}
