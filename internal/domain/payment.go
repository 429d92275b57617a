package domain

import "time"

// PaymentTransaction records one gateway transaction for a plan upgrade.
// Reference is the gateway's transaction reference and carries a unique
// index so the same verified reference can never be applied twice.
type PaymentTransaction struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Reference  string    `gorm:"column:reference;uniqueIndex;size:64" json:"reference"`
	MemorialID string    `gorm:"column:memorial_id;index;size:36" json:"memorial_id"`
	UserID     string    `gorm:"column:user_id;index;size:36" json:"user_id"`
	Plan       Plan      `gorm:"column:plan;size:16" json:"plan"`
	Amount     int64     `gorm:"column:amount" json:"amount"` // minor units
	Currency   string    `gorm:"column:currency;size:8" json:"currency"`
	Status     string    `gorm:"column:status;size:16;default:pending" json:"status"` // pending, applied, failed
	FailReason string    `gorm:"column:fail_reason" json:"fail_reason,omitempty"`
	AppliedAt  *time.Time `gorm:"column:applied_at" json:"applied_at,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// Payment transaction status values
const (
	PaymentStatusPending = "pending"
	PaymentStatusApplied = "applied"
	PaymentStatusFailed  = "failed"
)

// VerifyPaymentRequest is sent by the frontend after gateway checkout
type VerifyPaymentRequest struct {
	Reference  string `json:"reference" binding:"required"`
	MemorialID string `json:"memorial_id" binding:"required"`
	Plan       string `json:"plan" binding:"required,oneof=essence legacy eternal ESSENCE LEGACY ETERNAL"`
}

// UpgradeResponse is returned after a successful plan upgrade
type UpgradeResponse struct {
	MemorialID string `json:"memorial_id"`
	Plan       Plan   `json:"plan"`
	PlanExpiry string `json:"plan_expiry"`
	Reference  string `json:"reference"`
}
