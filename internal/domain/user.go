package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                                       // Primary key
	Username     string    `gorm:"unique;not null" json:"username"`                            // Unique username, case-sensitive as stored
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`                     // Hashed password, never serialized
	IsPro        bool      `gorm:"column:is_pro;not null;default:false" json:"isPro"`          // Pro users bypass quota checks
	QuotaTotal   int       `gorm:"column:ai_quota_total;not null;default:3" json:"quotaTotal"` // Lifetime allowance of AI calls
	QuotaUsed    int       `gorm:"column:ai_quota_used;not null;default:0" json:"quotaUsed"`   // Calls consumed so far
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`                            // Creation timestamp
}

// QuotaView is the derived read-only quota snapshot returned to clients
type QuotaView struct {
	Total     int  `json:"total"`     // Lifetime allowance
	Used      int  `json:"used"`      // Calls consumed
	Remaining int  `json:"remaining"` // max(0, total-used), never stored
	IsPro     bool `json:"isPro"`     // Whether quota checks are bypassed
}

// Quota computes the quota view for a user
func (u *User) Quota() QuotaView {
	remaining := u.QuotaTotal - u.QuotaUsed
	// Clamped so a transient over-reservation never leaks a negative number
	if remaining < 0 {
		remaining = 0
	}
	return QuotaView{
		Total:     u.QuotaTotal, // Lifetime allowance
		Used:      u.QuotaUsed,  // Calls consumed
		Remaining: remaining,    // Derived remainder
		IsPro:     u.IsPro,      // Pro flag
	}
}
