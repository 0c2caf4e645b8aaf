package model

import "time"

const (
	TierReach  = "reach"
	TierMatch  = "match"
	TierSafety = "safety"
)

var Tiers = []string{TierReach, TierMatch, TierSafety}

func IsValidTier(t string) bool {
	return t == TierReach || t == TierMatch || t == TierSafety
}

// CollegeMatch is a generated school recommendation. The whole set is
// replaced on every regeneration.
type CollegeMatch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Tier      string    `gorm:"type:varchar(8);not null;check:tier IN ('reach','match','safety')" json:"tier"`
	Reasoning string    `gorm:"type:text;not null" json:"reasoning"`
	FitScore  int       `gorm:"not null" json:"fit_score"`
	Location  string    `gorm:"not null" json:"location"`
	Size      string    `gorm:"not null" json:"size"`
	Notes     string    `gorm:"type:text;not null" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
