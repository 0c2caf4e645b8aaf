package model

import "time"

const (
	DefaultApplicationStatus = "Researching"
	DefaultAppType           = "Regular Decision"
	DefaultEssayStatus       = "Not Started"
)

// Application tracks the state of one college application.
type Application struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CollegeName    string    `gorm:"not null" json:"college_name"`
	Status         string    `gorm:"not null" json:"status"`
	Deadline       *string   `gorm:"type:varchar(10)" json:"deadline"`
	AppType        string    `gorm:"not null" json:"app_type"`
	EssayStatus    string    `gorm:"not null" json:"essay_status"`
	LORCount       int       `gorm:"column:lor_count;not null" json:"lor_count"`
	TranscriptSent bool      `gorm:"not null" json:"transcript_sent"`
	TestScoresSent bool      `gorm:"not null" json:"test_scores_sent"`
	FinancialAid   bool      `gorm:"not null" json:"financial_aid"`
	Notes          string    `gorm:"type:text;not null" json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ApplicationPatch lists application fields to change.
type ApplicationPatch struct {
	CollegeName    *string
	Status         *string
	Deadline       Optional[string]
	AppType        *string
	EssayStatus    *string
	LORCount       *int
	TranscriptSent *bool
	TestScoresSent *bool
	FinancialAid   *bool
	Notes          *string
}

func (p ApplicationPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	putString(cols, "college_name", p.CollegeName)
	putString(cols, "status", p.Status)
	putOptional(cols, "deadline", p.Deadline)
	putString(cols, "app_type", p.AppType)
	putString(cols, "essay_status", p.EssayStatus)
	putValue(cols, "lor_count", p.LORCount)
	putValue(cols, "transcript_sent", p.TranscriptSent)
	putValue(cols, "test_scores_sent", p.TestScoresSent)
	putValue(cols, "financial_aid", p.FinancialAid)
	putString(cols, "notes", p.Notes)
	return cols
}
