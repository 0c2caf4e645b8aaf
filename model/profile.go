package model

import "time"

// ProfileID is the primary key of the single profile row.
const ProfileID uint = 1

// Profile holds the student's personal details and preferences.
// Exactly one row exists, created by the store on initialization.
type Profile struct {
	ID               uint      `gorm:"primaryKey;autoIncrement:false;check:id = 1" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	HighSchool       string    `gorm:"not null" json:"high_school"`
	GradYear         *int      `json:"grad_year"`
	SATScore         *int      `json:"sat_score"`
	ACTScore         *int      `json:"act_score"`
	MajorInterests   string    `gorm:"type:text;not null" json:"major_interests"`
	Extracurriculars string    `gorm:"type:text;not null" json:"extracurriculars"`
	LocationPref     string    `gorm:"not null" json:"location_pref"`
	SizePref         string    `gorm:"not null" json:"size_pref"`
	Budget           string    `gorm:"not null" json:"budget"`
	SettingPref      string    `gorm:"not null" json:"setting_pref"`
	ImportantFactors string    `gorm:"type:text;not null" json:"important_factors"`
	AdditionalNotes  string    `gorm:"type:text;not null" json:"additional_notes"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profile"
}

// CompletionFields are the profile fields counted by the dashboard's
// completion percentage.
func (p *Profile) CompletionFields() []bool {
	return []bool{
		p.Name != "",
		p.HighSchool != "",
		p.GradYear != nil,
		p.MajorInterests != "",
		p.Extracurriculars != "",
		p.LocationPref != "",
		p.SizePref != "",
		p.Budget != "",
	}
}

// ProfilePatch lists profile fields to change. Nil pointers and unset
// optionals are left untouched.
type ProfilePatch struct {
	Name             *string
	HighSchool       *string
	GradYear         Optional[int]
	SATScore         Optional[int]
	ACTScore         Optional[int]
	MajorInterests   *string
	Extracurriculars *string
	LocationPref     *string
	SizePref         *string
	Budget           *string
	SettingPref      *string
	ImportantFactors *string
	AdditionalNotes  *string
}

// Columns returns the column/value map for a GORM Updates call.
func (p ProfilePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	putString(cols, "name", p.Name)
	putString(cols, "high_school", p.HighSchool)
	putOptional(cols, "grad_year", p.GradYear)
	putOptional(cols, "sat_score", p.SATScore)
	putOptional(cols, "act_score", p.ACTScore)
	putString(cols, "major_interests", p.MajorInterests)
	putString(cols, "extracurriculars", p.Extracurriculars)
	putString(cols, "location_pref", p.LocationPref)
	putString(cols, "size_pref", p.SizePref)
	putString(cols, "budget", p.Budget)
	putString(cols, "setting_pref", p.SettingPref)
	putString(cols, "important_factors", p.ImportantFactors)
	putString(cols, "additional_notes", p.AdditionalNotes)
	return cols
}
