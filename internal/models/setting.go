package models

// Setting is one key/value configuration row. Structured settings (such as
// the grade scale) are stored as JSON in Value.
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// SettingKeyGradeScale is the settings row holding the grade scale JSON.
const SettingKeyGradeScale = "grade_scale"
