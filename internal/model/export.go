package model

// SessionReport is the summary of an evaluation session.
type SessionReport struct {
	ClassID             string          `json:"class_id"`
	ClassName           string          `json:"class_name"`
	Description         string          `json:"description"`
	DiplomaName         string          `json:"diploma_name"`
	StudentCount        int             `json:"student_count"`
	PresentCount        int             `json:"present_count"`
	Absentees           []string        `json:"absentees"`
	Modules             []ModuleResult  `json:"modules"`
	Students            []StudentResult `json:"students"`
	AllModulesCompleted bool            `json:"all_modules_completed"`
}

// ModuleResult holds completion data for one module.
type ModuleResult struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Code              string           `json:"code"`
	Attended          bool             `json:"attended"`
	IsCompleted       bool             `json:"is_completed"`
	StudentsEvaluated int              `json:"students_evaluated"`
	SubSkills         []SubSkillResult `json:"sub_skills"`
}

// SubSkillResult holds completion data for one sub-skill.
type SubSkillResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	IsCompleted bool   `json:"is_completed"`
	IsDisabled  bool   `json:"is_disabled"`
}

// StudentResult holds one present student's outcome.
type StudentResult struct {
	ID           string   `json:"id"`
	FullName     string   `json:"full_name"`
	TaskName     string   `json:"task_name,omitempty"`
	ScoreCount   int      `json:"score_count"`
	AverageScore float64  `json:"average_score"`
	OverallScore *float64 `json:"overall_score,omitempty"`
}
