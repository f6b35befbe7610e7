package model

import "time"

// ClassSnapshot is the class data handed to the session when a class is
// selected. Field names match the upstream class API.
type ClassSnapshot struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Evaluations []string       `json:"evaluations" yaml:"evaluations"`
	Students    []ClassStudent `json:"students" yaml:"students"`
	Templates   []TaskTemplate `json:"templates" yaml:"templates"`
}

// ClassStudent is a student as listed by the class API.
type ClassStudent struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
}

// TaskTemplate is a class's instance of a task, with the modules it evaluates.
type TaskTemplate struct {
	ID       string        `json:"id" yaml:"id"`
	TaskName string        `json:"taskName" yaml:"taskName"`
	Task     TaskInfo      `json:"task" yaml:"task"`
	Modules  []ModuleInput `json:"modules" yaml:"modules"`
}

// TaskID returns the identifier students are assigned by: the template id,
// or the underlying task id when the template has none.
func (t TaskTemplate) TaskID() string {
	if t.ID != "" {
		return t.ID
	}
	return t.Task.ID
}

// DisplayName returns the template's task name, falling back to the task's.
func (t TaskTemplate) DisplayName() string {
	if t.TaskName != "" {
		return t.TaskName
	}
	return t.Task.Name
}

// TaskInfo describes the underlying task.
type TaskInfo struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ModuleInput is a module as declared by a task template.
type ModuleInput struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Code      string          `json:"code" yaml:"code"`
	SubSkills []SubSkillInput `json:"subSkills" yaml:"subSkills"`
}

// SubSkillInput is a sub-skill as declared by a module.
type SubSkillInput struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// ClassSummary is a catalog listing entry.
type ClassSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StudentCount int       `json:"student_count"`
	TaskCount    int       `json:"task_count"`
	ImportedAt   time.Time `json:"imported_at"`
}
