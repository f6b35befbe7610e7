package model

import (
	"strings"

	"github.com/AdiDevClick/teachboard/internal/orderedmap"
)

// Session holds scalar metadata about the class currently being evaluated.
type Session struct {
	ClassID     string   `json:"class_id"`
	Description string   `json:"description"`
	ClassName   string   `json:"class_name"`
	DiplomaName string   `json:"diploma_name"`
	Evaluations []string `json:"evaluations"`
}

// TaskRef identifies the task a student is assigned to.
type TaskRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Student is a member of the loaded class.
type Student struct {
	ID           string
	FirstName    string
	LastName     string
	FullName     string
	IsPresent    bool
	AssignedTask *TaskRef
	// Evaluations is created on the first recorded score.
	Evaluations *StudentEvaluation
	// OverallScore is a manual override on a 0-4 scale; nil when unset.
	OverallScore *float64
}

// NewStudent builds an absent, unassigned student.
func NewStudent(id, firstName, lastName string) *Student {
	return &Student{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		FullName:  FullName(firstName, lastName),
	}
}

// FullName joins first and last names, skipping empty parts.
func FullName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// Clone returns a deep copy.
func (s *Student) Clone() *Student {
	cp := *s
	if s.AssignedTask != nil {
		t := *s.AssignedTask
		cp.AssignedTask = &t
	}
	if s.Evaluations != nil {
		cp.Evaluations = s.Evaluations.Clone()
	}
	if s.OverallScore != nil {
		v := *s.OverallScore
		cp.OverallScore = &v
	}
	return &cp
}

// AssignedTaskID returns the assigned task id or "".
func (s *Student) AssignedTaskID() string {
	if s.AssignedTask == nil {
		return ""
	}
	return s.AssignedTask.ID
}

// Task is the snapshot of the modules a task template declares at load time.
// The authoritative per-session module state lives in the session's module map.
type Task struct {
	ID          string
	Name        string
	Description string
	Modules     *orderedmap.Map[string, *Module]
}

// Clone returns a deep copy.
func (t *Task) Clone() *Task {
	cp := *t
	cp.Modules = t.Modules.CloneFunc((*Module).Clone)
	return &cp
}

// Module groups sub-skills. One record exists per module id no matter how many
// tasks reference it; TasksList accumulates those tasks.
type Module struct {
	ID                 string
	Name               string
	Code               string
	SubSkills          *orderedmap.Map[string, *SubSkill]
	TasksList          IDSet
	StudentsToEvaluate IDSet
	IsCompleted        bool
}

// NewModule builds a module with every collection allocated.
func NewModule(id, name, code string) *Module {
	return &Module{
		ID:                 id,
		Name:               name,
		Code:               code,
		SubSkills:          orderedmap.New[string, *SubSkill](),
		TasksList:          NewIDSet(),
		StudentsToEvaluate: NewIDSet(),
	}
}

// Clone returns a deep copy.
func (m *Module) Clone() *Module {
	cp := *m
	cp.SubSkills = m.SubSkills.CloneFunc((*SubSkill).Clone)
	cp.TasksList = m.TasksList.Clone()
	cp.StudentsToEvaluate = m.StudentsToEvaluate.Clone()
	return &cp
}

// SubSkillsDone reports whether every sub-skill is completed or disabled.
func (m *Module) SubSkillsDone() bool {
	for _, s := range m.SubSkills.All() {
		if !s.IsCompleted && !s.IsDisabled {
			return false
		}
	}
	return true
}

// SubSkill is the finest-grained criterion. LinkedTasks lists the tasks that
// actually require it, which may be a subset of the owning module's tasks.
type SubSkill struct {
	ID          string
	Name        string
	Code        string
	LinkedTasks IDSet
	IsCompleted bool
	IsDisabled  bool
}

// NewSubSkill builds a sub-skill linked to the given tasks.
func NewSubSkill(id, name, code string, taskIDs ...string) *SubSkill {
	return &SubSkill{ID: id, Name: name, Code: code, LinkedTasks: NewIDSet(taskIDs...)}
}

// Clone returns a deep copy. A nil link set stays nil.
func (s *SubSkill) Clone() *SubSkill {
	cp := *s
	if s.LinkedTasks != nil {
		cp.LinkedTasks = s.LinkedTasks.Clone()
	}
	return &cp
}

// StudentEvaluation holds a student's recorded scores by module.
type StudentEvaluation struct {
	Modules *orderedmap.Map[string, *ModuleEval]
}

// NewStudentEvaluation builds an empty evaluation.
func NewStudentEvaluation() *StudentEvaluation {
	return &StudentEvaluation{Modules: orderedmap.New[string, *ModuleEval]()}
}

// Clone returns a deep copy.
func (e *StudentEvaluation) Clone() *StudentEvaluation {
	return &StudentEvaluation{Modules: e.Modules.CloneFunc((*ModuleEval).Clone)}
}

// Score looks up the score recorded for a (module, sub-skill) pair.
func (e *StudentEvaluation) Score(moduleID, subSkillID string) (float64, bool) {
	if e == nil {
		return 0, false
	}
	me, ok := e.Modules.Get(moduleID)
	if !ok {
		return 0, false
	}
	se, ok := me.SubSkills.Get(subSkillID)
	if !ok {
		return 0, false
	}
	return se.Score, true
}

// ModuleEval holds scores for one module.
type ModuleEval struct {
	ID        string
	Name      string
	Code      string
	SubSkills *orderedmap.Map[string, SubSkillEval]
}

// NewModuleEval builds an empty module evaluation.
func NewModuleEval(id, name, code string) *ModuleEval {
	return &ModuleEval{ID: id, Name: name, Code: code, SubSkills: orderedmap.New[string, SubSkillEval]()}
}

// Clone returns a deep copy.
func (m *ModuleEval) Clone() *ModuleEval {
	cp := *m
	cp.SubSkills = m.SubSkills.Clone()
	return &cp
}

// SubSkillEval is one recorded score.
type SubSkillEval struct {
	ID    string
	Name  string
	Code  string
	Score float64
}

// ModuleSelection is the module cursor shared by the evaluation views.
type ModuleSelection struct {
	IsClicked           bool
	SelectedModuleIndex int
	SelectedModuleID    string
}

// SubSkillSelection is the sub-skill cursor within the selected module.
type SubSkillSelection struct {
	SelectedSubSkillIndex int
	SelectedSubSkillID    string
}

// NameRef points from a full name back to the student id.
type NameRef struct {
	ID string
}

// NonPresentStudents indexes the currently absent students both ways.
type NonPresentStudents struct {
	ByID   *orderedmap.Map[string, []string]
	ByName *orderedmap.Map[string, NameRef]
	Count  int
}

// NewNonPresentStudents builds an empty index.
func NewNonPresentStudents() NonPresentStudents {
	return NonPresentStudents{
		ByID:   orderedmap.New[string, []string](),
		ByName: orderedmap.New[string, NameRef](),
	}
}

// Clone returns a deep copy.
func (n NonPresentStudents) Clone() NonPresentStudents {
	return NonPresentStudents{
		ByID: n.ByID.CloneFunc(func(names []string) []string {
			return append([]string(nil), names...)
		}),
		ByName: n.ByName.Clone(),
		Count:  n.Count,
	}
}

// PresenceRow is one line of the presence/assignment table.
type PresenceRow struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	IsPresent        bool   `json:"is_present"`
	AssignedTaskID   string `json:"assigned_task_id,omitempty"`
	AssignedTaskName string `json:"assigned_task_name,omitempty"`
}
