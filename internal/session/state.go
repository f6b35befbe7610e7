package session

import (
	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/orderedmap"
)

// State is one snapshot of an evaluation session. A committed State is never
// modified; the engine mutates a cloned draft and swaps it in.
type State struct {
	Session           model.Session
	Students          *orderedmap.Map[string, *model.Student]
	Tasks             *orderedmap.Map[string, *model.Task]
	Modules           *orderedmap.Map[string, *model.Module]
	ModuleSelection   model.ModuleSelection
	SubSkillSelection model.SubSkillSelection
	NonPresent        model.NonPresentStudents
}

// NewState returns an empty state with every collection allocated.
func NewState() *State {
	return &State{
		Students:          orderedmap.New[string, *model.Student](),
		Tasks:             orderedmap.New[string, *model.Task](),
		Modules:           orderedmap.New[string, *model.Module](),
		ModuleSelection:   model.ModuleSelection{SelectedModuleIndex: -1},
		SubSkillSelection: model.SubSkillSelection{SelectedSubSkillIndex: -1},
		NonPresent:        model.NewNonPresentStudents(),
	}
}

// Clone returns a deep copy sharing nothing with s.
func (s *State) Clone() *State {
	cp := *s
	cp.Session.Evaluations = append([]string(nil), s.Session.Evaluations...)
	cp.Students = s.Students.CloneFunc((*model.Student).Clone)
	cp.Tasks = s.Tasks.CloneFunc((*model.Task).Clone)
	cp.Modules = s.Modules.CloneFunc((*model.Module).Clone)
	cp.NonPresent = s.NonPresent.Clone()
	return &cp
}

func (s *State) student(id string) (*model.Student, bool) {
	if id == "" {
		return nil, false
	}
	return s.Students.Get(id)
}

func (s *State) module(id string) (*model.Module, bool) {
	if id == "" {
		return nil, false
	}
	return s.Modules.Get(id)
}

// modulesForTasks returns the modules referenced by any of taskIDs.
func (s *State) modulesForTasks(taskIDs ...string) []*model.Module {
	var out []*model.Module
	for _, m := range s.Modules.All() {
		if m.TasksList.HasAny(taskIDs...) {
			out = append(out, m)
		}
	}
	return out
}

// selectedModuleID resolves id against the module cursor.
func (s *State) selectedModuleID(id string) string {
	if id != "" {
		return id
	}
	return s.ModuleSelection.SelectedModuleID
}

// selectedSubSkillID resolves id against the sub-skill cursor.
func (s *State) selectedSubSkillID(id string) string {
	if id != "" {
		return id
	}
	return s.SubSkillSelection.SelectedSubSkillID
}
