package session

import "github.com/AdiDevClick/teachboard/internal/model"

// AttendedModules returns the modules with at least one student to evaluate.
func (e *Engine) AttendedModules() []*model.Module {
	var out []*model.Module
	e.view(func(s *State) { out = cloneModules(s.AttendedModules()) })
	return out
}

// SelectedClassModules returns every module of the loaded class.
func (e *Engine) SelectedClassModules() []*model.Module {
	var out []*model.Module
	e.view(func(s *State) { out = cloneModules(s.Modules.Values()) })
	return out
}

// SelectedModule returns the module with id, or the selected module when id
// is empty. It returns nil when there is none.
func (e *Engine) SelectedModule(id string) *model.Module {
	var out *model.Module
	e.view(func(s *State) {
		if m := s.SelectedModule(id); m != nil {
			out = m.Clone()
		}
	})
	return out
}

// SelectedModuleSubSkills returns the sub-skills of SelectedModule(id) in
// display order.
func (e *Engine) SelectedModuleSubSkills(id string) []*model.SubSkill {
	var out []*model.SubSkill
	e.view(func(s *State) {
		m := s.SelectedModule(id)
		if m == nil {
			return
		}
		for _, sub := range m.SubSkills.All() {
			out = append(out, sub.Clone())
		}
	})
	return out
}

// SelectedSubSkill returns a sub-skill of a module. Empty ids fall back to
// the selection cursors.
func (e *Engine) SelectedSubSkill(subSkillID, moduleID string) *model.SubSkill {
	var out *model.SubSkill
	e.view(func(s *State) {
		m := s.SelectedModule(moduleID)
		if m == nil {
			return
		}
		if sub, ok := m.SubSkills.Get(s.selectedSubSkillID(subSkillID)); ok {
			out = sub.Clone()
		}
	})
	return out
}

// AllPresentStudents returns the present students in roster order.
func (e *Engine) AllPresentStudents() []*model.Student {
	var out []*model.Student
	e.view(func(s *State) {
		for _, st := range s.AllPresentStudents() {
			out = append(out, st.Clone())
		}
	})
	return out
}

// StudentsPresenceSelectionData returns one row per student for the
// presence and task assignment table.
func (e *Engine) StudentsPresenceSelectionData() []model.PresenceRow {
	var out []model.PresenceRow
	e.view(func(s *State) { out = s.StudentsPresenceSelectionData() })
	return out
}

// AttendedModules is the query behind the engine method.
func (s *State) AttendedModules() []*model.Module {
	var out []*model.Module
	for _, m := range s.Modules.All() {
		if m.StudentsToEvaluate.Len() > 0 {
			out = append(out, m)
		}
	}
	return out
}

// SelectedModule is the query behind the engine method.
func (s *State) SelectedModule(id string) *model.Module {
	m, ok := s.module(s.selectedModuleID(id))
	if !ok {
		return nil
	}
	return m
}

// AllPresentStudents is the query behind the engine method.
func (s *State) AllPresentStudents() []*model.Student {
	var out []*model.Student
	for _, st := range s.Students.All() {
		if st.IsPresent {
			out = append(out, st)
		}
	}
	return out
}

// StudentsPresenceSelectionData is the query behind the engine method.
func (s *State) StudentsPresenceSelectionData() []model.PresenceRow {
	out := make([]model.PresenceRow, 0, s.Students.Len())
	for _, st := range s.Students.All() {
		row := model.PresenceRow{ID: st.ID, FullName: st.FullName, IsPresent: st.IsPresent}
		if st.AssignedTask != nil {
			row.AssignedTaskID = st.AssignedTask.ID
			row.AssignedTaskName = st.AssignedTask.Name
		}
		out = append(out, row)
	}
	return out
}

func cloneModules(in []*model.Module) []*model.Module {
	out := make([]*model.Module, 0, len(in))
	for _, m := range in {
		out = append(out, m.Clone())
	}
	return out
}
