package session

import "github.com/AdiDevClick/teachboard/internal/model"

// SetStudentPresence marks a student present or absent and keeps module
// membership and the absentee index in step. Absence keeps the student's task
// and scores. Completion of the sub-skills the student's task touches is
// re-derived from the new set of eligible students.
func (e *Engine) SetStudentPresence(studentID string, isPresent bool) bool {
	return e.update("setStudentPresence", func(d *State) bool {
		return d.setStudentPresence(studentID, isPresent)
	})
}

// SetStudentToModuleEvaluation adds the student to, or removes them from, the
// evaluation set of every module that taskID references.
func (e *Engine) SetStudentToModuleEvaluation(taskID, studentID string) bool {
	return e.update("setStudentToModuleEvaluation", func(d *State) bool {
		return d.setStudentToModuleEvaluation(taskID, studentID)
	})
}

// ClearStudentFromModuleEvaluation removes the student from every module's
// evaluation set.
func (e *Engine) ClearStudentFromModuleEvaluation(studentID string) bool {
	return e.update("clearStudentFromModuleEvaluation", func(d *State) bool {
		return d.clearStudentFromModuleEvaluation(studentID)
	})
}

// NonPresentStudents returns a copy of the absentee index.
func (e *Engine) NonPresentStudents() model.NonPresentStudents {
	var out model.NonPresentStudents
	e.view(func(s *State) { out = s.NonPresent.Clone() })
	return out
}

func (s *State) setStudentPresence(studentID string, isPresent bool) bool {
	st, ok := s.student(studentID)
	if !ok || st.IsPresent == isPresent {
		return false
	}
	st.IsPresent = isPresent
	if st.AssignedTask != nil {
		s.setStudentToModuleEvaluation(st.AssignedTask.ID, st.ID)
	}
	if isPresent {
		s.markPresent(st)
	} else {
		s.clearStudentFromModuleEvaluation(st.ID)
		s.markAbsent(st)
	}
	if st.AssignedTask != nil {
		s.recomputeCompletionForTasks(st.AssignedTask.ID)
	}
	return true
}

func (s *State) setStudentToModuleEvaluation(taskID, studentID string) bool {
	st, ok := s.student(studentID)
	if !ok || taskID == "" {
		return false
	}
	changed := false
	for _, m := range s.modulesForTasks(taskID) {
		// A shared module keeps a student who qualifies through another task.
		eligible := st.IsPresent && m.TasksList.Has(st.AssignedTaskID())
		has := m.StudentsToEvaluate.Has(st.ID)
		switch {
		case eligible && !has:
			m.StudentsToEvaluate.Add(st.ID)
			changed = true
		case !eligible && has:
			m.StudentsToEvaluate.Remove(st.ID)
			changed = true
		}
	}
	return changed
}

func (s *State) clearStudentFromModuleEvaluation(studentID string) bool {
	changed := false
	for _, m := range s.Modules.All() {
		if m.StudentsToEvaluate.Has(studentID) {
			m.StudentsToEvaluate.Remove(studentID)
			changed = true
		}
	}
	return changed
}

func (s *State) markAbsent(st *model.Student) {
	s.NonPresent.ByID.Set(st.ID, []string{st.FullName})
	s.NonPresent.ByName.Set(st.FullName, model.NameRef{ID: st.ID})
	s.NonPresent.Count = s.NonPresent.ByID.Len()
}

func (s *State) markPresent(st *model.Student) {
	s.NonPresent.ByID.Delete(st.ID)
	// Two students may share a name; only drop the entry that points here.
	if ref, ok := s.NonPresent.ByName.Get(st.FullName); ok && ref.ID == st.ID {
		s.NonPresent.ByName.Delete(st.FullName)
		for _, e := range s.NonPresent.ByID.Entries() {
			if len(e.Value) > 0 && e.Value[0] == st.FullName {
				s.NonPresent.ByName.Set(st.FullName, model.NameRef{ID: e.Key})
				break
			}
		}
	}
	s.NonPresent.Count = s.NonPresent.ByID.Len()
}
