package session

import "github.com/AdiDevClick/teachboard/internal/model"

// eligible is a student who must be scored on a sub-skill, and the module
// through which they qualified.
type eligible struct {
	student  *model.Student
	moduleID string
}

// PresentStudentsWithAssignedTasks returns the students who must be scored on
// a sub-skill. subSkillID defaults to the sub-skill cursor. With moduleID set
// only that module is considered, otherwise any module holding the sub-skill.
func (e *Engine) PresentStudentsWithAssignedTasks(subSkillID, moduleID string) []*model.Student {
	var out []*model.Student
	e.view(func(s *State) {
		for _, st := range s.PresentStudentsWithAssignedTasks(subSkillID, moduleID) {
			out = append(out, st.Clone())
		}
	})
	return out
}

// PresentStudentsWithAssignedTasks is the eligibility rule. A student
// qualifies when present and assigned a task, and some candidate module holds
// the sub-skill, lists the task, counts the student among those to evaluate,
// and the sub-skill itself is linked to the task.
func (s *State) PresentStudentsWithAssignedTasks(subSkillID, moduleID string) []*model.Student {
	found := s.eligibleStudents(s.selectedSubSkillID(subSkillID), moduleID)
	out := make([]*model.Student, 0, len(found))
	for _, f := range found {
		out = append(out, f.student)
	}
	return out
}

func (s *State) eligibleStudents(subSkillID, moduleID string) []eligible {
	if subSkillID == "" {
		return nil
	}
	var out []eligible
	for _, st := range s.Students.All() {
		taskID := st.AssignedTaskID()
		if !st.IsPresent || taskID == "" {
			continue
		}
		for _, m := range s.Modules.All() {
			if moduleID != "" && m.ID != moduleID {
				continue
			}
			sub, ok := m.SubSkills.Get(subSkillID)
			if !ok {
				continue
			}
			if m.TasksList.Has(taskID) && m.StudentsToEvaluate.Has(st.ID) && sub.LinkedTasks.Has(taskID) {
				out = append(out, eligible{student: st, moduleID: m.ID})
				break
			}
		}
	}
	return out
}
