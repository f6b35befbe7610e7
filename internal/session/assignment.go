package session

import (
	"fmt"

	"github.com/AdiDevClick/teachboard/internal/model"
)

// SetStudentTaskAssignment assigns a student to a task. Both ids are required.
//
// Reassigning discards every score the student already has, including scores
// on modules the old and new task share, and resets completion on every
// sub-skill of the modules either task touches.
func (e *Engine) SetStudentTaskAssignment(taskID, studentID string) (bool, error) {
	if taskID == "" || studentID == "" {
		err := fmt.Errorf("assign task %q to student %q: %w", taskID, studentID, ErrMissingArgument)
		e.log.Warn("rejected task assignment", "error", err)
		return false, err
	}
	changed := e.update("setStudentTaskAssignment", func(d *State) bool {
		return d.setStudentTaskAssignment(taskID, studentID)
	})
	return changed, nil
}

func (s *State) setStudentTaskAssignment(taskID, studentID string) bool {
	st, ok := s.student(studentID)
	if !ok {
		return false
	}
	task, ok := s.Tasks.Get(taskID)
	if !ok {
		return false
	}
	previous := st.AssignedTaskID()
	if previous == taskID {
		return false
	}

	st.Evaluations = nil
	s.clearStudentFromModuleEvaluation(st.ID)
	st.AssignedTask = &model.TaskRef{ID: task.ID, Name: task.Name}
	s.setStudentToModuleEvaluation(task.ID, st.ID)

	touched := []string{task.ID}
	if previous != "" {
		touched = append(touched, previous)
	}
	s.refreshCompletionForTasks(touched...)
	return true
}
