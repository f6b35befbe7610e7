package session

import (
	"github.com/AdiDevClick/teachboard/internal/evaluation"
	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/orderedmap"
)

// Clear discards the whole session unless classID is the class already
// selected. It reports whether anything was reset.
func (e *Engine) Clear(classID string) bool {
	return e.update("clear", func(d *State) bool { return d.clear(classID) })
}

// SetSelectedClass loads a class into the session. Selecting the class that is
// already loaded is a no-op.
func (e *Engine) SetSelectedClass(class model.ClassSnapshot) bool {
	changed := e.update("setSelectedClass", func(d *State) bool { return d.setSelectedClass(class) })
	if changed {
		e.log.Info("class selected", "class_id", class.ID, "students", len(class.Students), "tasks", len(class.Templates))
	}
	return changed
}

// SetStudents replaces the class roster. Every student starts absent.
func (e *Engine) SetStudents(students []model.ClassStudent) bool {
	return e.update("setStudents", func(d *State) bool {
		d.setStudents(students)
		return true
	})
}

// SetClassTasks adds the class's task templates and merges their modules.
func (e *Engine) SetClassTasks(templates []model.TaskTemplate) bool {
	return e.update("setClassTasks", func(d *State) bool { return d.setClassTasks(templates) })
}

// SetDiplomaName records the diploma the session evaluates for.
func (e *Engine) SetDiplomaName(name string) bool {
	return e.update("setDiplomaName", func(d *State) bool {
		if d.Session.DiplomaName == name {
			return false
		}
		d.Session.DiplomaName = name
		return true
	})
}

// Session returns the session metadata.
func (e *Engine) Session() model.Session {
	var out model.Session
	e.view(func(s *State) {
		out = s.Session
		out.Evaluations = append([]string(nil), s.Session.Evaluations...)
	})
	return out
}

func (s *State) clear(classID string) bool {
	if classID == s.Session.ClassID {
		return false
	}
	*s = *NewState()
	return true
}

func (s *State) setSelectedClass(class model.ClassSnapshot) bool {
	if !s.clear(class.ID) {
		return false
	}
	s.Session = model.Session{
		ClassID:     class.ID,
		Description: class.Description,
		ClassName:   class.Name,
		Evaluations: append([]string(nil), class.Evaluations...),
	}
	s.setStudents(class.Students)
	s.setClassTasks(class.Templates)
	return true
}

func (s *State) setStudents(students []model.ClassStudent) {
	s.Students = orderedmap.New[string, *model.Student]()
	s.NonPresent = model.NewNonPresentStudents()
	for _, in := range students {
		if in.ID == "" {
			continue
		}
		st := model.NewStudent(in.ID, in.FirstName, in.LastName)
		s.Students.Set(st.ID, st)
	}
	for _, st := range s.Students.All() {
		s.markAbsent(st)
	}
	// Nobody is present yet, so no module has anyone to evaluate.
	for _, m := range s.Modules.All() {
		m.StudentsToEvaluate = model.NewIDSet()
	}
}

func (s *State) setClassTasks(templates []model.TaskTemplate) bool {
	changed := false
	for _, tpl := range templates {
		task := evaluation.NewTask(tpl)
		if task.ID == "" {
			continue
		}
		s.Tasks.Set(task.ID, task)
		s.Modules = evaluation.SetModules(task, s.Modules)
		changed = true
	}
	return changed
}
