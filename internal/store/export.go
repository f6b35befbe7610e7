package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdiDevClick/teachboard/internal/model"
)

// LoadClass rebuilds a stored class in the order it was saved.
func (s *Store) LoadClass(id string) (*model.ClassSnapshot, error) {
	c := model.ClassSnapshot{ID: id}
	err := s.db.QueryRow(`SELECT name, description FROM classes WHERE id = ?`, id).Scan(&c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load class %s: %w", id, ErrClassNotFound)
	}
	if err != nil {
		return nil, err
	}

	if c.Students, err = s.classStudents(id); err != nil {
		return nil, fmt.Errorf("load students of %s: %w", id, err)
	}
	if c.Evaluations, err = s.classEvaluations(id); err != nil {
		return nil, fmt.Errorf("load evaluations of %s: %w", id, err)
	}
	if c.Templates, err = s.classTemplates(id); err != nil {
		return nil, fmt.Errorf("load templates of %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) classStudents(classID string) ([]model.ClassStudent, error) {
	rows, err := s.db.Query(
		`SELECT id, first_name, last_name FROM class_students WHERE class_id = ? ORDER BY position`, classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var students []model.ClassStudent
	for rows.Next() {
		var st model.ClassStudent
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (s *Store) classEvaluations(classID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT evaluation_id FROM class_evaluations WHERE class_id = ? ORDER BY position`, classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) classTemplates(classID string) ([]model.TaskTemplate, error) {
	rows, err := s.db.Query(
		`SELECT id, task_name, task_id, task_label, task_description
		 FROM class_templates WHERE class_id = ? ORDER BY position`, classID,
	)
	if err != nil {
		return nil, err
	}
	var templates []model.TaskTemplate
	for rows.Next() {
		var t model.TaskTemplate
		if err := rows.Scan(&t.ID, &t.TaskName, &t.Task.ID, &t.Task.Name, &t.Task.Description); err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, t)
	}
	// Close before the nested queries; the pool holds a single connection.
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	modules, err := s.templateModules(classID)
	if err != nil {
		return nil, err
	}
	for ti := range templates {
		templates[ti].Modules = modules[ti]
	}
	return templates, nil
}

// templateModules returns every module of the class keyed by template
// position, sub-skills filled in.
func (s *Store) templateModules(classID string) (map[int][]model.ModuleInput, error) {
	rows, err := s.db.Query(
		`SELECT template_position, id, name, code FROM template_modules
		 WHERE class_id = ? ORDER BY template_position, position`, classID,
	)
	if err != nil {
		return nil, err
	}
	out := make(map[int][]model.ModuleInput)
	for rows.Next() {
		var (
			ti int
			m  model.ModuleInput
		)
		if err := rows.Scan(&ti, &m.ID, &m.Name, &m.Code); err != nil {
			rows.Close()
			return nil, err
		}
		out[ti] = append(out[ti], m)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := s.db.Query(
		`SELECT template_position, module_position, id, name, code FROM template_sub_skills
		 WHERE class_id = ? ORDER BY template_position, module_position, position`, classID,
	)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()
	for subRows.Next() {
		var (
			ti, mi int
			sub    model.SubSkillInput
		)
		if err := subRows.Scan(&ti, &mi, &sub.ID, &sub.Name, &sub.Code); err != nil {
			return nil, err
		}
		if mi >= len(out[ti]) {
			return nil, fmt.Errorf("sub-skill %s points at missing module %d of template %d", sub.ID, mi, ti)
		}
		out[ti][mi].SubSkills = append(out[ti][mi].SubSkills, sub)
	}
	return out, subRows.Err()
}
