// Package script replays a recorded list of teacher actions against a
// session engine, so an evaluation can be driven from a file.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/session"
)

var (
	// ErrUnknownAction is returned for a step whose action is not recognised.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnresolved is returned when a step names a student, task, module or
	// sub-skill the session does not have.
	ErrUnresolved = errors.New("unresolved reference")
)

// Script is a sequence of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one action. Which fields matter depends on Action.
type Step struct {
	Action    string   `yaml:"action"`
	Student   string   `yaml:"student,omitempty"`
	Task      string   `yaml:"task,omitempty"`
	Module    string   `yaml:"module,omitempty"`
	SubSkill  string   `yaml:"subSkill,omitempty"`
	Score     *float64 `yaml:"score,omitempty"`
	Present   *bool    `yaml:"present,omitempty"`
	Index     *int     `yaml:"index,omitempty"`
	Name      string   `yaml:"name,omitempty"`
	Clicked   *bool    `yaml:"clicked,omitempty"`
	Completed *bool    `yaml:"completed,omitempty"`
}

// StepError reports which step failed. Number is 1-based.
type StepError struct {
	Number int
	Action string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Number, e.Action, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result counts the steps that changed the session and those that did not.
type Result struct {
	Applied   int
	Unchanged int
}

// Load reads a YAML script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// Run applies every step in order and stops at the first failing one. Steps
// already applied stay applied.
func Run(e *session.Engine, s *Script) (Result, error) {
	var res Result
	for i, step := range s.Steps {
		changed, err := apply(e, step)
		if err != nil {
			return res, &StepError{Number: i + 1, Action: step.Action, Err: err}
		}
		if changed {
			res.Applied++
		} else {
			res.Unchanged++
		}
		slog.Debug("script step", "step", i+1, "action", step.Action, "changed", changed)
	}
	return res, nil
}

func apply(e *session.Engine, step Step) (bool, error) {
	st := e.Snapshot()
	r := resolver{st}

	switch step.Action {
	case "presence":
		studentID, err := r.student(step.Student)
		if err != nil {
			return false, err
		}
		return e.SetStudentPresence(studentID, boolOr(step.Present, true)), nil

	case "assign":
		studentID, err := r.student(step.Student)
		if err != nil {
			return false, err
		}
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		return e.SetStudentTaskAssignment(taskID, studentID)

	case "score":
		if step.Score == nil {
			return false, errors.New("score is required")
		}
		studentID, err := r.student(step.Student)
		if err != nil {
			return false, err
		}
		m, err := r.module(step.Module)
		if err != nil {
			return false, err
		}
		sub, err := r.subSkill(m, step.SubSkill)
		if err != nil {
			return false, err
		}
		return e.SetEvaluationForStudent(studentID, session.EvaluationInput{
			Module:   session.Ref{ID: m.ID, Name: m.Name, Code: m.Code},
			SubSkill: session.Ref{ID: sub.ID, Name: sub.Name, Code: sub.Code},
			Score:    step.Score,
		}), nil

	case "overall-score":
		studentID, err := r.student(step.Student)
		if err != nil {
			return false, err
		}
		return e.SetStudentOverallScore(studentID, step.Score), nil

	case "select-module":
		if step.Module == "" {
			return e.SetModuleSelection(-1, ""), nil
		}
		m, err := r.module(step.Module)
		if err != nil {
			return false, err
		}
		return e.SetModuleSelection(intOr(step.Index, slices.Index(st.Modules.Keys(), m.ID)), m.ID), nil

	case "select-sub-skill":
		if step.SubSkill == "" {
			return e.SetSubskillSelection(-1, ""), nil
		}
		m := st.SelectedModule("")
		sub, err := r.subSkill(m, step.SubSkill)
		if err != nil {
			return false, err
		}
		index := -1
		if m != nil {
			index = slices.Index(m.SubSkills.Keys(), sub.ID)
		}
		return e.SetSubskillSelection(intOr(step.Index, index), sub.ID), nil

	case "click-module":
		return e.SetModuleSelectionIsClicked(boolOr(step.Clicked, true)), nil

	case "disable-sub-skills":
		if step.Module != "" {
			m, err := r.module(step.Module)
			if err != nil {
				return false, err
			}
			return e.DisableSubSkillsWithoutStudents(m.ID), nil
		}
		changed := false
		for _, id := range st.Modules.Keys() {
			if e.DisableSubSkillsWithoutStudents(id) {
				changed = true
			}
		}
		return changed, nil

	case "complete-sub-skill":
		m, err := r.module(step.Module)
		if err != nil {
			return false, err
		}
		sub, err := r.subSkill(m, step.SubSkill)
		if err != nil {
			return false, err
		}
		return e.SetSubSkillHasCompleted(m.ID, sub.ID, boolOr(step.Completed, true)), nil

	case "check-modules":
		return e.CheckForCompletedModules(), nil

	case "refresh-tasks":
		if step.Task == "" {
			return e.RefreshCompletionForTasks(st.Tasks.Keys()...), nil
		}
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		return e.RefreshCompletionForTasks(taskID), nil

	case "diploma":
		return e.SetDiplomaName(step.Name), nil

	default:
		return false, fmt.Errorf("%w %q", ErrUnknownAction, step.Action)
	}
}

// resolver maps the names a teacher writes in a script to session ids.
type resolver struct {
	s *session.State
}

func (r resolver) student(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: student is required", ErrUnresolved)
	}
	if r.s.Students.Has(ref) {
		return ref, nil
	}
	for id, st := range r.s.Students.All() {
		if strings.EqualFold(st.FullName, ref) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: student %q", ErrUnresolved, ref)
}

func (r resolver) task(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: task is required", ErrUnresolved)
	}
	if r.s.Tasks.Has(ref) {
		return ref, nil
	}
	for id, t := range r.s.Tasks.All() {
		if strings.EqualFold(t.Name, ref) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: task %q", ErrUnresolved, ref)
}

func (r resolver) module(ref string) (*model.Module, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: module is required", ErrUnresolved)
	}
	if m, ok := r.s.Modules.Get(ref); ok {
		return m, nil
	}
	for _, m := range r.s.Modules.All() {
		if strings.EqualFold(m.Code, ref) || strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: module %q", ErrUnresolved, ref)
}

// subSkill looks in m, or in every module when m is nil.
func (r resolver) subSkill(m *model.Module, ref string) (*model.SubSkill, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: sub-skill is required", ErrUnresolved)
	}
	modules := r.s.Modules.Values()
	if m != nil {
		modules = []*model.Module{m}
	}
	for _, mod := range modules {
		if sub, ok := mod.SubSkills.Get(ref); ok {
			return sub, nil
		}
	}
	for _, mod := range modules {
		for _, sub := range mod.SubSkills.All() {
			if strings.EqualFold(sub.Code, ref) || strings.EqualFold(sub.Name, ref) {
				return sub, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: sub-skill %q", ErrUnresolved, ref)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
