// Package evaluation builds task, module and sub-skill records from class data
// and computes per-student averages. Functions here never modify their inputs.
package evaluation

import (
	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/orderedmap"
)

// NewTask builds the load-time snapshot of a task template. Sub-skills in the
// snapshot carry no task links; links are stamped when modules are merged.
func NewTask(tpl model.TaskTemplate) *model.Task {
	task := &model.Task{
		ID:          tpl.TaskID(),
		Name:        tpl.DisplayName(),
		Description: tpl.Task.Description,
		Modules:     orderedmap.New[string, *model.Module](),
	}
	for _, in := range tpl.Modules {
		m := model.NewModule(in.ID, in.Name, in.Code)
		for _, s := range in.SubSkills {
			m.SubSkills.Set(s.ID, model.NewSubSkill(s.ID, s.Name, s.Code))
		}
		task.Modules.Set(m.ID, m)
	}
	return task
}

// BuildLinkedSubSkills copies subSkills into a new map, each linked to taskID
// only. Used when a module is seen for the first time.
func BuildLinkedSubSkills(subSkills []*model.SubSkill, taskID string) *orderedmap.Map[string, *model.SubSkill] {
	out := orderedmap.New[string, *model.SubSkill]()
	for _, s := range subSkills {
		linked := s.Clone()
		linked.LinkedTasks = model.NewIDSet(taskID)
		out.Set(linked.ID, linked)
	}
	return out
}

// UpsertModuleSubSkills returns module's sub-skills merged with subSkills:
// new ones are linked to taskID, existing ones gain taskID in their links.
func UpsertModuleSubSkills(module *model.Module, subSkills []*model.SubSkill, taskID string) *orderedmap.Map[string, *model.SubSkill] {
	out := module.SubSkills.Clone()
	for _, s := range subSkills {
		existing, ok := out.Get(s.ID)
		if !ok {
			linked := s.Clone()
			linked.LinkedTasks = model.NewIDSet(taskID)
			out.Set(linked.ID, linked)
			continue
		}
		merged := existing.Clone()
		if merged.LinkedTasks == nil {
			// Rebuild a record that lost its link set.
			merged.LinkedTasks = model.NewIDSet()
		}
		merged.LinkedTasks.Add(taskID)
		out.Set(merged.ID, merged)
	}
	return out
}

// SetModules merges task's modules into saved and returns the result. A module
// already in saved gains task.ID in its TasksList and the union of sub-skills;
// an unknown module is inserted fresh. saved is left untouched.
func SetModules(task *model.Task, saved *orderedmap.Map[string, *model.Module]) *orderedmap.Map[string, *model.Module] {
	out := saved.Clone()
	for _, m := range task.Modules.All() {
		if existing, ok := out.Get(m.ID); ok {
			merged := existing.Clone()
			merged.TasksList.Add(task.ID)
			merged.SubSkills = UpsertModuleSubSkills(existing, m.SubSkills.Values(), task.ID)
			out.Set(merged.ID, merged)
			continue
		}
		fresh := model.NewModule(m.ID, m.Name, m.Code)
		fresh.SubSkills = BuildLinkedSubSkills(m.SubSkills.Values(), task.ID)
		fresh.TasksList.Add(task.ID)
		out.Set(fresh.ID, fresh)
	}
	return out
}

// StudentAverageScore returns the mean of every score recorded for student,
// or 0 when nothing has been scored.
func StudentAverageScore(student *model.Student) float64 {
	sum, n := 0.0, ScoreCount(student)
	if n == 0 {
		return 0
	}
	for _, me := range student.Evaluations.Modules.All() {
		for _, se := range me.SubSkills.All() {
			sum += se.Score
		}
	}
	return sum / float64(n)
}

// ScoreCount returns how many scores are recorded for student.
func ScoreCount(student *model.Student) int {
	if student == nil || student.Evaluations == nil {
		return 0
	}
	n := 0
	for _, me := range student.Evaluations.Modules.All() {
		n += me.SubSkills.Len()
	}
	return n
}
