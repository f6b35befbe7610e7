package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/orderedmap"
)

func template(id string, modules ...model.ModuleInput) model.TaskTemplate {
	return model.TaskTemplate{
		ID:       id,
		TaskName: "task " + id,
		Task:     model.TaskInfo{ID: "base-" + id, Name: "base " + id},
		Modules:  modules,
	}
}

func module(id string, subSkillIDs ...string) model.ModuleInput {
	in := model.ModuleInput{ID: id, Name: "module " + id, Code: "M-" + id}
	for _, s := range subSkillIDs {
		in.SubSkills = append(in.SubSkills, model.SubSkillInput{ID: s, Name: "skill " + s, Code: "S-" + s})
	}
	return in
}

func TestNewTask(t *testing.T) {
	task := NewTask(template("t1", module("m1", "a", "b")))

	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "task t1", task.Name)
	require.Equal(t, []string{"m1"}, task.Modules.Keys())
	m, _ := task.Modules.Get("m1")
	assert.Equal(t, []string{"a", "b"}, m.SubSkills.Keys())
}

func TestNewTaskFallsBackToUnderlyingTask(t *testing.T) {
	task := NewTask(model.TaskTemplate{Task: model.TaskInfo{ID: "x", Name: "X"}})

	assert.Equal(t, "x", task.ID)
	assert.Equal(t, "X", task.Name)
}

func TestBuildLinkedSubSkills(t *testing.T) {
	in := []*model.SubSkill{model.NewSubSkill("a", "A", "SA", "other"), model.NewSubSkill("b", "B", "SB")}

	out := BuildLinkedSubSkills(in, "t1")

	assert.Equal(t, []string{"a", "b"}, out.Keys())
	for _, s := range out.All() {
		assert.Equal(t, []string{"t1"}, s.LinkedTasks.Sorted())
	}
	assert.Equal(t, []string{"other"}, in[0].LinkedTasks.Sorted(), "input must not change")
}

func TestUpsertModuleSubSkills(t *testing.T) {
	m := model.NewModule("m1", "M1", "C1")
	m.SubSkills.Set("a", model.NewSubSkill("a", "A", "SA", "t1"))
	m.SubSkills.Set("broken", &model.SubSkill{ID: "broken"})

	out := UpsertModuleSubSkills(m, []*model.SubSkill{
		model.NewSubSkill("a", "A", "SA"),
		model.NewSubSkill("c", "C", "SC"),
		model.NewSubSkill("broken", "", ""),
	}, "t2")

	assert.Equal(t, []string{"a", "broken", "c"}, out.Keys())
	a, _ := out.Get("a")
	assert.Equal(t, []string{"t1", "t2"}, a.LinkedTasks.Sorted())
	c, _ := out.Get("c")
	assert.Equal(t, []string{"t2"}, c.LinkedTasks.Sorted())
	broken, _ := out.Get("broken")
	assert.Equal(t, []string{"t2"}, broken.LinkedTasks.Sorted())

	orig, _ := m.SubSkills.Get("a")
	assert.Equal(t, []string{"t1"}, orig.LinkedTasks.Sorted(), "module must not change")
}

func TestSetModulesMergesSharedModule(t *testing.T) {
	saved := orderedmap.New[string, *model.Module]()
	saved = SetModules(NewTask(template("t1", module("m1", "a", "b"), module("m2", "x"))), saved)
	saved = SetModules(NewTask(template("t2", module("m1", "b", "c"))), saved)

	require.Equal(t, []string{"m1", "m2"}, saved.Keys())
	m1, _ := saved.Get("m1")
	assert.Equal(t, []string{"t1", "t2"}, m1.TasksList.Sorted())
	assert.Equal(t, []string{"a", "b", "c"}, m1.SubSkills.Keys())

	links := map[string][]string{}
	for id, s := range m1.SubSkills.All() {
		links[id] = s.LinkedTasks.Sorted()
	}
	assert.Equal(t, map[string][]string{
		"a": {"t1"},
		"b": {"t1", "t2"},
		"c": {"t2"},
	}, links)

	m2, _ := saved.Get("m2")
	assert.Equal(t, []string{"t1"}, m2.TasksList.Sorted())
	assert.NotNil(t, m2.StudentsToEvaluate)
	assert.Zero(t, m2.StudentsToEvaluate.Len())
}

func TestSetModulesLeavesInputUntouched(t *testing.T) {
	saved := SetModules(NewTask(template("t1", module("m1", "a"))), orderedmap.New[string, *model.Module]())
	before, _ := saved.Get("m1")

	after := SetModules(NewTask(template("t2", module("m1", "a"))), saved)

	assert.Equal(t, []string{"t1"}, before.TasksList.Sorted())
	m1, _ := after.Get("m1")
	assert.Equal(t, []string{"t1", "t2"}, m1.TasksList.Sorted())
}

func TestStudentAverageScore(t *testing.T) {
	s := model.NewStudent("s1", "Ada", "Lovelace")
	assert.Zero(t, StudentAverageScore(s))

	s.Evaluations = model.NewStudentEvaluation()
	m1 := model.NewModuleEval("m1", "M1", "C1")
	m1.SubSkills.Set("a", model.SubSkillEval{ID: "a", Score: 10})
	m1.SubSkills.Set("b", model.SubSkillEval{ID: "b", Score: 20})
	m2 := model.NewModuleEval("m2", "M2", "C2")
	m2.SubSkills.Set("x", model.SubSkillEval{ID: "x", Score: 60})
	s.Evaluations.Modules.Set("m1", m1).Set("m2", m2)

	assert.InDelta(t, 30.0, StudentAverageScore(s), 1e-9)
	assert.Equal(t, 3, ScoreCount(s))
}
