package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdiDevClick/teachboard/internal/model"
)

const (
	ada   = "s-ada"
	alan  = "s-alan"
	grace = "s-grace"

	taskWeb = "t-web"
	taskAPI = "t-api"

	modDev = "m-dev"
	modNet = "m-net"
)

func ptr(v float64) *float64 { return &v }

func moduleInput(id string, subSkillIDs ...string) model.ModuleInput {
	in := model.ModuleInput{ID: id, Name: "Module " + id, Code: "C-" + id}
	for _, s := range subSkillIDs {
		in.SubSkills = append(in.SubSkills, model.SubSkillInput{ID: s, Name: "Skill " + s, Code: "C-" + s})
	}
	return in
}

// testClass has three students and two tasks sharing m-dev: t-web needs
// sub-skills a and b, t-api needs b and c. Only t-web uses m-net.
func testClass() model.ClassSnapshot {
	return model.ClassSnapshot{
		ID:          "class-1",
		Name:        "BTS SIO 1",
		Description: "First year",
		Evaluations: []string{"eval-1"},
		Students: []model.ClassStudent{
			{ID: ada, FirstName: "Ada", LastName: "Lovelace"},
			{ID: alan, FirstName: "Alan", LastName: "Turing"},
			{ID: grace, FirstName: "Grace", LastName: "Hopper"},
		},
		Templates: []model.TaskTemplate{
			{
				ID:       taskWeb,
				TaskName: "Website",
				Task:     model.TaskInfo{ID: "task-web", Name: "Web"},
				Modules:  []model.ModuleInput{moduleInput(modDev, "a", "b"), moduleInput(modNet, "x")},
			},
			{
				ID:       taskAPI,
				TaskName: "API",
				Task:     model.TaskInfo{ID: "task-api", Name: "Api"},
				Modules:  []model.ModuleInput{moduleInput(modDev, "b", "c")},
			},
		},
	}
}

func loadedEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	require.True(t, e.SetSelectedClass(testClass()))
	return e
}

func present(t *testing.T, e *Engine, studentIDs ...string) {
	t.Helper()
	for _, id := range studentIDs {
		require.True(t, e.SetStudentPresence(id, true), "presence for %s", id)
	}
}

func assign(t *testing.T, e *Engine, taskID string, studentIDs ...string) {
	t.Helper()
	for _, id := range studentIDs {
		changed, err := e.SetStudentTaskAssignment(taskID, id)
		require.NoError(t, err)
		require.True(t, changed, "assign %s to %s", id, taskID)
	}
}

func score(t *testing.T, e *Engine, studentID, moduleID, subSkillID string, v float64) {
	t.Helper()
	require.True(t, e.SetEvaluationForStudent(studentID, EvaluationInput{
		Module:   Ref{ID: moduleID},
		SubSkill: Ref{ID: subSkillID},
		Score:    ptr(v),
	}))
}

func subSkill(t *testing.T, s *State, moduleID, subSkillID string) *model.SubSkill {
	t.Helper()
	m, ok := s.Modules.Get(moduleID)
	require.True(t, ok, "module %s", moduleID)
	sub, ok := m.SubSkills.Get(subSkillID)
	require.True(t, ok, "sub-skill %s", subSkillID)
	return sub
}

func assertInvariants(t *testing.T, s *State) {
	t.Helper()
	for _, m := range s.Modules.All() {
		for id := range m.StudentsToEvaluate {
			st, ok := s.Students.Get(id)
			require.True(t, ok, "module %s references unknown student %s", m.ID, id)
			assert.True(t, st.IsPresent, "module %s evaluates absent student %s", m.ID, id)
			assert.True(t, m.TasksList.Has(st.AssignedTaskID()), "module %s evaluates %s outside its tasks", m.ID, id)
		}
		if m.IsCompleted {
			assert.True(t, m.SubSkillsDone(), "module %s completed with pending sub-skills", m.ID)
		}
	}

	var absent []string
	for _, st := range s.Students.All() {
		if !st.IsPresent {
			absent = append(absent, st.ID)
		}
	}
	assert.ElementsMatch(t, absent, s.NonPresent.ByID.Keys())
	assert.Equal(t, len(absent), s.NonPresent.Count)
}
