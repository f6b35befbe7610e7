package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdiDevClick/teachboard/internal/model"
)

func TestCompletionEndToEnd(t *testing.T) {
	class := model.ClassSnapshot{
		ID: "class-e2e",
		Students: []model.ClassStudent{
			{ID: "A", FirstName: "Ann", LastName: "Able"},
			{ID: "B", FirstName: "Bob", LastName: "Baker"},
		},
		Templates: []model.TaskTemplate{{
			ID:       "T1",
			TaskName: "Task one",
			Modules:  []model.ModuleInput{moduleInput("M", "S1", "S2")},
		}},
	}
	e := New()
	require.True(t, e.SetSelectedClass(class))
	assert.True(t, e.AreAllModulesCompleted(), "nothing attended yet")

	present(t, e, "A", "B")
	assign(t, e, "T1", "A", "B")

	score(t, e, "A", "M", "S1", 14)
	score(t, e, "A", "M", "S2", 11)
	score(t, e, "B", "M", "S1", 9)

	assert.True(t, e.IsThisSubSkillCompleted("S1", "M"))
	assert.False(t, e.IsThisSubSkillCompleted("S2", "M"))

	e.CheckForCompletedModules()
	assert.False(t, e.AreAllModulesCompleted())

	score(t, e, "B", "M", "S2", 17)
	assert.True(t, e.CheckForCompletedModules())
	assert.True(t, e.AreAllModulesCompleted())
	assert.False(t, e.CheckForCompletedModules(), "second pass changes nothing")

	s := e.Snapshot()
	m, _ := s.Modules.Get("M")
	assert.True(t, m.IsCompleted)
	assertInvariants(t, s)
}

func TestSubSkillCompletionIsMonotonic(t *testing.T) {
	e := loadedEngine(t)
	present(t, e, ada, alan)
	assign(t, e, taskWeb, ada, alan)

	score(t, e, ada, modDev, "a", 10)
	assert.False(t, subSkill(t, e.Snapshot(), modDev, "a").IsCompleted)

	score(t, e, alan, modDev, "a", 12)
	assert.True(t, subSkill(t, e.Snapshot(), modDev, "a").IsCompleted)

	assign(t, e, taskAPI, alan)
	assert.False(t, subSkill(t, e.Snapshot(), modDev, "a").IsCompleted, "reassignment invalidates")
	assert.True(t, e.IsThisSubSkillCompleted("a", modDev), "only ada is still eligible")
}

func TestSubSkillWithoutEligibleStudents(t *testing.T) {
	e := loadedEngine(t)

	assert.False(t, e.IsThisSubSkillCompleted("a", modDev))
	assert.False(t, e.IsThisSubSkillCompleted("missing", modDev))
	assert.False(t, e.IsThisSubSkillCompleted("", ""))
}

func TestIsThisSubSkillCompletedUsesCursors(t *testing.T) {
	e := loadedEngine(t)
	present(t, e, ada)
	assign(t, e, taskWeb, ada)
	score(t, e, ada, modDev, "a", 10)

	require.True(t, e.SetModuleSelection(0, modDev))
	require.True(t, e.SetSubskillSelection(0, "a"))
	assert.True(t, e.IsThisSubSkillCompleted("", ""))

	require.True(t, e.SetSubskillSelection(1, "b"))
	assert.False(t, e.IsThisSubSkillCompleted("", ""))
}

func TestDisableSubSkillsWithoutStudentsReorders(t *testing.T) {
	class := model.ClassSnapshot{
		ID: "class-order",
		Students: []model.ClassStudent{
			{ID: "s1", FirstName: "Ann", LastName: "Able"},
			{ID: "s2", FirstName: "Bob", LastName: "Baker"},
		},
		Templates: []model.TaskTemplate{
			{ID: "t0", TaskName: "Full", Modules: []model.ModuleInput{moduleInput("M", "A", "B", "C")}},
			{ID: "t1", TaskName: "Partial", Modules: []model.ModuleInput{moduleInput("M", "B", "C")}},
		},
	}
	e := New()
	require.True(t, e.SetSelectedClass(class))
	present(t, e, "s1")
	assign(t, e, "t1", "s1")

	require.True(t, e.DisableSubSkillsWithoutStudents("M"))
	s := e.Snapshot()
	m, _ := s.Modules.Get("M")
	assert.Equal(t, []string{"B", "C", "A"}, m.SubSkills.Keys())
	assert.True(t, subSkill(t, s, "M", "A").IsDisabled)
	assert.False(t, subSkill(t, s, "M", "B").IsDisabled)
	assert.False(t, subSkill(t, s, "M", "C").IsDisabled)
	assert.False(t, e.DisableSubSkillsWithoutStudents("M"), "stable once partitioned")

	present(t, e, "s2")
	assign(t, e, "t0", "s2")
	require.True(t, e.DisableSubSkillsWithoutStudents("M"))
	s = e.Snapshot()
	assert.False(t, subSkill(t, s, "M", "A").IsDisabled, "re-enabled once someone is eligible")

	assert.False(t, e.DisableSubSkillsWithoutStudents("missing"))
}

func TestDisabledSubSkillsCountAsDone(t *testing.T) {
	class := model.ClassSnapshot{
		ID:       "class-disabled",
		Students: []model.ClassStudent{{ID: "s1", FirstName: "Ann", LastName: "Able"}},
		Templates: []model.TaskTemplate{
			{ID: "t0", TaskName: "Full", Modules: []model.ModuleInput{moduleInput("M", "A", "B")}},
			{ID: "t1", TaskName: "Partial", Modules: []model.ModuleInput{moduleInput("M", "B")}},
		},
	}
	e := New()
	require.True(t, e.SetSelectedClass(class))
	present(t, e, "s1")
	assign(t, e, "t1", "s1")
	score(t, e, "s1", "M", "B", 13)

	e.DisableSubSkillsWithoutStudents("M")
	assert.True(t, e.CheckForCompletedModules())
	assert.True(t, e.AreAllModulesCompleted())
}

func TestSetSubSkillHasCompleted(t *testing.T) {
	e := loadedEngine(t)
	before := e.Snapshot()

	assert.True(t, e.SetSubSkillHasCompleted(modNet, "x", true))
	assert.False(t, e.SetSubSkillHasCompleted(modNet, "x", true))
	assert.False(t, e.SetSubSkillHasCompleted(modNet, "missing", true))
	assert.False(t, e.SetSubSkillHasCompleted("missing", "x", true))

	assert.False(t, subSkill(t, before, modNet, "x").IsCompleted, "earlier snapshot untouched")
	assert.True(t, subSkill(t, e.Snapshot(), modNet, "x").IsCompleted)

	require.True(t, e.CheckForCompletedModules())
	net, _ := e.Snapshot().Modules.Get(modNet)
	require.True(t, net.IsCompleted)

	require.True(t, e.SetSubSkillHasCompleted(modNet, "x", false))
	net, _ = e.Snapshot().Modules.Get(modNet)
	assert.False(t, net.IsCompleted, "module follows its sub-skills down")
}

func TestRefreshCompletionForTasks(t *testing.T) {
	e := loadedEngine(t)
	require.True(t, e.SetSubSkillHasCompleted(modDev, "a", true))
	require.True(t, e.SetSubSkillHasCompleted(modNet, "x", true))

	assert.False(t, e.RefreshCompletionForTasks("t-missing"))
	assert.True(t, e.RefreshCompletionForTasks(taskAPI))

	s := e.Snapshot()
	assert.False(t, subSkill(t, s, modDev, "a").IsCompleted)
	assert.True(t, subSkill(t, s, modNet, "x").IsCompleted, "t-api does not use m-net")
}
