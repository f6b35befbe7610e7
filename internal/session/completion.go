package session

import (
	"slices"

	"github.com/AdiDevClick/teachboard/internal/model"
)

// DisableSubSkillsWithoutStudents flags every sub-skill of the module that no
// student is eligible for, and reorders the module so those come last.
func (e *Engine) DisableSubSkillsWithoutStudents(moduleID string) bool {
	return e.update("disableSubSkillsWithoutStudents", func(d *State) bool {
		return d.disableSubSkillsWithoutStudents(moduleID)
	})
}

// IsThisSubSkillCompleted reports whether every eligible student has a score
// for the sub-skill. Empty ids fall back to the selection cursors. A sub-skill
// nobody is eligible for is not completed; check IsDisabled to tell it apart
// from one still pending.
func (e *Engine) IsThisSubSkillCompleted(subSkillID, moduleID string) bool {
	var out bool
	e.view(func(s *State) { out = s.IsThisSubSkillCompleted(subSkillID, moduleID) })
	return out
}

// CheckForCompletedModules recomputes every module's completion flag.
func (e *Engine) CheckForCompletedModules() bool {
	return e.update("checkForCompletedModules", func(d *State) bool {
		return d.checkForCompletedModules()
	})
}

// RefreshCompletionForTasks resets completion on every sub-skill of the
// modules referenced by taskIDs.
func (e *Engine) RefreshCompletionForTasks(taskIDs ...string) bool {
	return e.update("refreshCompletionForTasks", func(d *State) bool {
		return d.refreshCompletionForTasks(taskIDs...)
	})
}

// SetSubSkillHasCompleted sets a sub-skill's completion flag.
func (e *Engine) SetSubSkillHasCompleted(moduleID, subSkillID string, completed bool) bool {
	return e.update("setSubSkillHasCompleted", func(d *State) bool {
		return d.setSubSkillHasCompleted(moduleID, subSkillID, completed)
	})
}

// AreAllModulesCompleted reports whether every module with students to
// evaluate is completed.
func (e *Engine) AreAllModulesCompleted() bool {
	var out bool
	e.view(func(s *State) { out = s.AreAllModulesCompleted() })
	return out
}

// IsThisSubSkillCompleted is the completion rule behind the engine method.
func (s *State) IsThisSubSkillCompleted(subSkillID, moduleID string) bool {
	subSkillID = s.selectedSubSkillID(subSkillID)
	moduleID = s.selectedModuleID(moduleID)
	found := s.eligibleStudents(subSkillID, moduleID)
	if len(found) == 0 {
		return false
	}
	for _, f := range found {
		if _, ok := f.student.Evaluations.Score(f.moduleID, subSkillID); !ok {
			return false
		}
	}
	return true
}

// AreAllModulesCompleted is the rule behind the engine method.
func (s *State) AreAllModulesCompleted() bool {
	for _, m := range s.AttendedModules() {
		if !m.IsCompleted {
			return false
		}
	}
	return true
}

func (s *State) disableSubSkillsWithoutStudents(moduleID string) bool {
	m, ok := s.module(moduleID)
	if !ok {
		return false
	}
	var enabled, disabled []*model.SubSkill
	for id, sub := range m.SubSkills.All() {
		if len(s.eligibleStudents(id, m.ID)) > 0 {
			enabled = append(enabled, sub)
		} else {
			disabled = append(disabled, sub)
		}
	}

	before := m.SubSkills.Keys()
	changed := false
	for _, sub := range enabled {
		if sub.IsDisabled {
			sub.IsDisabled = false
			changed = true
		}
	}
	for _, sub := range disabled {
		if !sub.IsDisabled {
			sub.IsDisabled = true
			changed = true
		}
		// Re-inserting moves the entry behind every enabled sub-skill.
		m.SubSkills.Delete(sub.ID).Set(sub.ID, sub)
	}
	if !slices.Equal(before, m.SubSkills.Keys()) {
		changed = true
	}
	if s.syncModuleCompletion(m) {
		changed = true
	}
	return changed
}

func (s *State) checkForCompletedModules() bool {
	changed := false
	for _, m := range s.Modules.All() {
		done := 0
		for _, sub := range m.SubSkills.All() {
			if sub.IsCompleted || sub.IsDisabled {
				done++
			}
		}
		completed := done == m.SubSkills.Len()
		if m.IsCompleted != completed {
			m.IsCompleted = completed
			changed = true
		}
	}
	return changed
}

func (s *State) refreshCompletionForTasks(taskIDs ...string) bool {
	changed := false
	for _, m := range s.modulesForTasks(taskIDs...) {
		for _, sub := range m.SubSkills.All() {
			if sub.IsCompleted {
				sub.IsCompleted = false
				changed = true
			}
		}
		if s.syncModuleCompletion(m) {
			changed = true
		}
	}
	return changed
}

// recomputeCompletionForTasks re-derives IsCompleted for every sub-skill of
// the modules the tasks reference.
func (s *State) recomputeCompletionForTasks(taskIDs ...string) bool {
	changed := false
	for _, m := range s.modulesForTasks(taskIDs...) {
		for _, id := range m.SubSkills.Keys() {
			if s.setSubSkillHasCompleted(m.ID, id, s.IsThisSubSkillCompleted(id, m.ID)) {
				changed = true
			}
		}
	}
	return changed
}

func (s *State) setSubSkillHasCompleted(moduleID, subSkillID string, completed bool) bool {
	m, ok := s.module(moduleID)
	if !ok {
		return false
	}
	sub, ok := m.SubSkills.Get(subSkillID)
	if !ok || sub.IsCompleted == completed {
		return false
	}
	updated := sub.Clone()
	updated.IsCompleted = completed
	subSkills := m.SubSkills.Clone()
	subSkills.Set(updated.ID, updated)
	m.SubSkills = subSkills
	s.syncModuleCompletion(m)
	return true
}

// syncModuleCompletion clears a module's completion flag once one of its
// sub-skills is neither completed nor disabled. Setting the flag is left to
// checkForCompletedModules.
func (s *State) syncModuleCompletion(m *model.Module) bool {
	if m.IsCompleted && !m.SubSkillsDone() {
		m.IsCompleted = false
		return true
	}
	return false
}
