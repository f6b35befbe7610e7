package session

import "github.com/AdiDevClick/teachboard/internal/model"

// SetModuleSelection moves the module cursor and resets the sub-skill cursor.
// An empty moduleID clears the selection; an unknown one is ignored.
func (e *Engine) SetModuleSelection(index int, moduleID string) bool {
	return e.update("setModuleSelection", func(d *State) bool {
		if moduleID != "" && !d.Modules.Has(moduleID) {
			return false
		}
		if moduleID == "" {
			index = -1
		}
		if d.ModuleSelection.SelectedModuleID == moduleID && d.ModuleSelection.SelectedModuleIndex == index {
			return false
		}
		d.ModuleSelection.SelectedModuleID = moduleID
		d.ModuleSelection.SelectedModuleIndex = index
		d.SubSkillSelection = model.SubSkillSelection{SelectedSubSkillIndex: -1}
		return true
	})
}

// SetSubskillSelection moves the sub-skill cursor. The sub-skill must belong
// to the selected module, or to any module when none is selected.
func (e *Engine) SetSubskillSelection(index int, subSkillID string) bool {
	return e.update("setSubskillSelection", func(d *State) bool {
		if subSkillID == "" {
			index = -1
		} else if !d.hasSubSkill(d.ModuleSelection.SelectedModuleID, subSkillID) {
			return false
		}
		next := model.SubSkillSelection{SelectedSubSkillIndex: index, SelectedSubSkillID: subSkillID}
		if d.SubSkillSelection == next {
			return false
		}
		d.SubSkillSelection = next
		return true
	})
}

// SetModuleSelectionIsClicked records whether the module view is open.
func (e *Engine) SetModuleSelectionIsClicked(clicked bool) bool {
	return e.update("setModuleSelectionIsClicked", func(d *State) bool {
		if d.ModuleSelection.IsClicked == clicked {
			return false
		}
		d.ModuleSelection.IsClicked = clicked
		return true
	})
}

// ModuleSelection returns the module cursor.
func (e *Engine) ModuleSelection() model.ModuleSelection {
	var out model.ModuleSelection
	e.view(func(s *State) { out = s.ModuleSelection })
	return out
}

// SubSkillSelection returns the sub-skill cursor.
func (e *Engine) SubSkillSelection() model.SubSkillSelection {
	var out model.SubSkillSelection
	e.view(func(s *State) { out = s.SubSkillSelection })
	return out
}

func (s *State) hasSubSkill(moduleID, subSkillID string) bool {
	if moduleID != "" {
		m, ok := s.module(moduleID)
		return ok && m.SubSkills.Has(subSkillID)
	}
	for _, m := range s.Modules.All() {
		if m.SubSkills.Has(subSkillID) {
			return true
		}
	}
	return false
}
