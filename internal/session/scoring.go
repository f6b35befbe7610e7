package session

import (
	"github.com/AdiDevClick/teachboard/internal/evaluation"
	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/orderedmap"
)

// overallScoreScale converts a 0-4 overall score override to the 0-20 scale
// used for averages.
const overallScoreScale = 5

// Ref names a module or sub-skill as the caller sees it.
type Ref struct {
	ID   string
	Name string
	Code string
}

// EvaluationInput is one score to record.
type EvaluationInput struct {
	Module   Ref
	SubSkill Ref
	Score    *float64
}

// SetEvaluationForStudent records a score, replacing any earlier score for the
// same module and sub-skill. Inputs without every id or without a score are
// ignored. The sub-skill's completion flag is recomputed afterwards.
func (e *Engine) SetEvaluationForStudent(studentID string, in EvaluationInput) bool {
	return e.update("setEvaluationForStudent", func(d *State) bool {
		return d.setEvaluationForStudent(studentID, in)
	})
}

// SetStudentOverallScore sets or, with nil, clears a student's overall score
// override.
func (e *Engine) SetStudentOverallScore(studentID string, score *float64) bool {
	return e.update("setStudentOverallScore", func(d *State) bool {
		st, ok := d.student(studentID)
		if !ok {
			return false
		}
		if score == nil {
			if st.OverallScore == nil {
				return false
			}
			st.OverallScore = nil
			return true
		}
		if st.OverallScore != nil && *st.OverallScore == *score {
			return false
		}
		v := *score
		st.OverallScore = &v
		return true
	})
}

// StudentScoreForSubSkill returns the score a student has for a sub-skill.
func (e *Engine) StudentScoreForSubSkill(studentID, subSkillID, moduleID string) (float64, bool) {
	var (
		score float64
		ok    bool
	)
	e.view(func(s *State) { score, ok = s.StudentScoreForSubSkill(studentID, subSkillID, moduleID) })
	return score, ok
}

// AllStudentsAverageScores returns each present student's score keyed by id:
// the overall override times five when set, the mean of recorded scores
// otherwise.
func (e *Engine) AllStudentsAverageScores() *orderedmap.Map[string, float64] {
	var out *orderedmap.Map[string, float64]
	e.view(func(s *State) { out = s.AllStudentsAverageScores() })
	return out
}

// StudentScoreForSubSkill is the lookup behind the engine method.
func (s *State) StudentScoreForSubSkill(studentID, subSkillID, moduleID string) (float64, bool) {
	st, ok := s.student(studentID)
	if !ok {
		return 0, false
	}
	return st.Evaluations.Score(s.selectedModuleID(moduleID), s.selectedSubSkillID(subSkillID))
}

// AllStudentsAverageScores is the computation behind the engine method.
func (s *State) AllStudentsAverageScores() *orderedmap.Map[string, float64] {
	out := orderedmap.New[string, float64]()
	for _, st := range s.Students.All() {
		if !st.IsPresent {
			continue
		}
		if st.OverallScore != nil {
			out.Set(st.ID, *st.OverallScore*overallScoreScale)
			continue
		}
		out.Set(st.ID, evaluation.StudentAverageScore(st))
	}
	return out
}

func (s *State) setEvaluationForStudent(studentID string, in EvaluationInput) bool {
	if in.SubSkill.ID == "" || in.Module.ID == "" || studentID == "" || in.Score == nil {
		return false
	}
	st, ok := s.student(studentID)
	if !ok {
		return false
	}

	moduleRef, subSkillRef := s.describe(in.Module, in.SubSkill)
	if st.Evaluations == nil {
		st.Evaluations = model.NewStudentEvaluation()
	}
	me, ok := st.Evaluations.Modules.Get(moduleRef.ID)
	if !ok {
		me = model.NewModuleEval(moduleRef.ID, moduleRef.Name, moduleRef.Code)
		st.Evaluations.Modules.Set(me.ID, me)
	}
	me.SubSkills.Set(subSkillRef.ID, model.SubSkillEval{
		ID:    subSkillRef.ID,
		Name:  subSkillRef.Name,
		Code:  subSkillRef.Code,
		Score: *in.Score,
	})

	s.setSubSkillHasCompleted(moduleRef.ID, subSkillRef.ID, s.IsThisSubSkillCompleted(subSkillRef.ID, moduleRef.ID))
	return true
}

// describe fills missing names and codes from the session's module records.
func (s *State) describe(module, subSkill Ref) (Ref, Ref) {
	m, ok := s.module(module.ID)
	if !ok {
		return module, subSkill
	}
	if module.Name == "" {
		module.Name = m.Name
	}
	if module.Code == "" {
		module.Code = m.Code
	}
	if sub, ok := m.SubSkills.Get(subSkill.ID); ok {
		if subSkill.Name == "" {
			subSkill.Name = sub.Name
		}
		if subSkill.Code == "" {
			subSkill.Code = sub.Code
		}
	}
	return module, subSkill
}
