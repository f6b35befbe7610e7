// Package report summarises an evaluation session for the command line.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AdiDevClick/teachboard/internal/evaluation"
	"github.com/AdiDevClick/teachboard/internal/i18n"
	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/session"
)

// Build summarises a session snapshot.
func Build(s *session.State) model.SessionReport {
	r := model.SessionReport{
		ClassID:             s.Session.ClassID,
		ClassName:           s.Session.ClassName,
		Description:         s.Session.Description,
		DiplomaName:         s.Session.DiplomaName,
		StudentCount:        s.Students.Len(),
		Absentees:           []string{},
		Modules:             []model.ModuleResult{},
		Students:            []model.StudentResult{},
		AllModulesCompleted: s.AreAllModulesCompleted(),
	}

	for _, names := range s.NonPresent.ByID.All() {
		r.Absentees = append(r.Absentees, names...)
	}

	for _, m := range s.Modules.All() {
		mr := model.ModuleResult{
			ID:                m.ID,
			Name:              m.Name,
			Code:              m.Code,
			Attended:          m.StudentsToEvaluate.Len() > 0,
			IsCompleted:       m.IsCompleted,
			StudentsEvaluated: m.StudentsToEvaluate.Len(),
			SubSkills:         make([]model.SubSkillResult, 0, m.SubSkills.Len()),
		}
		for _, sub := range m.SubSkills.All() {
			mr.SubSkills = append(mr.SubSkills, model.SubSkillResult{
				ID:          sub.ID,
				Name:        sub.Name,
				Code:        sub.Code,
				IsCompleted: sub.IsCompleted,
				IsDisabled:  sub.IsDisabled,
			})
		}
		r.Modules = append(r.Modules, mr)
	}

	averages := s.AllStudentsAverageScores()
	for _, st := range s.AllPresentStudents() {
		sr := model.StudentResult{
			ID:         st.ID,
			FullName:   st.FullName,
			ScoreCount: evaluation.ScoreCount(st),
		}
		if st.AssignedTask != nil {
			sr.TaskName = st.AssignedTask.Name
		}
		sr.AverageScore, _ = averages.Get(st.ID)
		if st.OverallScore != nil {
			v := *st.OverallScore
			sr.OverallScore = &v
		}
		r.Students = append(r.Students, sr)
	}
	r.PresentCount = len(r.Students)
	return r
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r model.SessionReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// WriteText writes the report in the language carried by ctx.
func WriteText(ctx context.Context, w io.Writer, r model.SessionReport) error {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(i18n.Td(ctx, "ReportTitle", map[string]any{"ClassName": r.ClassName}))
	if r.Description != "" {
		line(i18n.Td(ctx, "ReportDescription", map[string]any{"Description": r.Description}))
	}
	if r.DiplomaName != "" {
		line(i18n.Td(ctx, "ReportDiploma", map[string]any{"Name": r.DiplomaName}))
	}
	line(i18n.Tpd(ctx, "Attendance", r.StudentCount, map[string]any{"Present": r.PresentCount}))
	if len(r.Absentees) == 0 {
		line(i18n.T(ctx, "NoAbsentees"))
	} else {
		line(i18n.Td(ctx, "Absentees", map[string]any{"Names": strings.Join(r.Absentees, ", ")}))
	}

	line("")
	line(i18n.T(ctx, "ModulesHeading"))
	for _, m := range r.Modules {
		done := 0
		for _, sub := range m.SubSkills {
			if sub.IsCompleted || sub.IsDisabled {
				done++
			}
		}
		line(i18n.Td(ctx, "ModuleLine", map[string]any{
			"Code":   m.Code,
			"Name":   m.Name,
			"Status": i18n.T(ctx, moduleStatus(m)),
			"Done":   done,
			"Total":  len(m.SubSkills),
		}) + ", " + i18n.Tp(ctx, "StudentsToEvaluate", m.StudentsEvaluated))
		for _, sub := range m.SubSkills {
			line("  " + i18n.Td(ctx, "SubSkillLine", map[string]any{
				"Code":   sub.Code,
				"Name":   sub.Name,
				"Status": i18n.T(ctx, subSkillStatus(sub)),
			}))
		}
	}

	line("")
	line(i18n.T(ctx, "StudentsHeading"))
	if len(r.Students) == 0 {
		line(i18n.T(ctx, "NoStudentsPresent"))
	}
	for _, st := range r.Students {
		task := st.TaskName
		if task == "" {
			task = i18n.T(ctx, "NoTask")
		}
		s := i18n.Td(ctx, "StudentLine", map[string]any{
			"Name":    st.FullName,
			"Task":    task,
			"Average": strconv.FormatFloat(st.AverageScore, 'f', 2, 64),
		}) + ", " + i18n.Tp(ctx, "ScoreCount", st.ScoreCount)
		if st.OverallScore != nil {
			s += ", " + i18n.Td(ctx, "OverallOverride", map[string]any{
				"Score": strconv.FormatFloat(*st.OverallScore, 'g', -1, 64),
			})
		}
		line(s)
	}

	line("")
	if r.AllModulesCompleted {
		line(i18n.T(ctx, "AllModulesCompleted"))
	} else {
		line(i18n.T(ctx, "ModulesStillOpen"))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func moduleStatus(m model.ModuleResult) string {
	switch {
	case !m.Attended:
		return "StatusNotAttended"
	case m.IsCompleted:
		return "StatusCompleted"
	default:
		return "StatusInProgress"
	}
}

func subSkillStatus(s model.SubSkillResult) string {
	switch {
	case s.IsDisabled:
		return "StatusDisabled"
	case s.IsCompleted:
		return "StatusCompleted"
	default:
		return "StatusPending"
	}
}
