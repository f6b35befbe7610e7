package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/AdiDevClick/teachboard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testClass(id, name string) model.ClassSnapshot {
	return model.ClassSnapshot{
		ID:          id,
		Name:        name,
		Description: "Evening group",
		Evaluations: []string{"ev-2", "ev-1"},
		Students: []model.ClassStudent{
			{ID: "s-2", FirstName: "Zoe", LastName: "Zeller"},
			{ID: "s-1", FirstName: "Adam", LastName: "Abel"},
		},
		Templates: []model.TaskTemplate{
			{
				ID:       "tpl-web",
				TaskName: "Website",
				Task:     model.TaskInfo{ID: "task-web", Name: "Web", Description: "Build a site"},
				Modules: []model.ModuleInput{
					{ID: "m-2", Name: "Deploy", Code: "B2", SubSkills: []model.SubSkillInput{
						{ID: "k-3", Name: "Host", Code: "B2.2"},
						{ID: "k-1", Name: "Ship", Code: "B2.1"},
					}},
					{ID: "m-1", Name: "Design", Code: "B1", SubSkills: []model.SubSkillInput{
						{ID: "k-2", Name: "Mockup", Code: "B1.1"},
					}},
				},
			},
			{
				Task: model.TaskInfo{ID: "task-api", Name: "API"},
				Modules: []model.ModuleInput{
					{ID: "m-2", Name: "Deploy", Code: "B2", SubSkills: []model.SubSkillInput{
						{ID: "k-1", Name: "Ship", Code: "B2.1"},
					}},
				},
			},
		},
	}
}

func TestSaveAndLoadClass(t *testing.T) {
	s := newTestStore(t)
	in := testClass("class-1", "SIO 1")

	if err := s.SaveClass(in); err != nil {
		t.Fatalf("SaveClass: %v", err)
	}

	got, err := s.LoadClass("class-1")
	if err != nil {
		t.Fatalf("LoadClass: %v", err)
	}
	// Order and every field survive the round trip.
	if !reflect.DeepEqual(in, *got) {
		t.Errorf("LoadClass = %+v, want %+v", *got, in)
	}
}

func TestSaveClassReplaces(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveClass(testClass("class-1", "SIO 1")); err != nil {
		t.Fatalf("SaveClass: %v", err)
	}

	updated := testClass("class-1", "SIO 1 bis")
	updated.Students = updated.Students[:1]
	updated.Templates = updated.Templates[1:]
	if err := s.SaveClass(updated); err != nil {
		t.Fatalf("SaveClass (replace): %v", err)
	}

	got, err := s.LoadClass("class-1")
	if err != nil {
		t.Fatalf("LoadClass: %v", err)
	}
	if !reflect.DeepEqual(updated, *got) {
		t.Errorf("LoadClass = %+v, want %+v", *got, updated)
	}

	count, err := s.ClassCount()
	if err != nil {
		t.Fatalf("ClassCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 class, got %d", count)
	}
}

func TestSaveClassRejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveClass(model.ClassSnapshot{Name: "nameless"}); err == nil {
		t.Error("expected error for class without id")
	}
}

func TestLoadClassNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadClass("missing")
	if !errors.Is(err, ErrClassNotFound) {
		t.Errorf("LoadClass(missing) error = %v, want ErrClassNotFound", err)
	}
}

func TestListClasses(t *testing.T) {
	s := newTestStore(t)

	list, err := s.ListClasses()
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	if err := s.SaveClass(testClass("class-b", "SIO 2")); err != nil {
		t.Fatalf("SaveClass: %v", err)
	}
	if err := s.SaveClass(testClass("class-a", "SIO 1")); err != nil {
		t.Fatalf("SaveClass: %v", err)
	}

	list, err = s.ListClasses()
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(list))
	}
	first := list[0]
	if first.ID != "class-a" || first.Name != "SIO 1" || first.Description != "Evening group" {
		t.Errorf("first class = %+v, want class-a / SIO 1 / Evening group", first)
	}
	if first.StudentCount != 2 || first.TaskCount != 2 {
		t.Errorf("counts = %d students, %d tasks, want 2 and 2", first.StudentCount, first.TaskCount)
	}
	if first.ImportedAt.IsZero() {
		t.Error("ImportedAt not set")
	}
	if list[1].ID != "class-b" {
		t.Errorf("second class = %q, want class-b", list[1].ID)
	}
}

func TestDeleteClass(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"class-1", "class-2"} {
		if err := s.SaveClass(testClass(id, "SIO "+id)); err != nil {
			t.Fatalf("SaveClass(%s): %v", id, err)
		}
	}

	if err := s.DeleteClass("class-1"); err != nil {
		t.Fatalf("DeleteClass: %v", err)
	}
	if _, err := s.LoadClass("class-1"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("LoadClass after delete error = %v, want ErrClassNotFound", err)
	}

	other, err := s.LoadClass("class-2")
	if err != nil {
		t.Fatalf("LoadClass(class-2): %v", err)
	}
	if len(other.Students) != 2 {
		t.Errorf("class-2 has %d students, want 2", len(other.Students))
	}

	if err := s.DeleteClass("class-1"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("second DeleteClass error = %v, want ErrClassNotFound", err)
	}
}

func TestImportedFileHash(t *testing.T) {
	s := newTestStore(t)
	const path = "/classes/sio1.yaml"

	hash, err := s.GetImportedFileHash(path)
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "" {
		t.Errorf("expected empty hash for new file, got %q", hash)
	}

	for _, want := range []string{"abc123", "def456"} {
		if err := s.SetImportedFileHash(path, want); err != nil {
			t.Fatalf("SetImportedFileHash: %v", err)
		}
		hash, err = s.GetImportedFileHash(path)
		if err != nil {
			t.Fatalf("GetImportedFileHash: %v", err)
		}
		if hash != want {
			t.Errorf("hash = %q, want %q", hash, want)
		}
	}
}
