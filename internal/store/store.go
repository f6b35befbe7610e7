// Package store keeps imported classes in SQLite so an evaluation session can
// be started from the catalog instead of a class file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdiDevClick/teachboard/internal/model"

	_ "modernc.org/sqlite"
)

// ErrClassNotFound is returned when a class id is not in the catalog.
var ErrClassNotFound = errors.New("class not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		imported_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS class_students (
		class_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (class_id, position),
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS class_evaluations (
		class_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		evaluation_id TEXT NOT NULL,
		PRIMARY KEY (class_id, position),
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS class_templates (
		class_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL DEFAULT '',
		task_name TEXT NOT NULL DEFAULT '',
		task_id TEXT NOT NULL DEFAULT '',
		task_label TEXT NOT NULL DEFAULT '',
		task_description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (class_id, position),
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS template_modules (
		class_id TEXT NOT NULL,
		template_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (class_id, template_position, position),
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS template_sub_skills (
		class_id TEXT NOT NULL,
		template_position INTEGER NOT NULL,
		module_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (class_id, template_position, module_position, position),
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS import_metadata (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		imported_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// childTables lists the per-class tables, children first.
var childTables = []string{
	"template_sub_skills",
	"template_modules",
	"class_templates",
	"class_evaluations",
	"class_students",
}

// SaveClass stores a class, replacing any earlier copy with the same id.
func (s *Store) SaveClass(c model.ClassSnapshot) error {
	if c.ID == "" {
		return errors.New("save class: empty id")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteClass(tx, c.ID); err != nil {
		return fmt.Errorf("replace class %s: %w", c.ID, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO classes (id, name, description, imported_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert class %s: %w", c.ID, err)
	}

	for i, st := range c.Students {
		if _, err := tx.Exec(
			`INSERT INTO class_students (class_id, position, id, first_name, last_name) VALUES (?, ?, ?, ?, ?)`,
			c.ID, i, st.ID, st.FirstName, st.LastName,
		); err != nil {
			return fmt.Errorf("insert student %s: %w", st.ID, err)
		}
	}
	for i, ev := range c.Evaluations {
		if _, err := tx.Exec(
			`INSERT INTO class_evaluations (class_id, position, evaluation_id) VALUES (?, ?, ?)`,
			c.ID, i, ev,
		); err != nil {
			return fmt.Errorf("insert evaluation %s: %w", ev, err)
		}
	}
	for ti, tpl := range c.Templates {
		if err := insertTemplate(tx, c.ID, ti, tpl); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertTemplate(tx *sql.Tx, classID string, ti int, tpl model.TaskTemplate) error {
	if _, err := tx.Exec(
		`INSERT INTO class_templates (class_id, position, id, task_name, task_id, task_label, task_description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		classID, ti, tpl.ID, tpl.TaskName, tpl.Task.ID, tpl.Task.Name, tpl.Task.Description,
	); err != nil {
		return fmt.Errorf("insert template %s: %w", tpl.TaskID(), err)
	}
	for mi, m := range tpl.Modules {
		if _, err := tx.Exec(
			`INSERT INTO template_modules (class_id, template_position, position, id, name, code) VALUES (?, ?, ?, ?, ?, ?)`,
			classID, ti, mi, m.ID, m.Name, m.Code,
		); err != nil {
			return fmt.Errorf("insert module %s: %w", m.ID, err)
		}
		for si, sub := range m.SubSkills {
			if _, err := tx.Exec(
				`INSERT INTO template_sub_skills (class_id, template_position, module_position, position, id, name, code)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				classID, ti, mi, si, sub.ID, sub.Name, sub.Code,
			); err != nil {
				return fmt.Errorf("insert sub-skill %s: %w", sub.ID, err)
			}
		}
	}
	return nil
}

func deleteClass(tx *sql.Tx, id string) error {
	for _, table := range childTables {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE class_id = ?`, id); err != nil {
			return err
		}
	}
	_, err := tx.Exec(`DELETE FROM classes WHERE id = ?`, id)
	return err
}

// DeleteClass removes a class and everything stored with it.
func (s *Store) DeleteClass(id string) error {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM classes WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("delete class %s: %w", id, ErrClassNotFound)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deleteClass(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListClasses returns a summary of every stored class, by name.
func (s *Store) ListClasses() ([]model.ClassSummary, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.imported_at,
			(SELECT COUNT(*) FROM class_students st WHERE st.class_id = c.id),
			(SELECT COUNT(*) FROM class_templates t WHERE t.class_id = c.id)
		FROM classes c ORDER BY c.name, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var classes []model.ClassSummary
	for rows.Next() {
		var c model.ClassSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImportedAt, &c.StudentCount, &c.TaskCount); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ClassCount returns the number of classes in the catalog.
func (s *Store) ClassCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM classes`).Scan(&count)
	return count, err
}
