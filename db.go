package mapgen

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/bodgit/mapgen/province"
	_ "github.com/mattn/go-sqlite3"
)

// ErrEmptyTable is returned when no color table has been imported
var ErrEmptyTable = errors.New("mapgen: no color table imported")

// TableDB persists a color table in a sqlite database.
type TableDB struct {
	db *sql.DB
}

func NewTableDB(file string) (*TableDB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS province (seq INTEGER PRIMARY KEY NOT NULL, id INTEGER NOT NULL, name TEXT, color TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &TableDB{
		db: db,
	}, nil
}

// OpenTableDB opens an existing database read-only. Unlike NewTableDB it
// never creates the file.
func OpenTableDB(file string) (*TableDB, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return &TableDB{
		db: db,
	}, nil
}

func (db *TableDB) Close() error {
	return db.db.Close()
}

// ImportXML replaces the stored table with the one in file.
func (db *TableDB) ImportXML(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := province.ReadXML(f)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", file, err)
	}

	return db.SetTable(t)
}

// SetTable replaces the stored table with t.
func (db *TableDB) SetTable(t *province.Table) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM province"); err != nil {
		tx.Rollback()
		return err
	}

	for _, p := range t.Provinces() {
		var name sql.NullString
		if p.Name != "" {
			name.String = p.Name
			name.Valid = true
		}

		if _, err = tx.Exec("INSERT INTO province (id, name, color) VALUES (?, ?, ?)", p.ID, name, province.FormatColor(p.Color)); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Table loads the stored table.
func (db *TableDB) Table() (*province.Table, error) {
	rows, err := db.db.Query("SELECT id, name, color FROM province ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t, _ := province.NewTable()
	for rows.Next() {
		var id int64
		var name sql.NullString
		var s string
		if err := rows.Scan(&id, &name, &s); err != nil {
			return nil, err
		}

		c, err := province.ParseColor(s)
		if err != nil {
			return nil, err
		}

		if err := t.Add(province.Province{ID: uint16(id), Name: name.String, Color: c}); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}

	return t, nil
}
