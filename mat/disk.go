package mat

import (
	"context"
	"database/sql"
	"fmt"
	"math/cmplx"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableMatrix = "m"
)

// DiskMatrix is a sqlite-backed triplet accumulator for matrices too
// large for RAM. Duplicate entries are summed on insertion, so it
// implements the same assembly contract as the in-memory COO.
type DiskMatrix struct {
	Path string
	rows int
	cols int

	db *sql.DB
}

func DiskZeros(dbPath string, rows, cols int) *DiskMatrix {
	m, err := diskZeros(dbPath, rows, cols)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return m
}

func diskZeros(dbPath string, rows, cols int) (*DiskMatrix, error) {
	m := &DiskMatrix{Path: dbPath, rows: rows, cols: cols}
	var err error
	m.db, err = newDB(m.Path)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return m, nil
}

func (m *DiskMatrix) Close() error {
	var err error
	if err1 := m.db.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err1 := os.Remove(m.Path); err1 != nil && err == nil {
		err = err1
	}
	return err
}

func (m *DiskMatrix) Zeros(rows, cols int) {
	m.rows, m.cols = rows, cols
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := deleteAll(ctx, m.db); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (m *DiskMatrix) Rows() int { return m.rows }
func (m *DiskMatrix) Cols() int { return m.cols }

func (m *DiskMatrix) Accumulate(i, j int, v complex64) {
	if err := m.accumulate(i, j, v); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (m *DiskMatrix) accumulate(i, j int, v complex64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`INSERT INTO %s (i, j, re, im) VALUES (?, ?, ?, ?)
		ON CONFLICT (i, j) DO UPDATE SET re=re+excluded.re, im=im+excluded.im`, tableMatrix)
	if _, err := m.db.ExecContext(ctx, sqlStr, i, j, real(v), imag(v)); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%d %d", i, j))
	}
	return nil
}

// Compact drops entries that summed to exactly zero.
func (m *DiskMatrix) Compact() {
	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()
	sqlStr := fmt.Sprintf(`DELETE FROM %s WHERE re=0 AND im=0`, tableMatrix)
	if _, err := m.db.ExecContext(ctx, sqlStr); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

func (m *DiskMatrix) At(i, j int) complex64 {
	v, err := m.at(i, j)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return v
}

func (m *DiskMatrix) at(i, j int) (complex64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT re, im FROM %s WHERE i=? AND j=?`, tableMatrix)
	var re, im float32
	err := m.db.QueryRowContext(ctx, sqlStr, i, j).Scan(&re, &im)
	switch {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		return complex64(cmplx.NaN()), errors.Wrap(err, "")
	default:
		return complex(re, im), nil
	}
}

func (a *DiskMatrix) COO() *COO {
	b, err := a.coo()
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return b
}

func (a *DiskMatrix) coo() (*COO, error) {
	b := &COO{rows: a.rows, cols: a.cols, Data: make([]vRowCol, 0), m: make(map[[2]int]complex64)}

	ctx, cancel := context.WithTimeout(context.Background(), 48*time.Hour)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT i, j, re, im FROM %s ORDER BY i, j`, tableMatrix)
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	for rows.Next() {
		var i, j int
		var re, im float32
		if err := rows.Scan(&i, &j, &re, &im); err != nil {
			return nil, errors.Wrap(err, "")
		}
		b.Data = append(b.Data, vRowCol{v: complex(re, im), row: i, col: j})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	return b, nil
}

func (m *DiskMatrix) NumNonZero() int {
	n, err := m.numNonZero()
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return n
}

func (m *DiskMatrix) numNonZero() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf("SELECT count(1) FROM %s", tableMatrix)
	var n int
	if err := m.db.QueryRowContext(ctx, sqlStr).Scan(&n); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return n, nil
}

func (m *DiskMatrix) WriteCOO(dir string) error {
	return m.COO().WriteCOO(dir)
}

func newDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}

	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableMatrix)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (i INTEGER, j INTEGER, re REAL, im REAL, PRIMARY KEY (i, j)) STRICT`, tableMatrix)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func deleteAll(ctx context.Context, db *sql.DB) error {
	sqlStr := fmt.Sprintf(`DELETE FROM %s`, tableMatrix)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
