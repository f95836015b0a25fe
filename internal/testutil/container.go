package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// FakeContainer is an in-memory container for validator and engine tests.
//
// It satisfies the same read interface as *store.Container. Failures of the
// underlying reader are injected with FailColumns, FailRows, FailTables,
// FailPragma and FailRowsAfter.
//
// Thread-safety: FakeContainer is safe for concurrent use via internal mutex.
type FakeContainer struct {
	mu sync.Mutex

	tables  map[string]fakeTable
	pragmas map[string][]store.Row

	columnsErr map[string]error
	rowsErr    map[string]error
	rowsAfter  map[string]int
	iterErr    map[string]error
	tablesErr  error
	pragmaErr  map[string]error

	reads map[string]int
}

type fakeTable struct {
	columns []store.Column
	rows    []store.Row
}

// NewFakeContainer creates an empty fake container.
func NewFakeContainer() *FakeContainer {
	return &FakeContainer{
		tables:     make(map[string]fakeTable),
		pragmas:    make(map[string][]store.Row),
		columnsErr: make(map[string]error),
		rowsErr:    make(map[string]error),
		rowsAfter:  make(map[string]int),
		iterErr:    make(map[string]error),
		pragmaErr:  make(map[string]error),
		reads:      make(map[string]int),
	}
}

// Col builds a column description.
func Col(name, declaredType string, notNull bool) store.Column {
	return store.Column{Name: name, DeclaredType: declaredType, NotNull: notNull}
}

// AddTable defines a table with its columns and rows. Row ids are assigned
// from 1 in the given order.
func (f *FakeContainer) AddTable(name string, columns []store.Column, rows ...map[string]any) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := fakeTable{columns: columns}
	for i, values := range rows {
		t.rows = append(t.rows, store.Row{ID: int64(i + 1), Values: values})
	}
	f.tables[name] = t
	return f
}

// SetPragma defines the result rows of a pragma.
func (f *FakeContainer) SetPragma(name string, rows ...map[string]any) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]store.Row, len(rows))
	for i, values := range rows {
		out[i] = store.Row{ID: int64(i + 1), Values: values}
	}
	f.pragmas[name] = out
	return f
}

// FailColumns makes Columns(table) return err.
func (f *FakeContainer) FailColumns(table string, err error) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.columnsErr[table] = err
	return f
}

// FailRows makes Rows(table) return err.
func (f *FakeContainer) FailRows(table string, err error) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsErr[table] = err
	return f
}

// FailRowsAfter makes the iterator over table fail with err after n rows.
func (f *FakeContainer) FailRowsAfter(table string, n int, err error) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsAfter[table] = n
	f.iterErr[table] = err
	return f
}

// FailTables makes Tables return err.
func (f *FakeContainer) FailTables(err error) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tablesErr = err
	return f
}

// FailPragma makes Pragma(name) return err.
func (f *FakeContainer) FailPragma(name string, err error) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pragmaErr[name] = err
	return f
}

// Reads returns how many times Rows was called for table.
func (f *FakeContainer) Reads(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[table]
}

// Columns returns the declared columns of table.
func (f *FakeContainer) Columns(ctx context.Context, table string) ([]store.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.columnsErr[table]; err != nil {
		return nil, err
	}
	t, ok := f.tables[table]
	if !ok || len(t.columns) == 0 {
		return nil, fmt.Errorf("%s: %w", table, store.ErrTableNotFound)
	}
	return append([]store.Column(nil), t.columns...), nil
}

// Rows returns an iterator over the rows of table.
func (f *FakeContainer) Rows(ctx context.Context, table string) (store.RowIterator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads[table]++
	if err := f.rowsErr[table]; err != nil {
		return nil, err
	}
	t, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("%s: %w", table, store.ErrTableNotFound)
	}

	it := &sliceIterator{rows: t.rows, failAt: -1}
	if n, ok := f.rowsAfter[table]; ok {
		it.failAt = n
		it.failErr = f.iterErr[table]
	}
	return it, nil
}

// Tables returns the names of all tables, sorted.
func (f *FakeContainer) Tables(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	names := make([]string, 0, len(f.tables))
	for n := range f.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Pragma returns the rows defined with SetPragma.
func (f *FakeContainer) Pragma(ctx context.Context, name string) ([]store.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.pragmaErr[name]; err != nil {
		return nil, err
	}
	rows, ok := f.pragmas[name]
	if !ok {
		return []store.Row{}, nil
	}
	return append([]store.Row(nil), rows...), nil
}

type sliceIterator struct {
	rows    []store.Row
	pos     int
	failAt  int
	failErr error
	err     error
	current store.Row
}

func (it *sliceIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.failAt >= 0 && it.pos == it.failAt {
		it.err = it.failErr
		return false
	}
	if it.pos >= len(it.rows) {
		return false
	}
	it.current = it.rows[it.pos]
	it.pos++
	return true
}

func (it *sliceIterator) Row() store.Row { return it.current }

func (it *sliceIterator) Err() error { return it.err }

func (it *sliceIterator) Close() error { return nil }
