package rental

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoTable = errors.New("no table")

type fakeSource struct {
	mu   sync.Mutex
	data string
	err  error
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Fetch(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.data), nil
}

func (s *fakeSource) set(data string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data, s.err = data, err
}

type fakeStore struct {
	current *Table
	history []LoadInfo
}

func (s *fakeStore) Save(t *Table) {
	s.current = t
	s.history = append(s.history, t.Info())
}

func (s *fakeStore) Current() (*Table, error) {
	if s.current == nil {
		return nil, errNoTable
	}
	return s.current, nil
}

func (s *fakeStore) History() []LoadInfo { return s.history }

const serviceCSV = header +
	"2011-01-01,2011,spring,clear,weekend,saturday,0.10,0.80,300,700,1000\n" +
	"2011-04-04,2011,summer,clear,weekday,monday,0.55,0.40,500,3500,4000\n" +
	"2011-07-10,2011,fall,mist,weekend,sunday,0.75,0.30,1500,4500,6000\n"

func TestServiceLoad(t *testing.T) {
	src := &fakeSource{data: serviceCSV}
	svc := NewService(&fakeStore{}, src)

	_, err := svc.Table()
	require.ErrorIs(t, err, errNoTable)

	tbl, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, tbl.ID)
	assert.Equal(t, "fake", tbl.Source)
	assert.Len(t, tbl.Fingerprint, 64)
	assert.False(t, tbl.LoadedAt.IsZero())
	assert.Equal(t, 3, tbl.Len())

	current, err := svc.Table()
	require.NoError(t, err)
	assert.Same(t, tbl, current)
	assert.Len(t, svc.History(), 1)
}

func TestServiceLoadErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	svc := NewService(&fakeStore{}, src)

	_, err := svc.Load(context.Background())
	assert.Error(t, err)

	src.set("date,year\n2011-01-01,2011\n", nil)
	_, err = svc.Load(context.Background())
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = svc.Table()
	assert.ErrorIs(t, err, errNoTable)
}

func TestServiceReload(t *testing.T) {
	src := &fakeSource{data: serviceCSV}
	svc := NewService(&fakeStore{}, src)
	ctx := context.Background()

	first, err := svc.Load(ctx)
	require.NoError(t, err)

	changed, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "identical content must not swap the table")
	current, _ := svc.Table()
	assert.Equal(t, first.ID, current.ID)

	src.set(serviceCSV+"2011-10-12,2011,winter,light rain,weekday,wednesday,0.35,0.90,50,950,1000\n", nil)
	changed, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	current, _ = svc.Table()
	assert.NotEqual(t, first.ID, current.ID)
	assert.Equal(t, 4, current.Len())
	assert.Len(t, svc.History(), 2)
}

func TestServiceReloadFailureKeepsTable(t *testing.T) {
	src := &fakeSource{data: serviceCSV}
	svc := NewService(&fakeStore{}, src)
	ctx := context.Background()

	first, err := svc.Load(ctx)
	require.NoError(t, err)

	src.set("", errors.New("unreachable"))
	_, err = svc.Reload(ctx)
	assert.Error(t, err)

	src.set(strings.Replace(serviceCSV, "1000\n", "1001\n", 1), nil)
	_, err = svc.Reload(ctx)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	current, err := svc.Table()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestServiceRender(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeSource{data: serviceCSV})

	_, err := svc.Render(Selection{})
	assert.ErrorIs(t, err, errNoTable)

	tbl, err := svc.Load(context.Background())
	require.NoError(t, err)

	sel := DefaultSelection(tbl)
	sel.DayType = DayTypeOnlyWeekend
	snap, err := svc.Render(sel)
	require.NoError(t, err)

	assert.Equal(t, tbl.ID, snap.TableID)
	assert.Equal(t, 2, snap.View.Len())
	assert.Equal(t, 7000, snap.Summary.TotalRentals)
	assert.Same(t, tbl, snap.Table)
}
