package rental

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/bikeshare-dashboard/internal/log"
	"github.com/i474232898/bikeshare-dashboard/internal/metrics"
)

// Service orchestrates loading the dataset from a source and serving filtered views of it.
type Service struct {
	store  Store
	source Source

	// loadMu serializes loads so a scheduled reload never races a manual one.
	loadMu sync.Mutex
}

// NewService creates a new Service.
func NewService(store Store, source Source) *Service {
	return &Service{
		store:  store,
		source: source,
	}
}

// Load fetches, parses and derives the dataset and makes it current.
func (s *Service) Load(ctx context.Context) (*Table, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.install(data)
}

// Reload re-fetches the dataset and swaps the table only when the content
// changed. On any error the current table keeps being served.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	data, err := s.fetch(ctx)
	if err != nil {
		return false, err
	}

	if current, err := s.store.Current(); err == nil && current.Fingerprint == fingerprint(data) {
		log.Debugf("dataset %s unchanged; keeping table %s", s.source.Name(), current.ID)
		return false, nil
	}

	if _, err := s.install(data); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) fetch(ctx context.Context) ([]byte, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no dataset source configured")
	}

	start := time.Now()
	data, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.RecordLoad(s.source.Name(), time.Since(start), 0, err)
		return nil, fmt.Errorf("fetch dataset from %s: %w", s.source.Name(), err)
	}
	return data, nil
}

// install parses and derives data, then stores the resulting table.
func (s *Service) install(data []byte) (*Table, error) {
	start := time.Now()
	name := s.source.Name()

	t, err := build(data)
	if err != nil {
		metrics.RecordLoad(name, time.Since(start), 0, err)
		return nil, fmt.Errorf("load dataset from %s: %w", name, err)
	}

	t.ID = uuid.NewString()
	t.Source = name
	t.Fingerprint = fingerprint(data)
	t.LoadedAt = time.Now().UTC()

	metrics.RecordLoad(name, time.Since(start), t.Len(), nil)
	warnCollapsed(t.Diagnostics)
	s.store.Save(t)

	log.Infow("dataset loaded",
		"id", t.ID,
		"source", name,
		"rows", t.Len(),
		"period_start", t.Period.Start.Format("2006-01-02"),
		"period_end", t.Period.End.Format("2006-01-02"),
	)
	return t, nil
}

func build(data []byte) (*Table, error) {
	records, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Derive(records)
}

func warnCollapsed(d Diagnostics) {
	for _, b := range []Binning{d.Recency, d.Frequency, d.RentalVolume} {
		if b.Collapsed {
			log.Warnw("quantile binning collapsed",
				"column", b.Column,
				"requested", b.Requested,
				"effective", b.Effective,
				"edges", b.Edges,
			)
		}
	}
}

func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Table returns the current table.
func (s *Service) Table() (*Table, error) {
	return s.store.Current()
}

// History delegates to the underlying store.
func (s *Service) History() []LoadInfo {
	return s.store.History()
}

// Snapshot is the result of applying one selection to the current table.
type Snapshot struct {
	TableID   string    `json:"table_id"`
	Selection Selection `json:"selection"`
	Summary   Summary   `json:"summary"`

	Table *Table `json:"-"`
	View  View   `json:"-"`
}

// Render applies sel to the current table.
func (s *Service) Render(sel Selection) (Snapshot, error) {
	t, err := s.store.Current()
	if err != nil {
		return Snapshot{}, err
	}

	start := time.Now()
	view := sel.Apply(t.View())
	snap := Snapshot{
		TableID:   t.ID,
		Selection: sel,
		Summary:   Summarize(view),
		Table:     t,
		View:      view,
	}
	metrics.RecordRender("selection", time.Since(start), view.Len())
	return snap, nil
}
