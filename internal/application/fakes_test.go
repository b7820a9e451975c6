package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
	"linkbridge/pkg/clock"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) record(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Error(f string, v ...interface{}) { l.record("ERROR", f, v...) }
func (l *recordingLogger) Warn(f string, v ...interface{})  { l.record("WARN", f, v...) }
func (l *recordingLogger) Info(f string, v ...interface{})  { l.record("INFO", f, v...) }
func (l *recordingLogger) Debug(f string, v ...interface{}) { l.record("DEBUG", f, v...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if len(line) > len(level) && line[:len(level)+1] == level+" " {
			n++
		}
	}
	return n
}

var errBackend = errors.New("connection refused")

// memLinks is an in-memory identity table with the same conflict policy as
// the SQL store.
type memLinks struct {
	mu      sync.Mutex
	rows    map[int64]*models.IdentityLink
	fail    error
	lookups map[string]int
	writes  int
}

func newMemLinks() *memLinks {
	return &memLinks{
		rows:    make(map[int64]*models.IdentityLink),
		lookups: make(map[string]int),
	}
}

func (m *memLinks) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *memLinks) failure(op string) error {
	if m.fail == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", repository.ErrStoreUnavailable, op, m.fail)
}

func (m *memLinks) FindBySourceID(_ context.Context, sourceID string) (*models.IdentityLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[sourceID]++
	if err := m.failure("find by source"); err != nil {
		return nil, err
	}
	for _, row := range m.rows {
		if row.SourceID != nil && *row.SourceID == sourceID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memLinks) FindByDestID(_ context.Context, destID int64) (*models.IdentityLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("find by dest"); err != nil {
		return nil, err
	}
	row, ok := m.rows[destID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *memLinks) UpsertLink(_ context.Context, sourceID string, destID int64, displayName string) (*models.IdentityLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("upsert"); err != nil {
		return nil, err
	}
	m.writes++
	for id, row := range m.rows {
		if id != destID && row.SourceID != nil && *row.SourceID == sourceID {
			row.SourceID = nil
			row.DisplayName = ""
		}
	}
	src := sourceID
	row := &models.IdentityLink{SourceID: &src, DestID: destID, DisplayName: displayName, UpdatedAt: testEpoch}
	m.rows[destID] = row
	cp := *row
	return &cp, nil
}

func (m *memLinks) ClearBySourceID(_ context.Context, sourceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("clear by source"); err != nil {
		return false, err
	}
	for _, row := range m.rows {
		if row.SourceID != nil && *row.SourceID == sourceID {
			m.writes++
			row.SourceID = nil
			row.DisplayName = ""
			return true, nil
		}
	}
	return false, nil
}

func (m *memLinks) ClearByDestID(_ context.Context, destID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("clear by dest"); err != nil {
		return false, err
	}
	row, ok := m.rows[destID]
	if !ok || row.SourceID == nil {
		return false, nil
	}
	m.writes++
	row.SourceID = nil
	row.DisplayName = ""
	return true, nil
}

func (m *memLinks) List(context.Context) ([]models.IdentityLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("list"); err != nil {
		return nil, err
	}
	out := make([]models.IdentityLink, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DestID < out[j].DestID })
	return out, nil
}

func (m *memLinks) link(sourceID string, destID int64, displayName string) {
	m.UpsertLink(context.Background(), sourceID, destID, displayName)
}

func (m *memLinks) lookupCount(sourceID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups[sourceID]
}

func (m *memLinks) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type sentItem struct {
	Kind    string
	Payload string
	Caption string
}

// fakeDestination records every send. failOn makes the n-th send (1-based)
// fail.
type fakeDestination struct {
	mu     sync.Mutex
	sent   []sentItem
	calls  int
	failOn int
}

func (d *fakeDestination) record(kind, payload, caption string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.failOn > 0 && d.calls == d.failOn {
		return errors.New("Bad Request: wrong file identifier")
	}
	d.sent = append(d.sent, sentItem{Kind: kind, Payload: payload, Caption: caption})
	return nil
}

func (d *fakeDestination) SendText(_ context.Context, text string) error {
	return d.record("text", text, "")
}

func (d *fakeDestination) SendPhoto(_ context.Context, url, caption string) error {
	return d.record("photo", url, caption)
}

func (d *fakeDestination) SendAnimation(_ context.Context, url, caption string) error {
	return d.record("animation", url, caption)
}

func (d *fakeDestination) SendVideo(_ context.Context, url, caption string) error {
	return d.record("video", url, caption)
}

func (d *fakeDestination) SendDocument(_ context.Context, url, caption string) error {
	return d.record("document", url, caption)
}

func (d *fakeDestination) items() []sentItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]sentItem(nil), d.sent...)
}

type fakeResponder struct {
	mu         sync.Mutex
	codes      []models.LinkCode
	notices    []Notice
	deliverErr error
}

func (r *fakeResponder) DeliverCode(_ context.Context, code models.LinkCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deliverErr != nil {
		return r.deliverErr
	}
	r.codes = append(r.codes, code)
	return nil
}

func (r *fakeResponder) Notify(_ context.Context, n Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

func (r *fakeResponder) kinds() []NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]NoticeKind, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Kind
	}
	return out
}

func newTestCodes() (*repository.LinkCodeStore, *clock.FakeClock) {
	c := clock.Fake(testEpoch)
	return repository.NewLinkCodeStore(c, 5*time.Minute), c
}
