// Package storetest provides an in-memory store.Store for handler tests.
package storetest

import (
	"context"
	"sync"

	"github.com/PratikDhanave/heartbeat-collector/internal/models"
	"github.com/PratikDhanave/heartbeat-collector/internal/store"
)

// Fake keeps rows in memory. Set InsertErr or PingErr to simulate outages.
type Fake struct {
	mu     sync.Mutex
	rows   []models.DiagnosticPing
	nextID int64

	InsertErr error
	PingErr   error
}

var _ store.Store = (*Fake)(nil)

func (f *Fake) InsertPing(_ context.Context, p *models.DiagnosticPing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.nextID++
	p.PingID = f.nextID
	f.rows = append(f.rows, *p)
	return nil
}

func (f *Fake) GetPing(_ context.Context, id int64) (*models.DiagnosticPing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.rows {
		if f.rows[i].PingID == id {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *Fake) CountPings(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

// Rows returns a copy of everything inserted so far.
func (f *Fake) Rows() []models.DiagnosticPing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DiagnosticPing(nil), f.rows...)
}

func (f *Fake) EnsureSchema(context.Context) error { return nil }

func (f *Fake) Ping(context.Context) error { return f.PingErr }

func (f *Fake) Close() error { return nil }
