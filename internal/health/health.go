// Package health probes the query engine and the corpus bucket and
// folds every failure into a structured report. Probe never returns an
// error; unreachable dependencies degrade the overall status instead.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/lenzenc/convo/internal/query"
	"github.com/lenzenc/convo/internal/storage"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type Component struct {
	Status           Status `json:"status"`
	Message          string `json:"message,omitempty"`
	BucketAccessible *bool  `json:"bucket_accessible,omitempty"`
}

type Components struct {
	Engine Component `json:"engine"`
	Store  Component `json:"store"`
}

type Report struct {
	Overall    Status     `json:"overall"`
	Components Components `json:"components"`
	Timestamp  time.Time  `json:"timestamp"`
}

// EngineSession is the scoped engine handle a probe acquires and
// releases on every exit path.
type EngineSession interface {
	query.Session
	Close() error
}

// SessionFactory opens a fresh engine session for one probe.
type SessionFactory func() (EngineSession, error)

type Lister interface {
	List(ctx context.Context, prefix string, max int) ([]storage.ObjectInfo, error)
}

type Prober struct {
	sessions SessionFactory
	store    Lister
	prefix   string

	now func() time.Time
}

func NewProber(sessions SessionFactory, store Lister, prefix string) *Prober {
	return &Prober{sessions: sessions, store: store, prefix: prefix, now: time.Now}
}

// Probe checks both dependencies. Overall is healthy iff both are,
// degraded if exactly one is, unhealthy otherwise.
func (p *Prober) Probe(ctx context.Context) Report {
	engine := p.probeEngine(ctx)
	store := p.probeStore(ctx)

	overall := StatusUnhealthy
	switch {
	case engine.Status == StatusHealthy && store.Status == StatusHealthy:
		overall = StatusHealthy
	case engine.Status == StatusHealthy || store.Status == StatusHealthy:
		overall = StatusDegraded
	}

	return Report{
		Overall:    overall,
		Components: Components{Engine: engine, Store: store},
		Timestamp:  p.now().UTC(),
	}
}

func (p *Prober) probeEngine(ctx context.Context) Component {
	session, err := p.sessions()
	if err != nil {
		return Component{Status: StatusUnhealthy, Message: fmt.Sprintf("open session: %v", err)}
	}
	defer func() { _ = session.Close() }()

	rows, err := session.Execute(ctx, "SELECT 1")
	if err != nil {
		return Component{Status: StatusUnhealthy, Message: fmt.Sprintf("probe query: %v", err)}
	}
	if len(rows.Values) != 1 || len(rows.Values[0]) != 1 || !isOne(rows.Values[0][0]) {
		return Component{Status: StatusUnhealthy, Message: "probe query returned unexpected result"}
	}
	return Component{Status: StatusHealthy}
}

func (p *Prober) probeStore(ctx context.Context) Component {
	accessible := false
	if _, err := p.store.List(ctx, p.prefix, 1); err != nil {
		return Component{
			Status:           StatusUnhealthy,
			Message:          err.Error(),
			BucketAccessible: &accessible,
		}
	}
	accessible = true
	return Component{Status: StatusHealthy, BucketAccessible: &accessible}
}

func isOne(value any) bool {
	switch v := value.(type) {
	case int:
		return v == 1
	case int8:
		return v == 1
	case int16:
		return v == 1
	case int32:
		return v == 1
	case int64:
		return v == 1
	case uint8:
		return v == 1
	case uint16:
		return v == 1
	case uint32:
		return v == 1
	case uint64:
		return v == 1
	default:
		return false
	}
}
