package report

import (
	"context"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/apex/log"

	"pipetrack/models"
)

// FetchFunc retrieves the current full report list from the backend. The
// tracking view plugs in Client.ListReports, the history view a closure over
// Client.UserReports.
type FetchFunc func(ctx context.Context) ([]models.Report, error)

// Mutator covers the soft-state round-trips the cache reacts to.
type Mutator interface {
	ArchiveReport(ctx context.Context, reportID string) error
	DeleteReport(ctx context.Context, ticketNo string) error
}

// Cache is the polling cache behind a report list screen. Each poll replaces
// the whole derived list (ownership filter plus the view's status subset);
// a structurally equal result is dropped without touching state so the UI
// does not churn. A failed poll is logged and swallowed, leaving the last
// good list in place: stale-but-present beats empty.
type Cache struct {
	fetch    FetchFunc
	view     View
	interval time.Duration

	mu      sync.Mutex
	userID  string
	reports []models.Report
	version uint64
	stopped bool
}

func NewCache(fetch FetchFunc, userID string, view View, interval time.Duration) *Cache {
	return &Cache{
		fetch:    fetch,
		view:     view,
		interval: interval,
		userID:   userID,
	}
}

// Run polls until the context is cancelled or Stop is called, starting with
// an immediate refresh. Poll failures never propagate out of the loop.
func (c *Cache) Run(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		log.Errorf("Initial report fetch failed: %v", err)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.isStopped() {
				return
			}
			if err := c.Refresh(ctx); err != nil {
				log.Errorf("Report poll failed, keeping cached list: %v", err)
			}
		}
	}
}

// Refresh performs one poll. Overlapping refreshes are serialized at the
// state update; whichever response lands last wins, which matches the
// full-replace model.
func (c *Cache) Refresh(ctx context.Context) error {
	fetched, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		// The view navigated away while the request was in flight.
		return nil
	}

	filtered := make([]models.Report, 0, len(fetched))
	for _, r := range fetched {
		if !sameUser(r.UserID.String(), c.userID) {
			continue
		}
		if !VisibleIn(c.view, r) {
			continue
		}
		filtered = append(filtered, r)
	}

	if reflect.DeepEqual(filtered, c.reports) {
		return nil
	}
	c.reports = filtered
	c.version++
	return nil
}

// Reports returns a copy of the cached derived list.
func (c *Cache) Reports() []models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Filtered applies the transient UI filters (search text, date) on top of
// the cached list without mutating it.
func (c *Cache) Filtered(search, day string) []models.Report {
	all := c.Reports()
	out := all[:0]
	for _, r := range all {
		if MatchesSearch(r, search) && MatchesDate(r, day) {
			out = append(out, r)
		}
	}
	return out
}

// Version increments only when a poll actually changed the derived list.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// SetUser switches the session user; the cached list is rebuilt on the next
// refresh.
func (c *Cache) SetUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
}

// Stop makes any in-flight or future state update a no-op.
func (c *Cache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

func (c *Cache) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Delete runs the full tracking-view delete flow: client-side policy gate
// first, then the backend round-trip, and only after confirmed success is
// the entry dropped locally. On any failure the report stays in the list.
func (c *Cache) Delete(ctx context.Context, m Mutator, r models.Report) error {
	if err := CanDelete(r); err != nil {
		return err
	}
	if err := m.DeleteReport(ctx, r.TicketNo); err != nil {
		return err
	}
	c.remove(func(x models.Report) bool { return x.TicketNo == r.TicketNo })
	return nil
}

// Archive is the history-view counterpart, keyed by report_id.
func (c *Cache) Archive(ctx context.Context, m Mutator, r models.Report) error {
	if err := CanArchive(r); err != nil {
		return err
	}
	if err := m.ArchiveReport(ctx, r.ReportID.String()); err != nil {
		return err
	}
	c.remove(func(x models.Report) bool { return x.ReportID == r.ReportID })
	return nil
}

func (c *Cache) remove(match func(models.Report) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.reports[:0]
	removed := false
	for _, r := range c.reports {
		if match(r) {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if removed {
		c.reports = kept
		c.version++
	}
}

// sameUser compares user identifiers numerically when both sides parse as
// integers ("9" vs 9 on the wire), falling back to string equality.
func sameUser(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na == nb
	}
	return a == b
}
