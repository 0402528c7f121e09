// internal/analytics/view.go
package analytics

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

// ReportView holds the report currently on screen. Rapid filter changes race
// their requests; each refresh takes a monotonically increasing epoch and a
// response is applied only while its epoch is still the latest, so a stale
// in-flight result can never overwrite a newer one.
type ReportView struct {
	epoch   atomic.Uint64
	mu      sync.RWMutex
	current *Report
}

func NewReportView() *ReportView {
	return &ReportView{}
}

// Begin registers a new refresh and returns its epoch.
func (v *ReportView) Begin() uint64 {
	return v.epoch.Add(1)
}

// Apply installs report if epoch is still current. It reports whether the
// result was applied; stale results are discarded.
func (v *ReportView) Apply(epoch uint64, report *Report) bool {
	if epoch != v.epoch.Load() {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	// Re-check under the lock; a newer Apply may have won the race.
	if epoch != v.epoch.Load() {
		return false
	}
	v.current = report
	return true
}

// Current returns the report last applied, or nil before the first refresh.
func (v *ReportView) Current() *Report {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Refresh builds a report for filter through agg and applies it under a fresh
// epoch. It returns the report and whether it was installed.
func (v *ReportView) Refresh(ctx context.Context, agg *Aggregator, filter domain.SearchFilter) (*Report, bool) {
	epoch := v.Begin()
	report := agg.BuildReport(ctx, filter)
	return report, v.Apply(epoch, report)
}
