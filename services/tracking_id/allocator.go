package tracking_id

import (
	"context"
	"fmt"
	"time"

	"parcel-logistics/models/counter"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Allocator issues per-prefix sequence numbers.
type Allocator interface {
	// Next increments the counter for prefix inside tx and returns the new value.
	Next(ctx context.Context, tx *gorm.DB, prefix string) (int64, error)
}

// CounterAllocator keeps sequences in the counters table. Because the increment joins the
// caller's transaction, a rollback also returns the sequence value.
type CounterAllocator struct {
	clock *now.Config
	nowFn func() time.Time
}

func NewCounterAllocator(loc *time.Location) *CounterAllocator {
	if loc == nil {
		loc = time.UTC
	}
	return &CounterAllocator{
		clock: &now.Config{TimeLocation: loc, WeekStartDay: time.Monday},
		nowFn: time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (a *CounterAllocator) WithClock(fn func() time.Time) *CounterAllocator {
	a.nowFn = fn
	return a
}

func (a *CounterAllocator) Next(ctx context.Context, tx *gorm.DB, prefix string) (int64, error) {
	row := counter.Counter{Prefix: prefix, Seq: 1}
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("counters.seq + 1")}),
	}).Create(&row).Error
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", prefix, err)
	}

	var current counter.Counter
	if err := tx.WithContext(ctx).Where("prefix = ?", prefix).Take(&current).Error; err != nil {
		return 0, fmt.Errorf("read counter %s: %w", prefix, err)
	}
	return current.Seq, nil
}

// Prefix builds <agencyCode>-<country>-<YYMMDD> for the current day in the allocator's zone.
func (a *CounterAllocator) Prefix(agencyCode, destinationCountry string) string {
	// now.Config.TimeLocation only applies to Parse, so the instant is moved into the zone first.
	return Prefix(agencyCode, destinationCountry, a.clock.With(a.nowFn().In(a.clock.TimeLocation)).BeginningOfDay())
}

// Allocate reserves the next tracking code for an agency and destination country.
func (a *CounterAllocator) Allocate(ctx context.Context, tx *gorm.DB, agencyCode, destinationCountry string) (string, error) {
	prefix := a.Prefix(agencyCode, destinationCountry)
	seq, err := a.Next(ctx, tx, prefix)
	if err != nil {
		return "", err
	}
	return Format(prefix, seq), nil
}

func Prefix(agencyCode, destinationCountry string, day time.Time) string {
	return fmt.Sprintf("%s-%s-%s", agencyCode, destinationCountry, day.Format("060102"))
}

// Format appends the zero padded sequence. Sequences above 999 keep all their digits.
func Format(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}
