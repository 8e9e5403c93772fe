package ledger

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"parcel-logistics/apierr"
	"parcel-logistics/database/testutil"
	"parcel-logistics/models/counter"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/tracking"
	"parcel-logistics/models/transaction"
	"parcel-logistics/services/notification"
	"parcel-logistics/services/parcel_event"
	"parcel-logistics/services/tracking_id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingInvalidator struct {
	mu      sync.Mutex
	targets []string
	err     error
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, groupKey, scopeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, groupKey+":"+scopeID)
	return r.err
}

func (r *recordingInvalidator) has(target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.targets {
		if t == target {
			return true
		}
	}
	return false
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []parcel_event.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := value.(parcel_event.Event); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingQueue struct {
	mu   sync.Mutex
	jobs []notification.Job
}

func (q *recordingQueue) Enqueue(ctx context.Context, job notification.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

var testDay = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	ledger *Ledger
	tenant *testutil.Tenant
	inv    *recordingInvalidator
	events *recordingPublisher
	jobs   *recordingQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)

	f := &fixture{
		ctx:    ctx,
		db:     db,
		tenant: testutil.SeedTenant(t, ctx, db),
		inv:    &recordingInvalidator{},
		events: &recordingPublisher{},
		jobs:   &recordingQueue{},
	}
	f.ledger = New(Options{
		DB:          db,
		Allocator:   tracking_id.NewCounterAllocator(time.UTC).WithClock(func() time.Time { return testDay }),
		Invalidator: f.inv,
		Events:      f.events,
		Notifier:    f.jobs,
	})
	return f
}

// createInput is a valid request: 10 kg at 5 per kilo, carrier cost 30.
func (f *fixture) createInput() CreateParcelInput {
	return CreateParcelInput{
		AgencyID:          f.tenant.Agency.ID,
		OfficeID:          f.tenant.Office.ID,
		CreatedBy:         f.tenant.Operator.ID,
		CustomerID:        f.tenant.Customer.ID,
		DestinationID:     f.tenant.Destination.ID,
		Weight:            decimal.NewFromInt(10),
		TransportMethod:   parcel.TransportAir,
		Status:            parcel.StatusReceivedInWarehouse,
		EstimateArrival:   "2 weeks",
		Description:       "two boxes of clothes",
		PricePerKilo:      decimal.NewFromInt(5),
		ActualCarrierCost: decimal.NewFromInt(30),
		PaymentStatus:     transaction.PaymentPending,
		Pictures:          []string{"uploads/parcels/first.jpg"},
	}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

type rowCounts struct {
	parcels, transactions, parcelTrackings, transactionTrackings, counters int64
}

func (f *fixture) rowCounts(t *testing.T) rowCounts {
	t.Helper()
	return rowCounts{
		parcels:              f.count(t, &parcel.Parcel{}),
		transactions:         f.count(t, &transaction.Transaction{}),
		parcelTrackings:      f.count(t, &tracking.ParcelTracking{}),
		transactionTrackings: f.count(t, &tracking.TransactionTracking{}),
		counters:             f.count(t, &counter.Counter{}),
	}
}

func (f *fixture) reloadParcel(t *testing.T, p *parcel.Parcel) (*parcel.Parcel, *transaction.Transaction) {
	t.Helper()
	var got parcel.Parcel
	if err := f.db.Where("id = ?", p.ID).Take(&got).Error; err != nil {
		t.Fatalf("reload parcel: %v", err)
	}
	var trx transaction.Transaction
	if err := f.db.Where("parcel_id = ?", p.ID).Take(&trx).Error; err != nil {
		t.Fatalf("reload transaction: %v", err)
	}
	return &got, &trx
}

func expectKind(t *testing.T, err error, kind apierr.Kind, contains string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !apierr.IsKind(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
	if contains != "" && !strings.Contains(err.Error(), contains) {
		t.Fatalf("error %q does not contain %q", err.Error(), contains)
	}
}

func nullDecimal(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}
