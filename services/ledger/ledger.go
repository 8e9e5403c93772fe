package ledger

import (
	"context"
	"errors"
	"time"

	"parcel-logistics/apierr"
	"parcel-logistics/logger"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/office"
	"parcel-logistics/services/actor"
	"parcel-logistics/services/cache"
	"parcel-logistics/services/notification"
	"parcel-logistics/services/parcel_event"
	"parcel-logistics/services/tracking_history"
	"parcel-logistics/services/tracking_id"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CodeAllocator reserves tracking codes inside the caller's transaction.
type CodeAllocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, agencyCode, destinationCountry string) (string, error)
}

// Ledger owns every write to parcels, transactions and their history.
type Ledger struct {
	DB          *gorm.DB
	Recorder    *tracking_history.Recorder
	Allocator   CodeAllocator
	Resolver    *actor.Resolver
	Invalidator cache.Invalidator
	Events      parcel_event.Publisher
	Notifier    notification.Queue
	Log         *logger.Logger
	Guard       *TagGuard

	sideEffectTimeout time.Duration
}

type Options struct {
	DB          *gorm.DB
	Allocator   CodeAllocator
	Invalidator cache.Invalidator
	Events      parcel_event.Publisher
	Notifier    notification.Queue
	Log         *logger.Logger
	// TimeZone decides the calendar day of tracking codes when Allocator is nil.
	TimeZone *time.Location
}

// New wires a Ledger. Collaborators left nil fall back to no-op implementations.
func New(opts Options) *Ledger {
	l := &Ledger{
		DB:                opts.DB,
		Recorder:          tracking_history.NewRecorder(opts.DB),
		Allocator:         opts.Allocator,
		Resolver:          actor.NewResolver(),
		Invalidator:       opts.Invalidator,
		Events:            opts.Events,
		Notifier:          opts.Notifier,
		Log:               opts.Log,
		sideEffectTimeout: 5 * time.Second,
	}
	if l.Allocator == nil {
		l.Allocator = tracking_id.NewCounterAllocator(opts.TimeZone)
	}
	if l.Invalidator == nil {
		l.Invalidator = cache.Noop{}
	}
	if l.Events == nil {
		l.Events = parcel_event.Noop{}
	}
	if l.Notifier == nil {
		l.Notifier = notification.Noop{}
	}
	if l.Log == nil {
		l.Log = logger.Nop()
	}
	l.Log = l.Log.With("service", "ParcelLedger")
	l.Guard = &TagGuard{ledger: l}
	return l
}

// inTx runs fn in one database transaction. Classified errors pass through untouched,
// anything else is logged and reported as Internal.
func (l *Ledger) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := l.DB.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var classified *apierr.Error
	if errors.As(err, &classified) {
		if classified.Kind == apierr.KindInternal {
			l.Log.Error("operation failed", "op", op, "error", err)
		}
		return classified
	}
	l.Log.Error("operation failed", "op", op, "error", err)
	return apierr.Internal("Something went wrong", err)
}

func (l *Ledger) findAgency(ctx context.Context, tx *gorm.DB, id uuid.UUID, notFoundMsg string) (*agency.Agency, error) {
	var a agency.Agency
	if err := tx.WithContext(ctx).Where("id = ?", id).Take(&a).Error; err != nil {
		return nil, notFoundOr(err, notFoundMsg)
	}
	return &a, nil
}

// findOffice only matches offices owned by agencyID.
func (l *Ledger) findOffice(ctx context.Context, tx *gorm.DB, agencyID, officeID uuid.UUID, notFoundMsg string) (*office.Office, error) {
	var o office.Office
	if err := tx.WithContext(ctx).Where("id = ? AND agency_id = ?", officeID, agencyID).Take(&o).Error; err != nil {
		return nil, notFoundOr(err, notFoundMsg)
	}
	return &o, nil
}

func notFoundOr(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound("%s", notFoundMsg)
	}
	return apierr.Internal("Something went wrong", err)
}

// sideEffects are run after commit. None of them can fail the operation.
type sideEffects struct {
	targets []cache.Target
	events  []publishedEvent
	jobs    []notification.Job
}

type publishedEvent struct {
	key   string
	event parcel_event.Event
}

func (l *Ledger) afterCommit(ctx context.Context, fx sideEffects) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.sideEffectTimeout)
	defer cancel()

	cache.InvalidateAll(ctx, l.Invalidator, l.Log, fx.targets...)

	for _, ev := range fx.events {
		if err := l.Events.Publish(ctx, ev.key, ev.event); err != nil {
			l.Log.Warn("failed to publish parcel event", "type", ev.event.Type, "tracking_id", ev.key, "error", err)
		}
	}
	for _, job := range fx.jobs {
		if err := l.Notifier.Enqueue(ctx, job); err != nil {
			l.Log.Warn("failed to enqueue notification", "tracking_id", job.TrackingID, "error", err)
		}
	}
}
