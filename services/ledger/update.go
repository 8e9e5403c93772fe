package ledger

import (
	"context"
	"time"

	"parcel-logistics/apierr"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/transaction"
	"parcel-logistics/models/user"
	"parcel-logistics/services/actor"
	"parcel-logistics/services/cache"
	"parcel-logistics/services/notification"
	"parcel-logistics/services/parcel_event"
	"parcel-logistics/services/status_policy"
	"parcel-logistics/services/tracking_history"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UpdateStatusInput struct {
	AgencyID      uuid.UUID
	OfficeID      uuid.UUID
	ParcelID      uuid.UUID
	UpdatedBy     uuid.UUID
	Status        parcel.Status
	PaymentStatus transaction.PaymentStatus
	PartialAmount decimal.NullDecimal
	// Pictures are appended to the parcel's existing images.
	Pictures   []string
	ManualDate *time.Time
}

// UpdatedParcel is one parcel after a status change.
type UpdatedParcel struct {
	Parcel      *parcel.Parcel           `json:"parcel"`
	Transaction *transaction.Transaction `json:"transaction"`
}

func validateStatuses(status parcel.Status, paymentStatus transaction.PaymentStatus) error {
	if !status.IsValid() {
		return apierr.Validation("Invalid parcel status %q", status)
	}
	if !paymentStatus.IsValid() {
		return apierr.Validation("Invalid payment status %q", paymentStatus)
	}
	return nil
}

// UpdateSingleParcelStatus changes the status and payment status of one ungrouped parcel.
func (l *Ledger) UpdateSingleParcelStatus(ctx context.Context, in UpdateStatusInput) (*UpdatedParcel, error) {
	if err := validateStatuses(in.Status, in.PaymentStatus); err != nil {
		return nil, err
	}

	var (
		result UpdatedParcel
		fx     sideEffects
	)
	err := l.inTx(ctx, "UpdateSingleParcelStatus", func(tx *gorm.DB) error {
		if _, err := l.findAgency(ctx, tx, in.AgencyID, "Agency Not Found"); err != nil {
			return err
		}
		if _, err := l.findOffice(ctx, tx, in.AgencyID, in.OfficeID, "Office Not Found"); err != nil {
			return err
		}

		var p parcel.Parcel
		if err := tx.WithContext(ctx).
			Where("id = ? AND agency_id = ? AND office_id = ?", in.ParcelID, in.AgencyID, in.OfficeID).
			Take(&p).Error; err != nil {
			return notFoundOr(err, "Parcel Not Found")
		}
		if p.InTag() {
			return apierr.Conflict("Tag Parcels Cannot Be Updated Individually. Use the bulk tag update instead.")
		}

		var trx transaction.Transaction
		if err := tx.WithContext(ctx).Where("parcel_id = ?", p.ID).Take(&trx).Error; err != nil {
			return notFoundOr(err, "Transaction not found for this parcel")
		}

		author, err := l.Resolver.Resolve(ctx, tx, in.UpdatedBy,
			actor.Scope{AgencyID: in.AgencyID, OfficeID: in.OfficeID},
			"Updated By ID is Invalid", role.Staff()...)
		if err != nil {
			return err
		}

		if err := CheckPartialAmount(in.PaymentStatus, in.PartialAmount, trx.TotalPrice); err != nil {
			return err
		}
		if err := status_policy.Validate(in.Status, in.PaymentStatus); err != nil {
			return err
		}

		change := statusChange{
			Status:        in.Status,
			PaymentStatus: in.PaymentStatus,
			PartialAmount: in.PartialAmount,
			Pictures:      in.Pictures,
			ManualDate:    in.ManualDate,
			Author:        author,
		}
		if err := l.applyStatus(ctx, tx, &p, &trx, change); err != nil {
			return err
		}

		result = UpdatedParcel{Parcel: &p, Transaction: &trx}
		fx = l.statusSideEffects(ctx, tx, []UpdatedParcel{result}, author)
		fx.targets = append(cache.ParcelListTargets(in.AgencyID.String(), in.OfficeID.String()), fx.targets...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, fx)
	l.Log.Info("parcel status updated", "tracking_id", result.Parcel.TrackingID, "status", in.Status, "payment_status", in.PaymentStatus)
	return &result, nil
}

type statusChange struct {
	Status        parcel.Status
	PaymentStatus transaction.PaymentStatus
	PartialAmount decimal.NullDecimal
	Pictures      []string
	ManualDate    *time.Time
	Author        *actor.Actor
}

// applyStatus writes a status change to one parcel and its transaction and appends one entry to
// each history stream. p and trx are updated in place.
func (l *Ledger) applyStatus(ctx context.Context, tx *gorm.DB, p *parcel.Parcel, trx *transaction.Transaction, c statusChange) error {
	pictures := make(parcel.Pictures, 0, len(p.PackagePicture)+len(c.Pictures))
	pictures = append(pictures, p.PackagePicture...)
	pictures = append(pictures, c.Pictures...)

	if err := tx.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"status":          c.Status,
		"package_picture": pictures,
	}).Error; err != nil {
		return apierr.Internal("Failed to update parcel", err)
	}
	p.Status = c.Status
	p.PackagePicture = pictures

	partial := storedPartialAmount(c.PaymentStatus, c.PartialAmount)
	if err := tx.WithContext(ctx).Model(trx).Updates(map[string]interface{}{
		"payment_status":  c.PaymentStatus,
		"partial_amount":  partial,
		"updated_by":      c.Author.ID,
		"updated_by_type": c.Author.Role,
	}).Error; err != nil {
		return apierr.Internal("Failed to update transaction", err)
	}
	trx.PaymentStatus = c.PaymentStatus
	trx.PartialAmount = partial
	trx.UpdatedBy = c.Author.ID
	trx.UpdatedByType = c.Author.Role

	return l.recordPair(ctx, tx, p, trx, c.ManualDate, c.Author)
}

func (l *Ledger) recordPair(ctx context.Context, tx *gorm.DB, p *parcel.Parcel, trx *transaction.Transaction, manualDate *time.Time, author *actor.Actor) error {
	by := tracking_history.Author{ID: author.ID, Role: author.Role}
	if _, err := l.Recorder.RecordParcel(ctx, tx, tracking_history.ParcelEntry{
		ParcelID:   p.ID,
		TrackingID: p.TrackingID,
		Status:     p.Status,
		ManualDate: manualDate,
		Author:     by,
	}); err != nil {
		return apierr.Internal("Failed to record parcel tracking", err)
	}
	if _, err := l.Recorder.RecordTransaction(ctx, tx, tracking_history.TransactionEntry{
		TransactionID: trx.ID,
		Status:        trx.PaymentStatus,
		ManualDate:    manualDate,
		Author:        by,
	}); err != nil {
		return apierr.Internal("Failed to record transaction tracking", err)
	}
	return nil
}

// statusSideEffects collects the per-parcel cache targets, events and customer messages of a status
// change. Customers are read inside tx; a missing customer only skips the message.
func (l *Ledger) statusSideEffects(ctx context.Context, tx *gorm.DB, updated []UpdatedParcel, author *actor.Actor) sideEffects {
	var fx sideEffects
	customers := map[uuid.UUID]*user.User{}

	for _, u := range updated {
		p := u.Parcel
		fx.targets = append(fx.targets, cache.ParcelTargets(p.ID.String(), p.TrackingID)...)
		fx.events = append(fx.events, publishedEvent{
			key:   p.TrackingID,
			event: parcel_event.ParcelStatusChanged(p, u.Transaction.PaymentStatus, author.ID, author.Role),
		})

		if !p.WhatsappNotif {
			continue
		}
		customer, ok := customers[p.CustomerID]
		if !ok {
			var c user.User
			if err := tx.WithContext(ctx).Where("id = ?", p.CustomerID).Take(&c).Error; err == nil {
				customer = &c
			}
			customers[p.CustomerID] = customer
		}
		if job, ok := notification.ParcelStatusJob(p, customer, statusMessage(p.Status)); ok {
			fx.jobs = append(fx.jobs, job)
		}
	}
	return fx
}

func statusMessage(status parcel.Status) string {
	if msg := tracking_history.ParcelStatusMessage(status); msg != nil {
		return *msg
	}
	return string(status)
}
