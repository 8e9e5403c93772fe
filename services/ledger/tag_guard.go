package ledger

import (
	"context"
	"fmt"
	"time"

	"parcel-logistics/apierr"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/tag"
	"parcel-logistics/models/transaction"
	"parcel-logistics/services/actor"
	"parcel-logistics/services/cache"
	"parcel-logistics/services/status_policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TagGuard keeps every parcel of a tag on the same status and payment status.
type TagGuard struct {
	ledger *Ledger
}

type member struct {
	parcel      parcel.Parcel
	transaction *transaction.Transaction
}

// loadMembers returns the parcels of a tag with their transactions, oldest parcel first.
// A member without a transaction has a nil transaction.
func loadMembers(ctx context.Context, tx *gorm.DB, query *gorm.DB) ([]member, error) {
	var parcels []parcel.Parcel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&parcels).Error; err != nil {
		return nil, err
	}
	if len(parcels) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(parcels))
	for i, p := range parcels {
		ids[i] = p.ID
	}
	var trxs []transaction.Transaction
	if err := tx.WithContext(ctx).Where("parcel_id IN ?", ids).Find(&trxs).Error; err != nil {
		return nil, err
	}
	byParcel := make(map[uuid.UUID]*transaction.Transaction, len(trxs))
	for i := range trxs {
		byParcel[trxs[i].ParcelID] = &trxs[i]
	}

	members := make([]member, len(parcels))
	for i, p := range parcels {
		members[i] = member{parcel: p, transaction: byParcel[p.ID]}
	}
	return members, nil
}

// CheckMembership decides whether a new parcel with status and paymentStatus may join t.
// A group whose members already disagree accepts nobody.
func (g *TagGuard) CheckMembership(ctx context.Context, tx *gorm.DB, t *tag.Tag, status parcel.Status, paymentStatus transaction.PaymentStatus) error {
	members, err := loadMembers(ctx, tx, tx.WithContext(ctx).Where("tag_id = ?", t.ID))
	if err != nil {
		return apierr.Internal("Failed to load tag parcels", err)
	}
	if len(members) == 0 {
		return nil
	}
	for _, m := range members {
		if m.transaction == nil {
			return apierr.NotFound("Transaction not found for parcel %s", m.parcel.TrackingID)
		}
	}

	refStatus := members[0].parcel.Status
	refPayment := members[0].transaction.PaymentStatus

	for _, m := range members[1:] {
		if m.parcel.Status != refStatus {
			return apierr.Conflict("All parcels with tag %s must have the same status. Expected: %s, but found different statuses.", t.TagName, refStatus)
		}
	}
	for _, m := range members[1:] {
		if p := m.transaction.PaymentStatus; p != refPayment {
			return apierr.Conflict("All parcels with tag %s must have the same payment status. Expected: %s, but found: %s", t.TagName, refPayment, p)
		}
	}

	if status != refStatus {
		return apierr.Conflict("Parcel status must match existing parcels with tag %s. Expected: %s, provided: %s", t.TagName, refStatus, status)
	}
	if paymentStatus != refPayment {
		return apierr.Conflict("Payment status must match existing parcels with tag %s. Expected: %s, provided: %s", t.TagName, refPayment, paymentStatus)
	}
	return nil
}

type BulkUpdateInput struct {
	AgencyID      uuid.UUID
	OfficeID      uuid.UUID
	TagID         uuid.UUID
	UpdatedBy     uuid.UUID
	Status        parcel.Status
	PaymentStatus transaction.PaymentStatus
	// PartialAmount is applied unchanged to every member.
	PartialAmount decimal.NullDecimal
	Pictures      []string
	ManualDate    *time.Time
}

type BulkResult struct {
	Count   int             `json:"count"`
	TagName string          `json:"tagName"`
	Parcels []UpdatedParcel `json:"parcels"`
}

func (r BulkResult) Message() string {
	return fmt.Sprintf("Successfully updated %d parcels with tag %s", r.Count, r.TagName)
}

// BulkUpdateStatus moves every parcel of a tag to the same status and payment status.
// All members are validated before the first write and the whole group commits as one unit.
func (g *TagGuard) BulkUpdateStatus(ctx context.Context, in BulkUpdateInput) (*BulkResult, error) {
	l := g.ledger
	if err := validateStatuses(in.Status, in.PaymentStatus); err != nil {
		return nil, err
	}

	var (
		result BulkResult
		fx     sideEffects
	)
	err := l.inTx(ctx, "BulkUpdateStatus", func(tx *gorm.DB) error {
		if _, err := l.findAgency(ctx, tx, in.AgencyID, "Agency Not Found"); err != nil {
			return err
		}
		if _, err := l.findOffice(ctx, tx, in.AgencyID, in.OfficeID, "Office Not Found"); err != nil {
			return err
		}

		var t tag.Tag
		if err := tx.WithContext(ctx).
			Where("id = ? AND agency_id = ? AND office_id = ?", in.TagID, in.AgencyID, in.OfficeID).
			Take(&t).Error; err != nil {
			return notFoundOr(err, "Tag Not Found")
		}

		members, err := loadMembers(ctx, tx, tx.WithContext(ctx).
			Where("tag_id = ? AND agency_id = ? AND office_id = ?", t.ID, in.AgencyID, in.OfficeID))
		if err != nil {
			return apierr.Internal("Failed to load tag parcels", err)
		}
		if len(members) == 0 {
			return apierr.NotFound("No Parcels Found In This Tag")
		}

		author, err := l.Resolver.Resolve(ctx, tx, in.UpdatedBy,
			actor.Scope{AgencyID: in.AgencyID, OfficeID: in.OfficeID},
			"Updated By ID is Invalid", role.Staff()...)
		if err != nil {
			return err
		}

		if err := status_policy.Validate(in.Status, in.PaymentStatus); err != nil {
			return err
		}
		for _, m := range members {
			if m.transaction == nil {
				return apierr.NotFound("Transaction not found for parcel %s", m.parcel.TrackingID)
			}
			if err := checkMemberPartialAmount(in.PaymentStatus, in.PartialAmount, m.transaction.TotalPrice, m.parcel.TrackingID); err != nil {
				return err
			}
		}

		updated := make([]UpdatedParcel, 0, len(members))
		for i := range members {
			m := &members[i]
			change := statusChange{
				Status:        in.Status,
				PaymentStatus: in.PaymentStatus,
				PartialAmount: in.PartialAmount,
				Pictures:      in.Pictures,
				ManualDate:    in.ManualDate,
				Author:        author,
			}
			if err := l.applyStatus(ctx, tx, &m.parcel, m.transaction, change); err != nil {
				return err
			}
			updated = append(updated, UpdatedParcel{Parcel: &m.parcel, Transaction: m.transaction})
		}

		result = BulkResult{Count: len(updated), TagName: t.TagName, Parcels: updated}
		fx = l.statusSideEffects(ctx, tx, updated, author)
		fx.targets = append(cache.ParcelListTargets(in.AgencyID.String(), in.OfficeID.String()), fx.targets...)
		fx.targets = append(fx.targets, cache.TagTargets(in.AgencyID.String(), in.OfficeID.String(), t.ID.String())...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, fx)
	l.Log.Info("tag parcels updated", "tag", result.TagName, "count", result.Count, "status", in.Status, "payment_status", in.PaymentStatus)
	return &result, nil
}
