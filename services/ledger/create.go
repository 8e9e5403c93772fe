package ledger

import (
	"context"
	"strings"
	"time"

	"parcel-logistics/apierr"
	"parcel-logistics/models/office"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/tag"
	"parcel-logistics/models/transaction"
	"parcel-logistics/models/user"
	"parcel-logistics/services/actor"
	"parcel-logistics/services/cache"
	"parcel-logistics/services/notification"
	"parcel-logistics/services/parcel_event"
	"parcel-logistics/services/status_policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateParcelInput struct {
	AgencyID      uuid.UUID
	OfficeID      uuid.UUID
	CreatedBy     uuid.UUID
	CustomerID    uuid.UUID
	DestinationID uuid.UUID
	TagID         *uuid.UUID

	Weight          decimal.Decimal
	TransportMethod parcel.TransportMethod
	Status          parcel.Status
	EstimateArrival string
	Description     string
	MixedPackage    bool

	WhatsappNotif    bool
	NotificationCost decimal.NullDecimal

	PricePerKilo      decimal.Decimal
	ActualCarrierCost decimal.Decimal
	PaymentStatus     transaction.PaymentStatus
	PartialAmount     decimal.NullDecimal

	Pictures   []string
	ManualDate *time.Time
}

func (in CreateParcelInput) validate() error {
	if err := validateStatuses(in.Status, in.PaymentStatus); err != nil {
		return err
	}
	if !in.TransportMethod.IsValid() {
		return apierr.Validation("Invalid transport method %q", in.TransportMethod)
	}
	if !in.Weight.IsPositive() {
		return apierr.Validation("Weight must be greater than 0")
	}
	if in.PricePerKilo.IsNegative() || in.ActualCarrierCost.IsNegative() {
		return apierr.Validation("Prices must not be negative")
	}
	if err := checkScale("Weight", in.Weight, WeightScale); err != nil {
		return err
	}
	if err := checkScale("Price per kilo", in.PricePerKilo, MoneyScale); err != nil {
		return err
	}
	if err := checkScale("Actual carrier cost", in.ActualCarrierCost, MoneyScale); err != nil {
		return err
	}
	if in.NotificationCost.Valid {
		if err := checkScale("Notification cost", in.NotificationCost.Decimal, MoneyScale); err != nil {
			return err
		}
	}
	return nil
}

type CreatedParcel struct {
	Parcel      *parcel.Parcel           `json:"parcel"`
	Transaction *transaction.Transaction `json:"transaction"`
}

// CreateParcel persists a parcel, its transaction and the first entry of both history streams as one unit.
// Every precondition is checked before the first write, so a rejected request leaves no trace.
func (l *Ledger) CreateParcel(ctx context.Context, in CreateParcelInput) (*CreatedParcel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		result   CreatedParcel
		customer *user.User
		author   *actor.Actor
	)
	err := l.inTx(ctx, "CreateParcel", func(tx *gorm.DB) error {
		ag, err := l.findAgency(ctx, tx, in.AgencyID, "Agency not found")
		if err != nil {
			return err
		}
		if _, err := l.findOffice(ctx, tx, in.AgencyID, in.OfficeID, "Office not found"); err != nil {
			return err
		}

		author, err = l.Resolver.Resolve(ctx, tx, in.CreatedBy,
			actor.Scope{AgencyID: in.AgencyID, OfficeID: in.OfficeID},
			"Created By ID is Invalid", role.Staff()...)
		if err != nil {
			return err
		}

		var c user.User
		if err := tx.WithContext(ctx).Where("id = ? AND agency_id = ?", in.CustomerID, in.AgencyID).Take(&c).Error; err != nil {
			return notFoundOr(err, "Customer Not Found")
		}
		customer = &c

		var destination office.Office
		if err := tx.WithContext(ctx).Where("id = ? AND agency_id = ?", in.DestinationID, in.AgencyID).Take(&destination).Error; err != nil {
			return notFoundOr(err, "Destination office not found")
		}

		tagID, err := l.checkTag(ctx, tx, in)
		if err != nil {
			return err
		}

		pricing := ComputePricing(in.Weight, in.PricePerKilo, in.WhatsappNotif, in.NotificationCost, in.ActualCarrierCost)
		if err := CheckPartialAmount(in.PaymentStatus, in.PartialAmount, pricing.TotalPrice); err != nil {
			return err
		}
		if err := status_policy.Validate(in.Status, in.PaymentStatus); err != nil {
			return err
		}

		country := strings.ToUpper(strings.TrimSpace(destination.Address.Country))
		trackingID, err := l.Allocator.Allocate(ctx, tx, ag.CompanyCode, country)
		if err != nil {
			return apierr.Internal("Failed to allocate tracking id", err)
		}

		pictures := make(parcel.Pictures, 0, len(in.Pictures))
		pictures = append(pictures, in.Pictures...)

		p := parcel.Parcel{
			TrackingID:       trackingID,
			AgencyID:         in.AgencyID,
			OfficeID:         in.OfficeID,
			CustomerID:       in.CustomerID,
			DepartureID:      in.OfficeID,
			DestinationID:    in.DestinationID,
			TagID:            tagID,
			Weight:           in.Weight,
			TransportMethod:  in.TransportMethod,
			Status:           in.Status,
			EstimateArrival:  in.EstimateArrival,
			Description:      in.Description,
			MixedPackage:     in.MixedPackage,
			WhatsappNotif:    in.WhatsappNotif,
			NotificationCost: in.NotificationCost,
			PackagePicture:   pictures,
			CreatedBy:        author.ID,
			CreatedByType:    author.Role,
		}
		if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
			return apierr.Internal("Failed to create parcel", err)
		}

		trx := transaction.Transaction{
			ParcelID:          p.ID,
			AgencyID:          in.AgencyID,
			OfficeID:          in.OfficeID,
			PricePerKilo:      in.PricePerKilo,
			TotalPrice:        pricing.TotalPrice,
			ActualCarrierCost: in.ActualCarrierCost,
			GrossProfit:       pricing.GrossProfit,
			PaymentStatus:     in.PaymentStatus,
			PartialAmount:     storedPartialAmount(in.PaymentStatus, in.PartialAmount),
			UpdatedBy:         author.ID,
			UpdatedByType:     author.Role,
		}
		if err := tx.WithContext(ctx).Create(&trx).Error; err != nil {
			return apierr.Internal("Failed to create transaction", err)
		}

		if err := l.recordPair(ctx, tx, &p, &trx, in.ManualDate, author); err != nil {
			return err
		}

		result = CreatedParcel{Parcel: &p, Transaction: &trx}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx := sideEffects{
		targets: cache.ParcelListTargets(in.AgencyID.String(), in.OfficeID.String()),
		events: []publishedEvent{{
			key:   result.Parcel.TrackingID,
			event: parcel_event.ParcelCreated(result.Parcel, result.Transaction.PaymentStatus, author.ID, author.Role),
		}},
	}
	if result.Parcel.InTag() {
		fx.targets = append(fx.targets, cache.TagTargets(in.AgencyID.String(), in.OfficeID.String(), result.Parcel.TagID.String())...)
	}
	if job, ok := notification.ParcelStatusJob(result.Parcel, customer, statusMessage(result.Parcel.Status)); ok {
		fx.jobs = append(fx.jobs, job)
	}
	l.afterCommit(ctx, fx)

	l.Log.Info("parcel created", "tracking_id", result.Parcel.TrackingID, "agency_id", in.AgencyID, "created_by", author.ID)
	return &result, nil
}

// checkTag resolves the optional tag of a new parcel and runs the group consistency check.
func (l *Ledger) checkTag(ctx context.Context, tx *gorm.DB, in CreateParcelInput) (*uuid.UUID, error) {
	if in.TagID == nil || *in.TagID == uuid.Nil {
		return nil, nil
	}
	var t tag.Tag
	if err := tx.WithContext(ctx).
		Where("id = ? AND agency_id = ? AND office_id = ?", *in.TagID, in.AgencyID, in.OfficeID).
		Take(&t).Error; err != nil {
		return nil, notFoundOr(err, "Invalid Tag ID")
	}
	if err := l.Guard.CheckMembership(ctx, tx, &t, in.Status, in.PaymentStatus); err != nil {
		return nil, err
	}
	id := t.ID
	return &id, nil
}
