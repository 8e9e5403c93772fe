package parcel_event

import (
	"time"

	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/transaction"

	"github.com/google/uuid"
)

const (
	TypeParcelCreated       = "parcel.created"
	TypeParcelStatusChanged = "parcel.status_changed"
)

// Event is the payload written to the parcel events topic.
type Event struct {
	ID            uuid.UUID                 `json:"id"`
	Type          string                    `json:"type"`
	ParcelID      uuid.UUID                 `json:"parcelId"`
	TrackingID    string                    `json:"trackingId"`
	AgencyID      uuid.UUID                 `json:"agencyId"`
	OfficeID      uuid.UUID                 `json:"officeId"`
	TagID         *uuid.UUID                `json:"tagId,omitempty"`
	Status        parcel.Status             `json:"status"`
	PaymentStatus transaction.PaymentStatus `json:"paymentStatus"`
	ActorID       uuid.UUID                 `json:"actorId"`
	ActorRole     role.Role                 `json:"actorRole"`
	OccurredAt    time.Time                 `json:"occurredAt"`
}

func newEvent(eventType string, p *parcel.Parcel, paymentStatus transaction.PaymentStatus, actorID uuid.UUID, actorRole role.Role) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		ParcelID:      p.ID,
		TrackingID:    p.TrackingID,
		AgencyID:      p.AgencyID,
		OfficeID:      p.OfficeID,
		TagID:         p.TagID,
		Status:        p.Status,
		PaymentStatus: paymentStatus,
		ActorID:       actorID,
		ActorRole:     actorRole,
		OccurredAt:    time.Now().UTC(),
	}
}

func ParcelCreated(p *parcel.Parcel, paymentStatus transaction.PaymentStatus, actorID uuid.UUID, actorRole role.Role) Event {
	return newEvent(TypeParcelCreated, p, paymentStatus, actorID, actorRole)
}

func ParcelStatusChanged(p *parcel.Parcel, paymentStatus transaction.PaymentStatus, actorID uuid.UUID, actorRole role.Role) Event {
	return newEvent(TypeParcelStatusChanged, p, paymentStatus, actorID, actorRole)
}
