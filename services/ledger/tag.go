package ledger

import (
	"context"
	"strings"

	"parcel-logistics/apierr"
	"parcel-logistics/models/tag"
	"parcel-logistics/services/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTagInput struct {
	AgencyID uuid.UUID
	OfficeID uuid.UUID
	TagName  string
}

// CreateTag adds a named group to an office. Names are unique per agency and office.
func (l *Ledger) CreateTag(ctx context.Context, in CreateTagInput) (*tag.Tag, error) {
	name := strings.TrimSpace(in.TagName)
	if name == "" {
		return nil, apierr.Validation("Tag name is required")
	}

	var created tag.Tag
	err := l.inTx(ctx, "CreateTag", func(tx *gorm.DB) error {
		if _, err := l.findAgency(ctx, tx, in.AgencyID, "Agency not found"); err != nil {
			return err
		}
		if _, err := l.findOffice(ctx, tx, in.AgencyID, in.OfficeID, "Office not found"); err != nil {
			return err
		}

		var count int64
		if err := tx.WithContext(ctx).Model(&tag.Tag{}).
			Where("agency_id = ? AND office_id = ? AND tag_name = ?", in.AgencyID, in.OfficeID, name).
			Count(&count).Error; err != nil {
			return apierr.Internal("Failed to check tag name", err)
		}
		if count > 0 {
			return apierr.Conflict("%q must be unique", name)
		}

		created = tag.Tag{AgencyID: in.AgencyID, OfficeID: in.OfficeID, TagName: name}
		if err := tx.WithContext(ctx).Create(&created).Error; err != nil {
			return apierr.Internal("Failed to create tag", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, sideEffects{targets: []cache.Target{
		{GroupKey: cache.GroupTags, ScopeID: "all"},
		{GroupKey: cache.GroupTags, ScopeID: in.AgencyID.String() + ":" + in.OfficeID.String()},
	}})
	return &created, nil
}
