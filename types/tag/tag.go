package tag

import (
	"strings"

	"parcel-logistics/apierr"
)

type CreateTagRequest struct {
	TagName string `json:"tagName" form:"tagName"`
}

func (r CreateTagRequest) Validate() error {
	if strings.TrimSpace(r.TagName) == "" {
		return apierr.Validation("tagName is required")
	}
	return nil
}
