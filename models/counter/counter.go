package counter

// Counter holds the last tracking sequence issued for a prefix.
type Counter struct {
	Prefix string `gorm:"type:varchar(128);primaryKey" json:"prefix"`
	Seq    int64  `gorm:"not null;default:0"           json:"seq"`
}

func (Counter) TableName() string {
	return "counters"
}
