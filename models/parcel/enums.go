package parcel

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusReceivedInWarehouse  Status = "RECEIVED IN WAREHOUSE"
	StatusWaitingToBeGrouped   Status = "WAITING TO BE GROUPED"
	StatusReadyForShipment     Status = "READY FOR SHIPMENT"
	StatusShipped              Status = "SHIPPED"
	StatusInTransit            Status = "IN TRANSIT"
	StatusArrivedAtDestination Status = "ARRIVED AT DESTINATION OFFICE"
	StatusWaitingForWithdrawal Status = "WAITING FOR WITHDRAWAL"
	StatusDelivered            Status = "DELIVERED/PICKED UP"
	StatusUnclaimed            Status = "UNCLAIMED PACKAGE"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusReceivedInWarehouse, StatusWaitingToBeGrouped, StatusReadyForShipment, StatusShipped,
		StatusInTransit, StatusArrivedAtDestination, StatusWaitingForWithdrawal, StatusDelivered, StatusUnclaimed:
		return true
	default:
		return false
	}
}

// GetAllStatuses returns the lifecycle in order.
func GetAllStatuses() []Status {
	return []Status{
		StatusReceivedInWarehouse,
		StatusWaitingToBeGrouped,
		StatusReadyForShipment,
		StatusShipped,
		StatusInTransit,
		StatusArrivedAtDestination,
		StatusWaitingForWithdrawal,
		StatusDelivered,
		StatusUnclaimed,
	}
}

type TransportMethod string

const (
	TransportAir TransportMethod = "Air"
	TransportSea TransportMethod = "Sea"
)

func (t TransportMethod) IsValid() bool {
	return t == TransportAir || t == TransportSea
}

// Pictures holds relative image paths as a JSON column.
type Pictures []string

func (p *Pictures) Scan(value interface{}) error {
	if value == nil {
		*p = Pictures{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("pictures: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*p = Pictures{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

func (p Pictures) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
