package domain

import "time"

type ProductState string

const (
	ProductStateAvailable  ProductState = "AVAILABLE"
	ProductStateDamaged    ProductState = "DAMAGED"
	ProductStateOnWash     ProductState = "ON_WASH"
	ProductStateOnLaundry  ProductState = "ON_LAUNDRY"
	ProductStateOnRepair   ProductState = "ON_REPAIR"
	ProductStateWrittenOff ProductState = "WRITTEN_OFF"
)

// Product is one rentable product line. TotalQuantity is the number of
// physical units owned; it only decreases on a total-loss write-off.
// Frozen quantity is not stored here: it is derived from open FreezeEntries.
type Product struct {
	ID            int32        `json:"id"`
	SKU           string       `json:"sku"`
	Name          string       `json:"name"`
	TotalQuantity int32        `json:"total_quantity"`
	State         ProductState `json:"state"`
	CreatedOn     time.Time    `json:"created_on"`
	UpdatedOn     time.Time    `json:"updated_on"`
}
