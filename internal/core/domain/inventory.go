package domain

type InventoryRecord struct {
	ProductID         string `json:"product_id"`
	QuantityAvailable int    `json:"quantity_available"`
}
