package schema

import "time"

const CartItemAddedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.cart",
	"name": "item_added",
	"fields" : [
		{"name": "event_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "unit_price", "type": "double"},
		{"name": "quantity", "type": "long"},
		{"name": "total_items", "type": "long"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type CartItemAddedV1 struct {
	EventID    string    `avro:"event_id"`
	ProductID  string    `avro:"product_id"`
	UnitPrice  float64   `avro:"unit_price"`
	Quantity   int64     `avro:"quantity"`
	TotalItems int64     `avro:"total_items"`
	OccurredAt time.Time `avro:"occurred_at"`
}
