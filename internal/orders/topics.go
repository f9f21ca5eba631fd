package orders

const (
	TopicOrderEvents = "detail.order.events"
	TopicLeadEvents  = "detail.lead.events"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
