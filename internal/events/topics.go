package events

// Topic constants for domain events emitted by the billing service.
const (
	TopicBillGenerated  = "bill.generated"
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
)

// DefaultTopics returns the canonical list of topics.
func DefaultTopics() []string {
	return []string{
		TopicBillGenerated,
		TopicProductCreated,
		TopicProductUpdated,
	}
}
