package messagedb

const (
	// DefaultPosition is the position reads start from when not specified otherwise.
	DefaultPosition int64 = 0

	// DefaultBatchSize is the maximum number of messages returned by a single read.
	DefaultBatchSize int64 = 100
)

// PageRequest holds the parameters of a single read from the message store.
//
// Position is a stream position for stream reads and a global position for
// category reads. Correlation and the consumer group parameters only apply
// to category reads and are passed through to the store untouched.
type PageRequest struct {
	Position  int64
	BatchSize int64

	Correlation         *string
	ConsumerGroupMember *int64
	ConsumerGroupSize   *int64

	// Condition is an additional SQL condition the store applies to the read.
	// It is set from a CategoryAddress, callers should not need to set it.
	Condition *string
}

// DefaultPageRequest returns a PageRequest for the first DefaultBatchSize messages.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Position:  DefaultPosition,
		BatchSize: DefaultBatchSize,
	}
}

func (p PageRequest) withCondition(condition string) PageRequest {
	p.Condition = &condition
	return p
}
