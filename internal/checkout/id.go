package checkout

import (
	"github.com/oklog/ulid/v2"
)

const OrderIDPrefix = "PP-"

// ULIDGenerator yields time-ordered ids that stay unique within the same
// millisecond.
type ULIDGenerator struct{}

func (ULIDGenerator) GenerateID() string {
	return OrderIDPrefix + ulid.Make().String()
}
