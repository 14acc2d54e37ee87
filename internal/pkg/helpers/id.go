package helpers

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a prefixed unique identifier such as "action-5f0e…".
// The prefix makes ids self-describing in logs and the persisted snapshot.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}
