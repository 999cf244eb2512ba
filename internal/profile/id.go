package profile

import (
	"strings"

	"github.com/google/uuid"
)

const idPrefix = "CUPID-"

// NewID returns a fresh profile id such as CUPID-1A2B3C4D.
func NewID() string {
	return idPrefix + strings.ToUpper(uuid.NewString()[:8])
}
