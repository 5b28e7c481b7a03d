package engine

import "github.com/google/uuid"

// newID is the default generator for BOQ item and project ids.
func newID() string {
	return uuid.NewString()
}
