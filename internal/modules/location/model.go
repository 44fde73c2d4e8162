// README: Location snapshot for persistence and replay.
package location

import (
	"time"

	"taxi/internal/types"
)

const (
	UserTypeDriver    = "driver"
	UserTypePassenger = "passenger"
)

type Snapshot struct {
	ID         int64
	UserID     types.ID
	UserType   string
	Position   types.Point
	Cell       string
	RecordedAt time.Time
}
