package tracking

import "errors"

// ErrGroupCapacityExceeded is returned by Registry.Acquire once all
// non-reserved group slots have been issued. Group ids are never recycled,
// so this condition is permanent for the lifetime of the process.
var ErrGroupCapacityExceeded = errors.New("allocation group capacity exceeded")
