package dynamics

import "errors"

// ErrLocked is returned by structural mutators called while the world's
// step is in progress. It is a rejection, not a failure: callbacks fired
// mid-step may call these APIs defensively and retry after the step.
var ErrLocked = errors.New("dynamics: world is locked")
