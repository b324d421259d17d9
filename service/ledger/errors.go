package ledger

import "errors"

// ErrDuplicate signals that a record for the (user, job) pair already exists.
var ErrDuplicate = errors.New("application record already exists")
