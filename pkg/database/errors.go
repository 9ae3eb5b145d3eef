package database

import "errors"

// ErrNotReady is returned from the startup hook when the records database
// does not answer a ping within the configured connection timeout.
var ErrNotReady = errors.New("records database unreachable")
