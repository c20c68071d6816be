package idempotency

import "errors"

// ErrPayloadCorrupt marks a record that cannot be serialized or
// deserialized. Always fatal to the request.
var ErrPayloadCorrupt = errors.New("idempotency payload corrupt")
