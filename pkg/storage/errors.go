package storage

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a conditional create finds an existing record.
var ErrAlreadyExists = errors.New("record already exists")

// ErrEventClaimed is returned when another delivery of the same gateway event already holds its idempotency record.
var ErrEventClaimed = errors.New("event already claimed")

// ErrClaimNotHeld is returned when completing or releasing an idempotency record that is not pending.
var ErrClaimNotHeld = errors.New("idempotency claim not held")

// ErrTooManyItems is returned when an atomic write would exceed the backend's transaction limit.
var ErrTooManyItems = errors.New("too many items for one atomic write")
