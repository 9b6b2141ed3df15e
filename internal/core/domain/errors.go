package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuthFailed indicates the authorize call was rejected or returned
	// no access token. Fatal to the whole run.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNoEntityTypes indicates the project returned no entity types.
	ErrNoEntityTypes = errors.New("no entity types returned from API")

	// ErrNoEntities indicates the project returned no entities.
	ErrNoEntities = errors.New("no entities returned from API")

	// ErrNoRootEntities indicates no eligible root entity could be found,
	// even after the fallback criteria.
	ErrNoRootEntities = errors.New("no root entities found")

	// ErrInvalidSnapshot indicates a snapshot is structurally unusable
	// (missing Products tree or root uuid).
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrNotMaterialized indicates the target document holds no imported
	// model, so there is nothing to update.
	ErrNotMaterialized = errors.New("document has no imported model")

	// ErrRootMismatch indicates the previously imported root is missing
	// from the materialized state; reconciliation aborts with zero
	// mutations applied.
	ErrRootMismatch = errors.New("previous root not found in materialized state")
)
