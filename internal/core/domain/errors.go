package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned across a port wraps exactly one of these.
var (
	// ErrNotFound is an error thrown when an asset or artifact is absent and unrecoverable
	ErrNotFound = errors.New("not found")

	// ErrForbidden is an error thrown when the access gate denies an actor
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is an error thrown when parameters, content type or size are rejected
	ErrValidation = errors.New("validation failed")

	// ErrConflict is an error thrown when a state transition is not permitted
	ErrConflict = errors.New("conflict")

	// ErrUpstreamUnavailable is an error thrown when the object store or job queue failed or timed out
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ErrAssetNotFound is an error thrown when asset row does not exist
var ErrAssetNotFound = fmt.Errorf("%w: asset", ErrNotFound)

// ErrActorNotFound is an error thrown when actor cannot be resolved
var ErrActorNotFound = fmt.Errorf("%w: actor", ErrNotFound)

// ErrJobNotFound is an error thrown when job row does not exist
var ErrJobNotFound = fmt.Errorf("%w: job", ErrNotFound)

// ErrObjectNotFound is an error thrown when the object store has no object at key
var ErrObjectNotFound = fmt.Errorf("%w: object", ErrNotFound)

// ErrSourceDeleted is an error thrown when the source blob of an asset was purged
var ErrSourceDeleted = fmt.Errorf("%w: source deleted", ErrNotFound)

// ErrArtifactUnavailable is an error thrown when an artifact is missing and can never be generated
var ErrArtifactUnavailable = fmt.Errorf("%w: artifact unavailable", ErrNotFound)

// ErrArtifactNotReady is an error thrown on read paths when artifact is not generated yet
var ErrArtifactNotReady = fmt.Errorf("%w: artifact not ready", ErrNotFound)

// ErrAccessDenied is an error thrown when the actor has no grant for the capability
var ErrAccessDenied = fmt.Errorf("%w: access denied", ErrForbidden)

// ErrElevatedCapabilityRequired is an error thrown when a role needs a permission the actor lacks
var ErrElevatedCapabilityRequired = fmt.Errorf("%w: elevated capability required", ErrForbidden)

// ErrUnknownArtifactType is an error thrown when artifact type is not supported
var ErrUnknownArtifactType = fmt.Errorf("%w: unknown artifact type", ErrValidation)

// ErrArtifactNotApplicable is an error thrown when artifact type does not apply to the asset kind
var ErrArtifactNotApplicable = fmt.Errorf("%w: artifact not applicable to asset kind", ErrValidation)

// ErrInvalidFileType is an error thrown when file type is invalid
var ErrInvalidFileType = fmt.Errorf("%w: invalid file type", ErrValidation)

// ErrSVGRejected is an error thrown for any svg upload
var ErrSVGRejected = fmt.Errorf("%w: svg is not accepted", ErrValidation)

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = fmt.Errorf("%w: file size too big", ErrValidation)

// ErrFileSizeTooSmall is an error thrown when file size is zero or negative
var ErrFileSizeTooSmall = fmt.Errorf("%w: file size too small", ErrValidation)

// ErrRoleNotAllowed is an error thrown when the role cannot be uploaded by a client or does not fit the kind
var ErrRoleNotAllowed = fmt.Errorf("%w: role not allowed", ErrValidation)

// ErrUploadMissing is an error thrown when completion is requested but no object was stored
var ErrUploadMissing = fmt.Errorf("%w: uploaded object missing", ErrValidation)

// ErrInvalidStatusTransition is an error thrown when the asset is not in the expected status
var ErrInvalidStatusTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)

// ErrPartialDeletion is an error thrown when at least one prefix failed to delete
var ErrPartialDeletion = fmt.Errorf("%w: partial deletion", ErrUpstreamUnavailable)
