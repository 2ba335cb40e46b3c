package model

import "errors"

var (
	// ErrCredentialNotFound reports that no token or namespace is configured for a zone key.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrZoneNotFound reports that the zone document does not exist under the given scope.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrZoneForbidden reports that the credential is not authorized to read or write the zone.
	ErrZoneForbidden = errors.New("zone access forbidden")
	// ErrBackend reports a transport or provisioning failure talking to the zone backend.
	ErrBackend = errors.New("zone backend error")
	// ErrWriteConflict reports that the zone changed between read and write.
	ErrWriteConflict = errors.New("zone write conflict")
	// ErrWrite reports that the backend rejected the replacement document.
	ErrWrite = errors.New("zone write failed")
)
