package services

import "github.com/cockroachdb/errors"

// Sentinel-Fehler der Service-Schicht. Aufrufer prüfen mit errors.Is.
var (
	// ErrFormat signalisiert eine Eingabe, die keiner bekannten
	// Identifier-Form entspricht.
	ErrFormat = errors.New("unrecognized identifier format")

	// ErrLookup signalisiert, dass ein syntaktisch gültiger Identifier
	// in den Referenzdaten nicht existiert.
	ErrLookup = errors.New("identifier not found in reference data")
)
