// Package locale maps USIS property and attribute identifiers to
// human-readable labels for display in user interfaces.
//
// The wire protocol only ever speaks uppercase identifiers like
// GRATING_ANGLE; labels are a presentation concern and never travel on the
// wire.
package locale

import "strings"

// Labels is an immutable identifier-to-label table for one language.
type Labels struct {
	language string
	labels   map[string]string
}

// Language returns the BCP 47 language tag of the table.
func (l *Labels) Language() string {
	return l.language
}

// Label returns the label for a protocol identifier. Unknown identifiers
// fall back to a readable form of the identifier itself, so a device
// exposing vendor-specific properties still renders acceptably.
func (l *Labels) Label(identifier string) string {
	if label, ok := l.labels[identifier]; ok {
		return label
	}

	return fallbackLabel(identifier)
}

// Has reports whether the table carries an explicit label for identifier.
func (l *Labels) Has(identifier string) bool {
	_, ok := l.labels[identifier]

	return ok
}

// fallbackLabel turns GRATING_ANGLE into "Grating angle".
func fallbackLabel(identifier string) string {
	words := strings.Split(strings.ToLower(identifier), "_")
	if len(words) == 0 || words[0] == "" {
		return identifier
	}

	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]

	return strings.Join(words, " ")
}

// English returns the English label table.
func English() *Labels {
	return &Labels{
		language: "en",
		labels: map[string]string{
			"GRATING_ANGLE":      "Grating angle",
			"GRATING_WAVELENGTH": "Grating wavelength",
			"GRATING_DENSITY":    "Grating density",
			"FOCUS_POSITION":     "Focus position",
			"LIGHT_SOURCE":       "Light source",
			"SLIT_WIDTH":         "Slit width",

			"VALUE":     "Value",
			"MIN":       "Minimum",
			"MAX":       "Maximum",
			"PREC":      "Precision",
			"UNIT":      "Unit",
			"VERSION":   "Version",
			"PROTOCOLS": "Protocols",

			"IDLE":    "Idle",
			"MOVING":  "Moving",
			"BUSY":    "Busy",
			"UNKNOWN": "Unknown",
		},
	}
}

// French returns the French label table.
func French() *Labels {
	return &Labels{
		language: "fr",
		labels: map[string]string{
			"GRATING_ANGLE":      "Angle du réseau",
			"GRATING_WAVELENGTH": "Longueur d'onde du réseau",
			"GRATING_DENSITY":    "Densité du réseau",
			"FOCUS_POSITION":     "Position du focus",
			"LIGHT_SOURCE":       "Source lumineuse",
			"SLIT_WIDTH":         "Largeur de fente",

			"VALUE":     "Valeur",
			"MIN":       "Minimum",
			"MAX":       "Maximum",
			"PREC":      "Précision",
			"UNIT":      "Unité",
			"VERSION":   "Version",
			"PROTOCOLS": "Protocoles",

			"IDLE":    "Au repos",
			"MOVING":  "En mouvement",
			"BUSY":    "Occupé",
			"UNKNOWN": "Inconnu",
		},
	}
}

// ForTag returns the table for a language tag, falling back to English
// for unsupported languages.
func ForTag(tag string) *Labels {
	switch strings.ToLower(tag) {
	case "fr":
		return French()
	default:
		return English()
	}
}
