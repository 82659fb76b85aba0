package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is one entry of the treatment catalog.
type Service struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	BasePrice float64            `bson:"basePrice" json:"basePrice"`
	Duration  int                `bson:"duration" json:"duration"` // minutes
}

// legacyServiceAliases maps treatment names from the old site to the current
// catalog titles. Records stored under the old names must keep decoding, so
// normalization happens on every read and write path, never in a migration.
var legacyServiceAliases = map[string]string{
	"Dental Hygiene":     "Igiene Dentale",
	"Teeth Cleaning":     "Igiene Dentale",
	"Teeth Whitening":    "Sbiancamento",
	"Whitening":          "Sbiancamento",
	"Checkup":            "Visita di Controllo",
	"Check-up":           "Visita di Controllo",
	"General Dentistry":  "Visita di Controllo",
	"Braces":             "Ortodonzia",
	"Orthodontics":       "Ortodonzia",
	"Dental Implants":    "Implantologia",
	"Implants":           "Implantologia",
	"Filling":            "Otturazione",
	"Tooth Extraction":   "Estrazione",
	"Extraction":         "Estrazione",
	"Root Canal":         "Devitalizzazione",
	"Dentures":           "Protesi Dentaria",
	"Cosmetic Dentistry": "Estetica Dentale",
}

// NormalizeServiceTitle maps a legacy treatment name to its current catalog
// title. Unknown strings pass through unchanged so catalog validation can
// reject them with the original value.
func NormalizeServiceTitle(title string) string {
	if canonical, ok := legacyServiceAliases[title]; ok {
		return canonical
	}
	return title
}
