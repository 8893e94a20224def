package app

import (
	"net/url"
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

func mapsQuery(parts ...string) string {
	return mapsSearchURL + url.QueryEscape(strings.Join(parts, " "))
}

// DoctorMapURL links to a map search for the doctor's name and address.
func DoctorMapURL(d report.Doctor) string {
	return mapsQuery(strings.TrimSpace(d.Name), strings.TrimSpace(d.Address))
}

// SpecialistMapURL links to a map search for specialist near pincode.
func SpecialistMapURL(specialist, pincode string) string {
	return mapsQuery(strings.TrimSpace(specialist), "near", strings.TrimSpace(pincode))
}
