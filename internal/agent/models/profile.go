package models

// Profile is the logged-in patient identity returned by code verification.
// PatientId is kept as the string the backend sends; the sync engine parses
// it when building requests.
type Profile struct {
	PatientId            string
	FirstName            string
	LastName             string
	Phone                string
	ProviderFirstName    string
	ProviderLastName     string
	ProviderPracticeName string
}
