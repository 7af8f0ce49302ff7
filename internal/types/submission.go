package types

// SubmissionRequest is the raw field bag posted by either booking form. The
// dental form fills name/department/treatment/date/time; the checkup form
// fills firstName/lastName/selectedDate/selectedTime plus the extended
// contact fields. Which variant was submitted is inferred from the fields
// present, there is no explicit discriminator on the wire.
type SubmissionRequest struct {
	Name       string `json:"name"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Mobile     string `json:"mobile"`
	Age        string `json:"age"`
	Address    string `json:"address"`
	Branch     string `json:"branch"`
	Department string `json:"department"`
	Treatment  string `json:"treatment"`
	Service    string `json:"service"`
	Message    string `json:"message"`

	Date         string `json:"date"`
	Time         string `json:"time"`
	SelectedDate string `json:"selectedDate"`
	SelectedTime string `json:"selectedTime"`

	RecaptchaToken string `json:"recaptchaToken"`
	// Honeypot field. Hidden on the real forms, so a non-empty value marks a bot.
	Website string `json:"website"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RecordResponse wraps a mutated record for the admin update/delete endpoints.
type RecordResponse struct {
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}
