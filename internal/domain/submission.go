package domain

// ContactSubmission is a sanitized contact inquiry. It lives for one request.
type ContactSubmission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// BookingSubmission is a sanitized appointment request with catalog names
// resolved. It lives for one request.
type BookingSubmission struct {
	Reference   string
	Name        string
	Phone       string
	Email       string
	Date        string
	Time        string
	Service     string
	ServiceName string
	Branch      string
	BranchName  string
	Notes       string
}

// Catalog maps a code submitted by the site to its display name.
type Catalog map[string]string

// Name returns the display name for code.
func (c Catalog) Name(code string) (string, bool) {
	name, ok := c[code]
	return name, ok
}
