package auth

// LoginPageData encapsulates rendering state for the admin login screen.
type LoginPageData struct {
	Message   string
	Error     string
	Next      string
	LoginPath string
	BasePath  string
	CSRFToken string
}
