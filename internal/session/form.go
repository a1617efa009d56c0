package session

import "strings"

const minPhoneLength = 10

const (
	msgPhoneRequired    = "Phone number is required"
	msgPasswordRequired = "Password is required"
	msgPhoneInvalid     = "Please enter a valid phone number"
	msgLoginFailed      = "Login failed. Please check your credentials."
)

// ValidationError is surfaced inline on the login screen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Credentials are what the login form submits.
type Credentials struct {
	Phone    string
	Password string
}

// Validate checks credentials in the order the form reports problems.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Phone) == "" {
		return &ValidationError{Field: "phone", Message: msgPhoneRequired}
	}
	if strings.TrimSpace(c.Password) == "" {
		return &ValidationError{Field: "password", Message: msgPasswordRequired}
	}
	if len(c.Phone) < minPhoneLength {
		return &ValidationError{Field: "phone", Message: msgPhoneInvalid}
	}
	return nil
}

// LoginForm is the local state of the login screen. It never touches the router.
type LoginForm struct {
	Phone    string
	Password string
	Loading  bool
	Error    string
}

func (f *LoginForm) SetPhone(v string) {
	f.Phone = v
	f.Error = ""
}

func (f *LoginForm) SetPassword(v string) {
	f.Password = v
	f.Error = ""
}

// Submit validates the form. On success it enters the loading state and returns the credentials.
func (f *LoginForm) Submit() (Credentials, bool) {
	if f.Loading {
		return Credentials{}, false
	}
	creds := Credentials{Phone: f.Phone, Password: f.Password}
	if err := creds.Validate(); err != nil {
		f.Error = err.Error()
		return Credentials{}, false
	}
	f.Loading = true
	f.Error = ""
	return creds, true
}

// Succeed resets every field after a successful login.
func (f *LoginForm) Succeed() {
	*f = LoginForm{}
}

// Fail leaves the typed values in place and shows the generic failure message.
func (f *LoginForm) Fail() {
	f.Loading = false
	f.Error = msgLoginFailed
}
