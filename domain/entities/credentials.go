package entities

// Credentials holds the portal login pair read from the environment.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"-"`
}

// IsComplete reports whether both fields are present.
func (c Credentials) IsComplete() bool {
	return c.Login != "" && c.Password != ""
}
