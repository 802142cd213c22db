package models

// User is the admin profile returned on login and stored with the session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client is an entry of the fixed roster the mock generator cycles through.
type Client struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}
