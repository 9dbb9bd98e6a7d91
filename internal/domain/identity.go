package domain

// Identity is a user verified by the external identity provider.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
