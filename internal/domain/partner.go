package domain

// Partner is the authenticated bank representative that owns a set of clients.
// It is provisioned on the collaborator side and read-only to the client app.
type Partner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Matches reports whether email and password are exactly the partner's credentials.
func (p *Partner) Matches(email, password string) bool {
	return p.Email == email && p.Password == password
}
