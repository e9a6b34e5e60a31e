package entity

// User is the profile embedded in gateway tokens.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Session is what the Authentication Provider hands back for valid
// credentials. ExpiresAt is in Unix milliseconds.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// IssuedToken is a signed gateway token.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt int64
}
