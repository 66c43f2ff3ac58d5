package domain

// Principal is the caller identified by a validated access token
type Principal struct {
	UserID string
	Email  string
}
