package model

// Credential is the token/namespace pair that scopes access to one or more zones.
type Credential struct {
	Token     string
	Namespace string
}

// IsZero reports whether neither field is set.
func (c Credential) IsZero() bool {
	return c.Token == "" && c.Namespace == ""
}
