package models

// Principal identifies the authenticated caller of a request. A nil principal
// or a zero ID means the request is anonymous.
type Principal struct {
	ID       uint
	Username string
}

// IsAuthenticated reports whether the principal may access personalized
// operations (feed, relationship listings, follow mutations).
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.ID != 0
}
