package models

// Area is an admin-managed named zone used as an owner's operating base.
// Areas are owned by the remote backend; ids are opaque strings.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
