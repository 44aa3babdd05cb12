package model

// ContactMethod is a single channel (phone, email, ...) through which the
// organization can be reached. The collection is admin-managed and lives in
// memory for the lifetime of the process.
type ContactMethod struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	Order       int    `json:"order"`
}
