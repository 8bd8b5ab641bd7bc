package domain

// Script is a stored code snippet. Scripts are never edited in place.
type Script struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// NewScript carries the fields of a script that has no identifier yet.
type NewScript struct {
	Name        string
	Description string
	Code        string
}
