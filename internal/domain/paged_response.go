package domain

// Page is one bounded slice of the id-ordered snapshot.
// NextCursor is nil when no record follows the last item.
type Page struct {
	Items      []Customer
	NextCursor *string
}

// HasNext reports whether another page can be requested
func (p Page) HasNext() bool {
	return p.NextCursor != nil
}

// CursorResponse is the wire body of a successful listing
type CursorResponse struct {
	Data       []Customer `json:"data"`
	NextCursor *string    `json:"nextCursor"`
	Limit      int        `json:"limit"`
}

// ErrorResponse is the wire body of a failed listing
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
