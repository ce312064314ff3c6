package user

// Filter narrows a user listing. Zero-value fields are ignored.
type Filter struct {
	Name string // Equality match on the display name
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return f.Name == ""
}
