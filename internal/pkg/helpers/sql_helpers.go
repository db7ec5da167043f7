package helpers

// GetContentNullString converts a string value to a nullable column value,
// treating the empty string as NULL.
func GetContentNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
