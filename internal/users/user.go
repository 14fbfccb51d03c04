package users

// User is a single record of the remote user collection.
// Fields other than id, name and email are ignored on decode.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
