package store

// PastSearchTermKey holds the last search term typed into the user list
const PastSearchTermKey = "pastSearchTerm"

// Store is a persistent string key-value store
type Store interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)
	// Set writes value under key before returning
	Set(key, value string) error
}
