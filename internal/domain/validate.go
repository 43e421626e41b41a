package domain

import "fmt"

// MaxPostIDLength bounds the accepted id length.
const MaxPostIDLength = 40

// ValidatePostID checks that id is a non-empty run of at most
// MaxPostIDLength ASCII digits and returns it unchanged.
func ValidatePostID(id string) (string, error) {
	if id == "" || len(id) > MaxPostIDLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
		}
	}
	return id, nil
}
