package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuildUploadKey namespaces an upload under its owner with a short random
// disambiguator: "<ownerID>/<5-char>_<title>".
func BuildUploadKey(ownerID, title string) string {
	return fmt.Sprintf("%s/%s_%s", ownerID, uuid.New().String()[0:5], title)
}

// OwnerFromKey returns the first path segment of a storage key, the
// uploading user's id.
func OwnerFromKey(key string) (string, error) {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "", fmt.Errorf("invalid object key format: %q", key)
	}
	return parts[0], nil
}
