package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes the weak etag for transformed code.
func Fingerprint(code string) string {
	return fmt.Sprintf(`W/"%016x"`, xxhash.Sum64String(code))
}
