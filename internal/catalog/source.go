package catalog

import (
	"context"
	"errors"
	"strings"
)

// DescriptorFile is the name of the descriptor inside each product directory.
const DescriptorFile = "product.json"

const maxDescriptorBytes = 1 << 20

var ErrNotFound = errors.New("product descriptor not found")

// Source lists product identifiers and reads their raw descriptors.
// Read returns an error wrapping ErrNotFound when id has no descriptor.
type Source interface {
	IDs(ctx context.Context) ([]string, error)
	Read(ctx context.Context, id string) ([]byte, error)
}

// Pinger is implemented by sources with a cheaper readiness check than listing.
type Pinger interface {
	Ping(ctx context.Context) error
}

// validID rejects identifiers that could escape a product directory.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
