package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string. ULIDs sort by creation time and are never reused.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// OrderNumber is the human-facing reference printed on receipts.
func OrderNumber() string {
	return "ORD-" + New()
}
