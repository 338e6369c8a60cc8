package bus

import (
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Access answers role checks for privileged operations.
type Access interface {
	IsAuthorized(subject types.Address, role string, object string) bool
}

// Agreement gates commitments on the governing legal agreement.
type Agreement interface {
	HasAccepted(party types.Address) bool
}
