package access

import (
	"sync"

	"github.com/KSingh1980/ico-contracts/core/types"
)

// Roles consulted by the sale's privileged entry points.
const (
	RoleWhitelistAdmin = "whitelist admin"
	RoleSaleAdmin      = "sale admin"
)

// ObjectGlobal is the wildcard object of a grant.
const ObjectGlobal = "*"

// Everyone is the wildcard subject of a grant.
var Everyone = types.Address{}

type grantKey struct {
	subject types.Address
	role    string
	object  string
}

// Policy resolves role checks over an explicit layered grant mapping.
// Resolution cascades through four levels in order: subject+object,
// subject+global, everyone+object, everyone+global; the first grant
// found wins. A pure lookup, no dynamic dispatch.
type Policy struct {
	grants map[grantKey]bool

	lock sync.RWMutex
}

func NewPolicy() *Policy {
	return &Policy{grants: map[grantKey]bool{}}
}

// Allow records a grant. Use Everyone and ObjectGlobal for wildcard
// layers.
func (p *Policy) Allow(subject types.Address, role string, object string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.grants[grantKey{subject: subject, role: role, object: object}] = true
}

// Deny records an explicit negative grant, shadowing broader layers.
func (p *Policy) Deny(subject types.Address, role string, object string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.grants[grantKey{subject: subject, role: role, object: object}] = false
}

// IsAuthorized answers the four-level cascading lookup.
func (p *Policy) IsAuthorized(subject types.Address, role string, object string) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()

	lookups := []grantKey{
		{subject: subject, role: role, object: object},
		{subject: subject, role: role, object: ObjectGlobal},
		{subject: Everyone, role: role, object: object},
		{subject: Everyone, role: role, object: ObjectGlobal},
	}

	for _, key := range lookups {
		if allowed, exists := p.grants[key]; exists {
			return allowed
		}
	}

	return false
}
