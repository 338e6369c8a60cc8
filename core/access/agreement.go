package access

import (
	"sync"

	"github.com/KSingh1980/ico-contracts/core/types"
)

// Acknowledgments is the legal-agreement gate: a party must accept the
// governing agreement before committing funds.
type Acknowledgments struct {
	accepted map[types.Address]bool

	lock sync.RWMutex
}

func NewAcknowledgments() *Acknowledgments {
	return &Acknowledgments{accepted: map[types.Address]bool{}}
}

func (a *Acknowledgments) Accept(party types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.accepted[party] = true
}

func (a *Acknowledgments) HasAccepted(party types.Address) bool {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.accepted[party]
}
