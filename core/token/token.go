package token

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/types"
	"github.com/KSingh1980/ico-contracts/helpers"
)

// Ledger is an in-memory fungible token: balances, allowances and a
// guarded total supply. It backs both the reward asset and the wrapped
// payment currencies.
type Ledger struct {
	symbol      string
	balances    map[types.Address]*big.Int
	allowances  map[types.Address]map[types.Address]*big.Int
	totalSupply *big.Int

	lock sync.RWMutex
}

func NewLedger(symbol string) *Ledger {
	return &Ledger{
		symbol:      symbol,
		balances:    map[types.Address]*big.Int{},
		allowances:  map[types.Address]map[types.Address]*big.Int{},
		totalSupply: big.NewInt(0),
	}
}

func (l *Ledger) Symbol() string {
	return l.symbol
}

func (l *Ledger) TotalSupply() *big.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return big.NewInt(0).Set(l.totalSupply)
}

func (l *Ledger) BalanceOf(owner types.Address) *big.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return big.NewInt(0).Set(l.balance(owner))
}

func (l *Ledger) balance(owner types.Address) *big.Int {
	balance, exists := l.balances[owner]
	if !exists {
		balance = big.NewInt(0)
		l.balances[owner] = balance
	}

	return balance
}

// Mint creates amount new tokens on the owner's balance.
func (l *Ledger) Mint(to types.Address, amount *big.Int) error {
	if amount.Sign() == -1 {
		return code.NewError(code.InvalidArgument, "cannot mint a negative amount",
			code.NewInvalidArgument("negative mint amount"))
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	supply, err := helpers.AddChecked(l.totalSupply, amount)
	if err != nil {
		return err
	}

	l.totalSupply = supply
	l.balance(to).Add(l.balance(to), amount)

	return nil
}

// Burn destroys amount tokens from the owner's balance.
func (l *Ledger) Burn(from types.Address, amount *big.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	balance, err := helpers.SubChecked(l.balance(from), amount)
	if err != nil {
		return err
	}

	l.balances[from] = balance
	l.totalSupply = big.NewInt(0).Sub(l.totalSupply, amount)

	return nil
}

// Deposit wraps raw attached value into ledger form, crediting the owner.
func (l *Ledger) Deposit(to types.Address, amount *big.Int) error {
	return l.Mint(to, amount)
}

func (l *Ledger) Transfer(from, to types.Address, amount *big.Int) error {
	if amount.Sign() == -1 {
		return code.NewError(code.InvalidArgument, "cannot transfer a negative amount",
			code.NewInvalidArgument("negative transfer amount"))
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	return l.transfer(from, to, amount)
}

func (l *Ledger) transfer(from, to types.Address, amount *big.Int) error {
	balance, err := helpers.SubChecked(l.balance(from), amount)
	if err != nil {
		return code.NewError(code.TransferFailed,
			fmt.Sprintf("insufficient funds to transfer %s %s from %s", amount.String(), l.symbol, from.String()),
			code.NewTransferFailed(from.String(), to.String(), amount.String()))
	}

	l.balances[from] = balance
	l.balance(to).Add(l.balance(to), amount)

	return nil
}

// Approve sets the spender's allowance over the owner's funds.
func (l *Ledger) Approve(owner, spender types.Address, amount *big.Int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	approvals, exists := l.allowances[owner]
	if !exists {
		approvals = map[types.Address]*big.Int{}
		l.allowances[owner] = approvals
	}

	approvals[spender] = big.NewInt(0).Set(amount)
}

func (l *Ledger) Allowance(owner, spender types.Address) *big.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	approvals, exists := l.allowances[owner]
	if !exists {
		return big.NewInt(0)
	}
	allowance, exists := approvals[spender]
	if !exists {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(allowance)
}

// PullTransfer moves pre-approved funds from the owner to the spender,
// consuming the allowance.
func (l *Ledger) PullTransfer(owner, spender types.Address, amount *big.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	approvals := l.allowances[owner]
	var allowance *big.Int
	if approvals != nil {
		allowance = approvals[spender]
	}
	if allowance == nil {
		allowance = big.NewInt(0)
	}

	if allowance.Cmp(amount) == -1 {
		return code.NewError(code.InsufficientAllowance,
			fmt.Sprintf("allowance of %s for %s is %s, wanted %s", owner.String(), spender.String(), allowance.String(), amount.String()),
			code.NewInsufficientAllowance(owner.String(), amount.String(), allowance.String()))
	}

	if err := l.transfer(owner, spender, amount); err != nil {
		return err
	}

	approvals[spender] = big.NewInt(0).Sub(allowance, amount)

	return nil
}
