package code

import (
	"strconv"
)

// Codes for failed sale operations
const (
	// general
	OK                uint32 = 0
	Unauthorized      uint32 = 101
	WrongPhase        uint32 = 102
	IllegalTransition uint32 = 103
	InvalidArgument   uint32 = 104
	SaleAborted       uint32 = 105

	// whitelist
	DuplicateTicket uint32 = 201

	// settlement
	PartialCommitmentNotAllowed uint32 = 301
	CapExceeded                 uint32 = 302
	TransferFailed              uint32 = 303
	InsufficientAllowance       uint32 = 304

	// arithmetic
	ArithmeticOverflow  uint32 = 401
	ArithmeticUnderflow uint32 = 402
)

type unauthorized struct {
	Code    string `json:"code,omitempty"`
	Subject string `json:"subject,omitempty"`
	Role    string `json:"role,omitempty"`
}

func NewUnauthorized(subject, role string) *unauthorized {
	return &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Subject: subject, Role: role}
}

type wrongPhase struct {
	Code     string `json:"code,omitempty"`
	Current  string `json:"current,omitempty"`
	Required string `json:"required,omitempty"`
}

func NewWrongPhase(current, required string) *wrongPhase {
	return &wrongPhase{Code: strconv.Itoa(int(WrongPhase)), Current: current, Required: required}
}

type illegalTransition struct {
	Code string `json:"code,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func NewIllegalTransition(from, to string) *illegalTransition {
	return &illegalTransition{Code: strconv.Itoa(int(IllegalTransition)), From: from, To: to}
}

type invalidArgument struct {
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func NewInvalidArgument(reason string) *invalidArgument {
	return &invalidArgument{Code: strconv.Itoa(int(InvalidArgument)), Reason: reason}
}

type duplicateTicket struct {
	Code        string `json:"code,omitempty"`
	Participant string `json:"participant,omitempty"`
}

func NewDuplicateTicket(participant string) *duplicateTicket {
	return &duplicateTicket{Code: strconv.Itoa(int(DuplicateTicket)), Participant: participant}
}

type partialCommitmentNotAllowed struct {
	Code        string `json:"code,omitempty"`
	Participant string `json:"participant,omitempty"`
	Remainder   string `json:"remainder,omitempty"`
}

func NewPartialCommitmentNotAllowed(participant, remainder string) *partialCommitmentNotAllowed {
	return &partialCommitmentNotAllowed{Code: strconv.Itoa(int(PartialCommitmentNotAllowed)), Participant: participant, Remainder: remainder}
}

type capExceeded struct {
	Code   string `json:"code,omitempty"`
	Issued string `json:"issued,omitempty"`
	Cap    string `json:"cap,omitempty"`
}

func NewCapExceeded(issued, cap string) *capExceeded {
	return &capExceeded{Code: strconv.Itoa(int(CapExceeded)), Issued: issued, Cap: cap}
}

type transferFailed struct {
	Code   string `json:"code,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount string `json:"amount,omitempty"`
}

func NewTransferFailed(from, to, amount string) *transferFailed {
	return &transferFailed{Code: strconv.Itoa(int(TransferFailed)), From: from, To: to, Amount: amount}
}

type insufficientAllowance struct {
	Code      string `json:"code,omitempty"`
	Owner     string `json:"owner,omitempty"`
	Wanted    string `json:"wanted,omitempty"`
	Allowance string `json:"allowance,omitempty"`
}

func NewInsufficientAllowance(owner, wanted, allowance string) *insufficientAllowance {
	return &insufficientAllowance{Code: strconv.Itoa(int(InsufficientAllowance)), Owner: owner, Wanted: wanted, Allowance: allowance}
}

type arithmeticOverflow struct {
	Code  string `json:"code,omitempty"`
	Value string `json:"value,omitempty"`
	Bound string `json:"bound,omitempty"`
}

func NewArithmeticOverflow(value, bound string) *arithmeticOverflow {
	return &arithmeticOverflow{Code: strconv.Itoa(int(ArithmeticOverflow)), Value: value, Bound: bound}
}

type arithmeticUnderflow struct {
	Code string `json:"code,omitempty"`
	A    string `json:"a,omitempty"`
	B    string `json:"b,omitempty"`
}

func NewArithmeticUnderflow(a, b string) *arithmeticUnderflow {
	return &arithmeticUnderflow{Code: strconv.Itoa(int(ArithmeticUnderflow)), A: a, B: b}
}

type saleAborted struct {
	Code string `json:"code,omitempty"`
}

func NewSaleAborted() *saleAborted {
	return &saleAborted{Code: strconv.Itoa(int(SaleAborted))}
}
