// Package execmodel holds the data types shared between a contract VM and
// the orchestrator: the environment a contract executes in, the call
// input/output shapes, and the execution result tree.
//
// Grounded on original_source/src/qtum/neutron.h (ContractStatus,
// ContractOutput, ContractEnvironment) and deltadb.h
// (ContractExecutionResult).
package execmodel

import "encoding/json"

// ContractStatus is a small value type carrying a status code, a fixed
// human-readable message, and an optional extra detail string appended
// with "; Extra info: ..." (SPEC_FULL.md §4 item 2, grounded on neutron.h's
// ContractStatus class and its seven named constructors).
type ContractStatus struct {
	code    int
	message string
	extra   string
}

// Code returns the numeric status code (neutron.h's getCode).
func (s ContractStatus) Code() int {
	return s.code
}

// IsError reports whether this status represents a non-success outcome
// (neutron.h's isError: `status != 0`).
func (s ContractStatus) IsError() bool {
	return s.code != 0
}

// String renders the status message, appending the extra detail when
// present (neutron.h's toString).
func (s ContractStatus) String() string {
	if s.extra == "" {
		return s.message
	}
	return s.message + "; Extra info: " + s.extra
}

// Success reports a contract call that completed normally.
func Success(extra string) ContractStatus {
	return ContractStatus{code: 0, message: "Success", extra: extra}
}

// OutOfGas reports a contract call that exhausted its gas limit.
func OutOfGas(extra string) ContractStatus {
	return ContractStatus{code: 1, message: "Out of gas", extra: extra}
}

// CodeError reports an unhandled exception triggered during execution.
func CodeError(extra string) ContractStatus {
	return ContractStatus{code: 2, message: "Unhandled exception triggered in execution", extra: extra}
}

// DoesntExist reports a call to an address with no deployed contract.
func DoesntExist(extra string) ContractStatus {
	return ContractStatus{code: 3, message: "Contract does not exist", extra: extra}
}

// ReturnedError reports a contract that executed successfully but
// returned an application-level error code.
func ReturnedError(extra string) ContractStatus {
	return ContractStatus{code: 4, message: "Contract executed successfully but returned an error code", extra: extra}
}

// ErrorWithCommit reports a contract that chose to commit state despite
// returning an error code.
func ErrorWithCommit(extra string) ContractStatus {
	return ContractStatus{code: 5, message: "Contract chose to commit state, but returned an error code", extra: extra}
}

// InternalError reports a failure in the execution machinery itself,
// rather than in contract code.
func InternalError(extra string) ContractStatus {
	return ContractStatus{code: 6, message: "Internal error with contract execution", extra: extra}
}

// statusWire is the JSON-visible shape of a ContractStatus, needed because
// Code/Message/Extra are otherwise unexported (the event index persists
// ContractExecutionResult, including Status, as JSON; see SPEC_FULL.md §3
// on keeping JSON result records for schema compatibility).
type statusWire struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Extra   string `json:"extra,omitempty"`
}

func (s ContractStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusWire{Code: s.code, Message: s.message, Extra: s.extra})
}

func (s *ContractStatus) UnmarshalJSON(data []byte) error {
	var w statusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.code = w.Code
	s.message = w.Message
	s.extra = w.Extra
	return nil
}
