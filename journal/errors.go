package journal

import "errors"

// ErrInsufficientFunds is returned by Transfer when from's resolved
// balance is less than the requested value (spec §7's InsufficientFunds,
// the one C5 error with local recovery: "caller aborts transfer").
var ErrInsufficientFunds = errors.New("journal: insufficient funds")

// errAddressKindUnsupported marks a condensing-tx destination whose kind
// may not hold a UTXO (spec §7's AddressKindUnsupported); CreateCondensingTx
// never returns it directly, only the empty-transaction rejection it causes.
var errAddressKindUnsupported = errors.New("journal: address kind unsupported for condensing-tx output")
