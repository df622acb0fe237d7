package address

import "github.com/qtumproject/neutron-core/script"

// FromScript derives a PubKeyHash address from a standard P2PKH or P2PK
// output script, or the null address for anything else. Grounded on
// neutron.cpp's UniversalAddress::FromScript, which defers to Bitcoin
// Core's ExtractDestination and only accepts TX_PUBKEY/TX_PUBKEYHASH
// destinations that resolve to a CKeyID (a 20-byte pubkey hash) — P2PK
// destinations are accepted too since ExtractDestination hashes the
// embedded pubkey down to the same CKeyID type.
func FromScript(s []byte) Address {
	if hash, ok := p2pkhHash(s); ok {
		return New(PubKeyHash, hash)
	}
	if pubKey, ok := p2pkPubKey(s); ok {
		return New(PubKeyHash, Hash160(pubKey))
	}
	return Address{}
}

// p2pkhHash matches OP_DUP OP_HASH160 <0x14> <20 bytes> OP_EQUALVERIFY
// OP_CHECKSIG and returns the embedded hash.
func p2pkhHash(s []byte) ([]byte, bool) {
	if len(s) != 25 {
		return nil, false
	}
	if byte(s[0]) != byte(script.OpDup) || byte(s[1]) != byte(script.OpHash160) {
		return nil, false
	}
	if s[2] != 0x14 {
		return nil, false
	}
	if byte(s[23]) != byte(script.OpEqualVerify) || byte(s[24]) != byte(script.OpCheckSig) {
		return nil, false
	}
	return s[3:23], true
}

// p2pkPubKey matches <0x21><33-byte compressed pubkey> OP_CHECKSIG or
// <0x41><65-byte uncompressed pubkey> OP_CHECKSIG and returns the pubkey.
func p2pkPubKey(s []byte) ([]byte, bool) {
	if len(s) == 35 && s[0] == 0x21 && byte(s[34]) == byte(script.OpCheckSig) {
		return s[1:34], true
	}
	if len(s) == 67 && s[0] == 0x41 && byte(s[66]) == byte(script.OpCheckSig) {
		return s[1:66], true
	}
	return nil, false
}
