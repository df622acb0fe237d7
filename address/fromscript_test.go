package address

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qtumproject/neutron-core/script"
)

func TestFromScriptP2PKH(t *testing.T) {
	hash := make([]byte, 20)
	hash[0] = 0xaa
	s := script.P2PKH(hash)

	got := FromScript(s)
	assert.Equal(t, PubKeyHash, got.Version)
	assert.Equal(t, hash, got.Data[:])
}

func TestFromScriptP2PKCompressed(t *testing.T) {
	pubKey := make([]byte, 33)
	pubKey[0] = 0x02
	pubKey[1] = 0x01
	s := append([]byte{0x21}, pubKey...)
	s = append(s, byte(script.OpCheckSig))

	got := FromScript(s)
	assert.Equal(t, PubKeyHash, got.Version)
	assert.Equal(t, Hash160(pubKey), got.Data[:])
}

func TestFromScriptRejectsNonStandard(t *testing.T) {
	got := FromScript([]byte{0x01, 0x02, 0x03})
	assert.True(t, got.IsNull())
}
