package keycodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtumproject/neutron-core/address"
)

func contractAddr() address.Address {
	return address.New(address.Evm, []byte{0xAA, 0xBB, 0xCC})
}

func TestBytecodeKeyLayout(t *testing.T) {
	a := contractAddr()
	k := Bytecode(a)
	require.Len(t, k, len("state_")+1+20+1)
	assert.Equal(t, "state_", string(k[:6]))
	assert.Equal(t, byte(address.Evm), k[6])
	assert.Equal(t, a.Data[:], k[7:27])
	assert.Equal(t, byte('c'), k[len(k)-1])
}

func TestStateKeyShortVsLong(t *testing.T) {
	a := contractAddr()
	short := State(a, []byte("balance"))
	// "state_" + version + addr + '_' + '_' + "balance"
	assert.Equal(t, byte('_'), short[27])
	assert.Equal(t, byte('_'), short[28])
	assert.Equal(t, "balance", string(short[29:]))

	long := make([]byte, 32)
	for i := range long {
		long[i] = byte(i)
	}
	longKey := State(a, long)
	// prefix(27) + '_' separator + 32-byte hashed tail, no extra '_' marker.
	assert.Len(t, longKey, 27+1+32)
}

func TestStateKeyBoundary(t *testing.T) {
	a := contractAddr()
	k31 := make([]byte, 31)
	k32 := make([]byte, 32)
	short := State(a, k31)
	long := State(a, k32)
	// 31-byte key: prefix(27) + '_' + '_' + 31 bytes = 60
	assert.Len(t, short, 27+1+1+31)
	// 32-byte key: prefix(27) + '_' + 32-byte hash, no '_' marker = 60
	assert.Len(t, long, 27+1+32)
}

func TestAALKeyLayout(t *testing.T) {
	a := contractAddr()
	k := AAL(a)
	assert.Equal(t, byte('a'), k[len(k)-1])
	assert.Equal(t, Bytecode(a)[:26], k[:26])
}

func TestChangelogKeysShareLayout(t *testing.T) {
	a := contractAddr()
	key := []byte("slot1")
	u := UpdatedKey(a, key)
	r := RawKey(a, key)
	o := OldestIterator(a, key)

	// UpdatedKey/RawKey/OldestIterator are the same byte layout (spec §4.2:
	// raw-key uses "same prefix as updated-key"), so all three alias.
	assert.Equal(t, u, r)
	assert.Equal(t, u, o)
	// version||addr||'_'||key
	assert.Equal(t, byte('_'), u[21])
	assert.Equal(t, "slot1", string(u[22:]))
}

func TestCurrentIteratorKey(t *testing.T) {
	a := contractAddr()
	k := CurrentIterator(a, []byte("slot1"))
	// version(1) + addr(20) + '_' + 'I' + '_' + key
	assert.Equal(t, byte('I'), k[22])
	assert.Equal(t, "slot1", string(k[24:]))
}

func TestEventHeightKeyBigEndianOrdering(t *testing.T) {
	a := contractAddr()
	k1 := EventHeight(1, a)
	k2 := EventHeight(2, a)
	k256 := EventHeight(256, a)

	assert.True(t, string(k1) < string(k2))
	assert.True(t, string(k2) < string(k256))
}

func TestEventResultKeyTruncatesVoutToByte(t *testing.T) {
	var txid [32]byte
	k := EventResult(5, txid, 300) // 300 truncates to 300%256=44
	assert.Equal(t, byte(300%256), k[len(k)-1])
}

func TestEventResultPrefixBoundsHeight(t *testing.T) {
	p1 := EventResultPrefix(10)
	var txid [32]byte
	full := EventResult(10, txid, 0)
	assert.Equal(t, p1, full[:len(p1)])
}
