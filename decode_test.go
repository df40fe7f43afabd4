package blockdn

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader(i byte) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{i},
		MerkleRoot: chainhash.Hash{0xaa, i},
		Timestamp:  time.Unix(1231006505+int64(i)*600, 0),
		Bits:       0x1d00ffff,
		Nonce:      uint32(i) * 7,
	}
}

func encodeHeader(t *testing.T, header *wire.BlockHeader) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	require.Equal(t, headerSize, buf.Len())
	return buf.Bytes()
}

func headerList(t *testing.T, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	for i := range n {
		buf.Write(encodeHeader(t, testHeader(byte(i))))
	}
	return buf.Bytes()
}

func TestDecodeHeadersRoundTrip(t *testing.T) {
	raw := headerList(t, 5)
	headers, err := decodeHeaders(raw)
	require.NoError(t, err)
	require.Len(t, headers, 5)
	for i, header := range headers {
		assert.Equal(t, raw[i*headerSize:(i+1)*headerSize], encodeHeader(t, &header))
	}
}

func TestDecodeHeadersTrailingPartial(t *testing.T) {
	raw := headerList(t, 3)
	for _, extra := range []int{1, 40, headerSize - 1} {
		headers, err := decodeHeaders(append(raw, make([]byte, extra)...))
		require.NoError(t, err)
		assert.Len(t, headers, 3)
	}
}

func TestDecodeHeadersEmpty(t *testing.T) {
	headers, err := decodeHeaders(nil)
	require.NoError(t, err)
	assert.Empty(t, headers)

	// A body shorter than one header decodes to nothing as well.
	headers, err = decodeHeaders(make([]byte, headerSize-1))
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func filterList(t *testing.T, blobs ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, blob := range blobs {
		require.NoError(t, wire.WriteVarBytes(&buf, 0, blob))
	}
	return buf.Bytes()
}

func TestDecodeFilters(t *testing.T) {
	blobs := [][]byte{
		{0x01},
		{0xde, 0xad, 0xbe, 0xef},
		bytes.Repeat([]byte{0x42}, 300),
	}
	filters := decodeFilters(filterList(t, blobs...))
	require.Len(t, filters, len(blobs))
	for i, filter := range filters {
		assert.Equal(t, blobs[i], filter.Content)
	}
}

func TestDecodeFiltersEmpty(t *testing.T) {
	assert.Empty(t, decodeFilters(nil))
}

// A blob whose length prefix announces more bytes than remain ends the
// stream; everything before it still decodes.
func TestDecodeFiltersTruncatedTail(t *testing.T) {
	raw := filterList(t, []byte{0x01, 0x02}, []byte{0x03})
	var tail bytes.Buffer
	require.NoError(t, wire.WriteVarInt(&tail, 0, 100))
	tail.Write(make([]byte, 10))

	filters := decodeFilters(append(raw, tail.Bytes()...))
	require.Len(t, filters, 2)
	assert.Equal(t, []byte{0x01, 0x02}, filters[0].Content)
	assert.Equal(t, []byte{0x03}, filters[1].Content)
}

// A prefix exceeding the per-filter bound is malformed, not short; it
// ends the stream the same way.
func TestDecodeFiltersOversizedPrefix(t *testing.T) {
	raw := filterList(t, []byte{0x0a})
	var tail bytes.Buffer
	require.NoError(t, wire.WriteVarInt(&tail, 0, uint64(maxFilterSize)+1))

	filters := decodeFilters(append(raw, tail.Bytes()...))
	require.Len(t, filters, 1)
	assert.Equal(t, []byte{0x0a}, filters[0].Content)
}

func testBlock(t *testing.T) (*wire.MsgBlock, []byte) {
	t.Helper()
	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		SignatureScript:  []byte{0x04, 0xff, 0xff, 0x00, 0x1d},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	coinbase.AddTxOut(&wire.TxOut{Value: 50_0000_0000, PkScript: []byte{0x51}})

	block := &wire.MsgBlock{
		Header:       *testHeader(9),
		Transactions: []*wire.MsgTx{coinbase},
	}
	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))
	return block, buf.Bytes()
}

func TestDecodeBlock(t *testing.T) {
	want, raw := testBlock(t)
	block, err := decodeBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, want.BlockHash(), block.BlockHash())
	assert.Len(t, block.Transactions, 1)
}

func TestDecodeBlockTruncated(t *testing.T) {
	_, raw := testBlock(t)
	_, err := decodeBlock(raw[:len(raw)-5])
	assert.Error(t, err)

	_, err = decodeBlock(nil)
	assert.Error(t, err)
}

const statusJSON = `{
	"chain_genesis_hash": "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f",
	"chain_name": "mainnet",
	"best_block_height": 900000,
	"best_block_hash": "00000000000000000000a3b1c2d3e4f5061728394a5b6c7d8e9f0a1b2c3d4e5f",
	"best_filter_header": "1f2e3d4c5b6a798800000000000000000000000000000000000000000000feed",
	"best_filter_height": 899990,
	"best_sptweak_height": 899980,
	"all_files_synced": true,
	"entries_per_header_file": 100000,
	"entries_per_filter_file": 2000,
	"entries_per_sptweak_file": 2000
}`

func TestDecodeStatus(t *testing.T) {
	status, err := decodeStatus([]byte(statusJSON))
	require.NoError(t, err)
	assert.Equal(t, "mainnet", status.ChainName)
	assert.Equal(t, uint32(900000), status.BestBlockHeight)
	assert.Equal(t, uint32(899990), status.BestFilterHeight)
	assert.Equal(t, uint32(899980), status.BestSPTweakHeight)
	assert.True(t, status.AllFilesSynced)
	assert.Equal(t, uint64(100000), status.EntriesPerHeaderFile)
}

func TestDecodeStatusMissingField(t *testing.T) {
	var full map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(statusJSON), &full))

	for _, field := range statusFields {
		partial := make(map[string]json.RawMessage, len(full))
		for k, v := range full {
			if k != field {
				partial[k] = v
			}
		}
		raw, err := json.Marshal(partial)
		require.NoError(t, err)
		_, err = decodeStatus(raw)
		assert.ErrorContains(t, err, field)
	}
}

func TestDecodeStatusMistyped(t *testing.T) {
	mistyped := []byte(`{
		"chain_genesis_hash": "00",
		"chain_name": "mainnet",
		"best_block_height": "not a number",
		"best_block_hash": "00",
		"best_filter_header": "00",
		"best_filter_height": 1,
		"best_sptweak_height": 1,
		"all_files_synced": true,
		"entries_per_header_file": 100000,
		"entries_per_filter_file": 2000,
		"entries_per_sptweak_file": 2000
	}`)
	_, err := decodeStatus(mistyped)
	assert.Error(t, err)
}

func TestDecodeTweaks(t *testing.T) {
	raw := []byte(`{
		"start_height": 800000,
		"num_blocks": 3,
		"blocks": [null, {"0": "ab", "7": "cd"}, null]
	}`)
	tweaks, err := decodeTweaks(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(800000), tweaks.StartHeight)
	require.Len(t, tweaks.Blocks, 3)
	assert.Nil(t, tweaks.Blocks[0])
	assert.Equal(t, map[uint32]string{0: "ab", 7: "cd"}, tweaks.Blocks[1])
}

func TestDecodeTweaksCountMismatch(t *testing.T) {
	raw := []byte(`{"start_height": 0, "num_blocks": 5, "blocks": [null, null]}`)
	_, err := decodeTweaks(raw)
	assert.ErrorContains(t, err, "announced 5")
}

func TestDecodeHTML(t *testing.T) {
	html, err := decodeHTML([]byte("<html><body>block-dn</body></html>"))
	require.NoError(t, err)
	assert.Equal(t, HTML("<html><body>block-dn</body></html>"), html)

	_, err = decodeHTML([]byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}
