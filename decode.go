package blockdn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/btcsuite/btcd/wire"
)

// headerSize is the length of a consensus-encoded block header.
const headerSize = 80

// expectedHeaderListSize matches the server-side cap on a headers
// response and bounds the decode buffer preallocation.
const expectedHeaderListSize = 100_000

// maxFilterSize bounds a single length-prefixed filter read. A filter
// commits to one block, so it can never legitimately exceed the maximum
// block payload.
const maxFilterSize = wire.MaxBlockPayload

// decodeHeaders partitions buf into consecutive 80-byte windows and
// decodes each as a block header. A trailing window shorter than 80
// bytes is dropped without error: the server shards headers into
// fixed-size files, so a short tail means a truncated transfer of the
// final file and the decoded prefix is still usable.
func decodeHeaders(buf []byte) ([]wire.BlockHeader, error) {
	headers := make([]wire.BlockHeader, 0, min(len(buf)/headerSize, expectedHeaderListSize))
	for off := 0; off+headerSize <= len(buf); off += headerSize {
		var header wire.BlockHeader
		if err := header.Deserialize(bytes.NewReader(buf[off : off+headerSize])); err != nil {
			return nil, fmt.Errorf("header at offset %d: %w", off, err)
		}
		headers = append(headers, header)
	}
	return headers, nil
}

// decodeFilters reads length-prefixed filter blobs from the front of
// buf until a read comes up short. The first failed read is the
// end-of-stream signal, not an error: the server returns fewer filters
// than the cap near the chain tip, and trailing garbage cannot be told
// apart from a shortened response. The result is the maximal prefix of
// complete blobs; empty is success.
func decodeFilters(buf []byte) []BlockFilter {
	var filters []BlockFilter
	r := bytes.NewReader(buf)
	for {
		blob, err := wire.ReadVarBytes(r, 0, maxFilterSize, "filter")
		if err != nil {
			return filters
		}
		filters = append(filters, BlockFilter{Content: blob})
	}
}

// decodeBlock deserializes one full consensus-encoded block. Unlike the
// list decoders there is no framing to recover; any truncation or
// malformed encoding fails the whole decode.
func decodeBlock(buf []byte) (*wire.MsgBlock, error) {
	var block wire.MsgBlock
	if err := block.Deserialize(bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	return &block, nil
}

var statusFields = []string{
	"chain_genesis_hash",
	"chain_name",
	"best_block_height",
	"best_block_hash",
	"best_filter_header",
	"best_filter_height",
	"best_sptweak_height",
	"all_files_synced",
	"entries_per_header_file",
	"entries_per_filter_file",
	"entries_per_sptweak_file",
}

// decodeStatus decodes a status response, requiring every ServerStatus
// field to be present. encoding/json leaves missing keys at their zero
// value, so presence is checked against the raw object first.
func decodeStatus(buf []byte) (*ServerStatus, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, err
	}
	for _, field := range statusFields {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("status response missing %q", field)
		}
	}
	var status ServerStatus
	if err := json.Unmarshal(buf, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// decodeTweaks decodes tweak data and enforces that the block list
// length matches the announced count. Individual keys stay as hex
// strings here; see TapTweaks.Keys for the lazy conversion.
func decodeTweaks(buf []byte) (*TapTweaks, error) {
	var tweaks TapTweaks
	if err := json.Unmarshal(buf, &tweaks); err != nil {
		return nil, err
	}
	if uint32(len(tweaks.Blocks)) != tweaks.NumBlocks {
		return nil, fmt.Errorf("tweak data has %d blocks, announced %d", len(tweaks.Blocks), tweaks.NumBlocks)
	}
	return &tweaks, nil
}

func decodeFee(buf []byte) (*FeeEstimate, error) {
	var fee FeeEstimate
	if err := json.Unmarshal(buf, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

func decodeHTML(buf []byte) (HTML, error) {
	if !utf8.Valid(buf) {
		return "", errors.New("index page is not valid UTF-8")
	}
	return HTML(buf), nil
}
