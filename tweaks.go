package blockdn

import (
	"encoding/hex"
	"fmt"
	"iter"
	"slices"

	"github.com/btcsuite/btcd/btcec/v2"
)

// TapTweaks is the BIP-352 silent-payments tweak data for a run of
// consecutive blocks.
type TapTweaks struct {
	StartHeight uint32 `json:"start_height"`
	NumBlocks   uint32 `json:"num_blocks"`

	// Blocks has exactly NumBlocks entries, one per height starting at
	// StartHeight. A nil map means the block contained no eligible
	// transactions. Keys are transaction indexes within the block,
	// values hex-encoded tweak public keys.
	Blocks []map[uint32]string `json:"blocks"`
}

// TweakKey is a single parsed tweak entry.
type TweakKey struct {
	Height  uint32
	TxIndex uint32
	Key     *btcec.PublicKey
}

// Keys returns a restartable sequence over every tweak entry, ordered
// by block and then by transaction index. Key parsing happens lazily,
// one entry at a time: a malformed entry yields a KindDecode error for
// that element and the sequence continues, so callers decide whether to
// skip or abort. CollectKeys and ValidKeys cover the two common
// policies.
func (t *TapTweaks) Keys() iter.Seq2[TweakKey, error] {
	return func(yield func(TweakKey, error) bool) {
		for i, block := range t.Blocks {
			height := t.StartHeight + uint32(i)
			indexes := make([]uint32, 0, len(block))
			for idx := range block {
				indexes = append(indexes, idx)
			}
			slices.Sort(indexes)
			for _, idx := range indexes {
				entry := TweakKey{Height: height, TxIndex: idx}
				key, err := parseTweakKey(block[idx])
				if err != nil {
					err = decodeErr("tweak-key", fmt.Errorf("height %d tx %d: %w", height, idx, err))
					if !yield(entry, err) {
						return
					}
					continue
				}
				entry.Key = key
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}

// CollectKeys parses every tweak entry, failing on the first malformed
// key.
func (t *TapTweaks) CollectKeys() ([]TweakKey, error) {
	var keys []TweakKey
	for key, err := range t.Keys() {
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ValidKeys parses every tweak entry and drops the malformed ones.
func (t *TapTweaks) ValidKeys() []TweakKey {
	var keys []TweakKey
	for key, err := range t.Keys() {
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func parseTweakKey(encoded string) (*btcec.PublicKey, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("tweak key is not hex: %w", err)
	}
	return btcec.ParsePubKey(raw)
}
