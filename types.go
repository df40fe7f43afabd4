package blockdn

// HTML is the raw index page of a block-dn server, suitable to render on
// a webpage. No parsing is performed beyond a UTF-8 check.
type HTML string

// BlockFilter is a BIP-157 GCS-encoded compact block filter. The wire
// format carries no height; the filter at index i of a Filters response
// covers height startHeight+i, so callers track heights by counting.
type BlockFilter struct {
	Content []byte
}

// ServerStatus reports the sync state of a block-dn server. Every field
// is required; a status response missing any of them fails to decode.
type ServerStatus struct {
	ChainGenesisHash      string `json:"chain_genesis_hash"`
	ChainName             string `json:"chain_name"`
	BestBlockHeight       uint32 `json:"best_block_height"`
	BestBlockHash         string `json:"best_block_hash"`
	BestFilterHeader      string `json:"best_filter_header"`
	BestFilterHeight      uint32 `json:"best_filter_height"`
	BestSPTweakHeight     uint32 `json:"best_sptweak_height"`
	AllFilesSynced        bool   `json:"all_files_synced"`
	EntriesPerHeaderFile  uint64 `json:"entries_per_header_file"`
	EntriesPerFilterFile  uint32 `json:"entries_per_filter_file"`
	EntriesPerSPTweakFile uint32 `json:"entries_per_sptweak_file"`
}

// FeeEstimate mirrors the estimatesmartfee result of the Core node
// backing the server.
type FeeEstimate struct {
	// FeeRate is the estimated rate in BTC per kvB.
	FeeRate float64 `json:"feerate"`
	// Blocks is the target the estimate was actually computed for.
	Blocks uint32 `json:"blocks"`
}
