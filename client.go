package blockdn

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/go-resty/resty/v2"
)

// Client queries a block-dn server. It holds no mutable state after
// Build, so one Client may serve any number of goroutines; every method
// performs exactly one blocking round trip bounded by the configured
// timeout and returns either a fully decoded value or an *Error.
type Client struct {
	endpoint Endpoint
	timeout  time.Duration
	http     *resty.Client
}

// get performs one GET and returns the raw response body. Connection
// faults, timeouts and non-success statuses all surface as KindRequest.
func (c *Client) get(ctx context.Context, op, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, requestErr(op, err)
	}
	if resp.IsError() {
		return nil, requestErr(op, fmt.Errorf("server returned %s", resp.Status()))
	}
	return resp.Body(), nil
}

// IndexHTML returns the root HTML page of the server.
func (c *Client) IndexHTML(ctx context.Context) (HTML, error) {
	body, err := c.get(ctx, "index", c.endpoint.base)
	if err != nil {
		return "", err
	}
	html, err := decodeHTML(body)
	if err != nil {
		return "", decodeErr("index", err)
	}
	return html, nil
}

// Status returns the sync state of the server.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	body, err := c.get(ctx, "status", c.endpoint.AppendRoute("status"))
	if err != nil {
		return nil, err
	}
	status, err := decodeStatus(body)
	if err != nil {
		return nil, decodeErr("status", err)
	}
	return status, nil
}

// BlockHeaders returns up to 100,000 consecutive block headers starting
// at startHeight. An empty or unsynced server yields an empty slice.
func (c *Client) BlockHeaders(ctx context.Context, startHeight uint32) ([]wire.BlockHeader, error) {
	route := c.endpoint.AppendRoute(fmt.Sprintf("headers/%d", startHeight))
	body, err := c.get(ctx, "headers", route)
	if err != nil {
		return nil, err
	}
	headers, err := decodeHeaders(body)
	if err != nil {
		return nil, decodeErr("headers", err)
	}
	return headers, nil
}

// Filters returns up to 2,000 compact block filters starting at
// startHeight. The filter at index i covers height startHeight+i.
func (c *Client) Filters(ctx context.Context, startHeight uint32) ([]BlockFilter, error) {
	route := c.endpoint.AppendRoute(fmt.Sprintf("filters/%d", startHeight))
	body, err := c.get(ctx, "filters", route)
	if err != nil {
		return nil, err
	}
	return decodeFilters(body), nil
}

// Tweaks returns silent-payments tweak data for up to 2,000 blocks
// starting at startHeight. Keys come back as hex strings; use
// TapTweaks.Keys, CollectKeys or ValidKeys to parse them.
func (c *Client) Tweaks(ctx context.Context, startHeight uint32) (*TapTweaks, error) {
	route := c.endpoint.AppendRoute(fmt.Sprintf("sp/tweak-data/%d", startHeight))
	body, err := c.get(ctx, "tweaks", route)
	if err != nil {
		return nil, err
	}
	tweaks, err := decodeTweaks(body)
	if err != nil {
		return nil, decodeErr("tweaks", err)
	}
	return tweaks, nil
}

// Block returns the full block with the given hash.
func (c *Client) Block(ctx context.Context, hash *chainhash.Hash) (*wire.MsgBlock, error) {
	route := c.endpoint.AppendRoute("block/" + hash.String())
	body, err := c.get(ctx, "block", route)
	if err != nil {
		return nil, err
	}
	block, err := decodeBlock(body)
	if err != nil {
		return nil, decodeErr("block", err)
	}
	return block, nil
}

// EstimateSmartFee returns the fee rate the server's backing node
// expects to confirm a transaction within confTarget blocks.
func (c *Client) EstimateSmartFee(ctx context.Context, confTarget uint32) (*FeeEstimate, error) {
	route := c.endpoint.AppendRoute(fmt.Sprintf("fee/%d", confTarget))
	body, err := c.get(ctx, "fee", route)
	if err != nil {
		return nil, err
	}
	fee, err := decodeFee(body)
	if err != nil {
		return nil, decodeErr("fee", err)
	}
	return fee, nil
}
