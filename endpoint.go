package blockdn

import "net/netip"

// Endpoint is the base URL of a block-dn server. Construct one from the
// well-known instances below, FromCustomDomain or FromSocketAddress.
type Endpoint struct {
	base string
}

var (
	// BlockDNOrg is the original block-dn server hosted at block-dn.org.
	BlockDNOrg = Endpoint{base: "https://block-dn.org"}

	// TaprootDN serves taproot-specific filters, hosted by 2140.dev.
	TaprootDN = Endpoint{base: "https://taprootdn.xyz"}
)

// FromCustomDomain points the client at a self-hosted block-dn instance.
// The URL is used as-is, without a trailing slash.
func FromCustomDomain(url string) Endpoint {
	return Endpoint{base: url}
}

// FromSocketAddress points the client at an instance reachable by raw
// IP and port, formatted as https://<ip>:<port>.
func FromSocketAddress(addr netip.AddrPort) Endpoint {
	return Endpoint{base: "https://" + addr.String()}
}

// AppendRoute joins the endpoint and a route with exactly one slash.
func (e Endpoint) AppendRoute(route string) string {
	return e.base + "/" + route
}
