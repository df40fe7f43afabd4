// Package blockdn is a typed client for block-dn servers, which publish
// Bitcoin chain metadata, consensus-encoded block headers, BIP-157
// compact block filters and BIP-352 silent-payments tweak data over
// plain HTTP GET routes.
//
// The client performs no chain validation. It decodes what the server
// returns and surfaces everything else as an error.
package blockdn
