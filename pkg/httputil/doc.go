// Package httputil provides the HTTP plumbing shared by the image provider
// clients.
//
// # Overview
//
//   - [Do]: sends a request, reports it to the observability hooks and maps
//     transport failures and non-2xx responses to coded errors
//   - [CheckStatus]: the status → error code mapping on its own
//   - [Poll]: calls a status check at a fixed interval until it reports done
//
// # Status mapping
//
//	401        → UNAUTHORIZED
//	403        → FORBIDDEN
//	404        → NOT_FOUND
//	429        → RATE_LIMITED (with Retry-After when present)
//	5xx        → NETWORK_ERROR
//	other 4xx  → PROVIDER_FAILED
//
// # Polling
//
// [Poll] never gives up on its own. It waits the same interval between
// every check and stops only when the check reports done, returns an error,
// or the context is cancelled. Requests are never retried.
package httputil
