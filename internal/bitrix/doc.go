// Package bitrix implements a REST client for Bitrix-style task-tracker portals.
//
// # Client
//
// [Client] wraps one portal account, authenticated either through an inbound
// webhook (token embedded in the base URL) or an OAuth bearer token.
// Two clients are constructed per migration, one for the source account and
// one for the destination account, and both share a single [rate.Limiter] so
// that reads and writes together never exceed the portal's request allowance.
//
// # Throughput
//
// The shared limiter admits one request at a time with a fixed minimum
// spacing (one per second by default). Every REST call blocks on the limiter
// before dispatch; transport and remote errors propagate to the caller
// unchanged and are never retried here.
//
// Binary downloads of attachment content hit a direct content URL rather
// than the REST API, so [Client.Download] deliberately bypasses the limiter
// and the REST timeout.
//
// # Envelopes
//
// Responses arrive wrapped in a result envelope whose inner shape varies per
// method: task lists under result.tasks, single tasks under result.task,
// comment lists directly under result, and disk operations under result.file.
// Remote application errors carry error/error_description fields and surface
// as [shared.ErrAPIRequest].
package bitrix
