// Package migrate implements the task migration pipeline between two portal
// accounts.
//
// The core abstraction is [Engine], which drives each source task through a
// fixed per-record pipeline: skip when the ledger already has it, enrich
// with the extended fields the bulk list omits, copy attachment content,
// map fields and workflow stage into the destination group, create the
// destination task, replicate comments, and checkpoint. A failure anywhere
// in the pipeline abandons only that record; the batch continues.
//
// Records are processed strictly one at a time in input order. Total
// throughput is bounded by the REST limiter the two portal clients share,
// and ordering of comments and attachments within a record follows source
// order.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package migrate
