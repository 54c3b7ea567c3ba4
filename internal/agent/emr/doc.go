// Package emr contains the client for the remote EMR backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Ping,
//     SyncVitals, and the SMS login pair SendCode/VerifyCode.
//  2. A concrete HTTP/JSON implementation (see RESTClient) that attaches the
//     static API key header, parses both full (2xx) and partial (207 Multi-
//     Status) sync responses into per-item results, and maps transport and
//     auth failures to sentinel errors.
//  3. The wire types for the sync endpoint (SyncRequest, VitalPayload,
//     SyncResponse) and a converter from stored readings.
//
// # Idempotency
//
// Every VitalPayload carries the client-generated reading id. Resubmitting a
// known id returns it under Results.Duplicates, which callers treat the same
// as a fresh insert.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrPhoneNotRegistered,
// ErrInvalidCode.
package emr
