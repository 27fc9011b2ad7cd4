// Package api is the client side of the DocVault REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with one method
//     per resource-action pair: authentication, documents, categories and
//     subcategories.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the bearer
//     credential, tags requests with an X-Request-ID and normalizes every
//     non-2xx response into a single *Error shape.
//
// # Error Handling
//
// Failures fall into three kinds that callers can tell apart with errors.Is
// and errors.As:
//
//   - ErrUnauthorized: the server answered 401; the credential is no longer valid.
//   - ErrUnavailable: no response at all (connection refused, DNS, reset).
//   - *Error: any other non-2xx answer, carrying the server's message.
//
// Each call makes exactly one attempt. There is no retry, backoff or
// client-imposed timeout; bound a call with the context if needed.
package api
