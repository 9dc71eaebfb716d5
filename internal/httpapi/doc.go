// Package httpapi is the HTTP surface of the service: a chi router exposing
// authentication, meme generation, meme history, checkout, billing webhooks,
// admin listings and health probes.
//
// Responses use a uniform JSON envelope. Domain errors are mapped onto HTTP
// status codes centrally in response.go; handlers return errors instead of
// writing status codes themselves.
package httpapi
