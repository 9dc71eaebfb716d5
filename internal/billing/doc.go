// Package billing relays payment provider events into subscription records
// and creates hosted checkout sessions.
//
// The provider abstraction keeps the payment vendor swappable; the shipped
// implementation talks to Paddle. Webhook events are normalized into a small
// internal event type before they touch the subscription store, so the store
// never sees provider-specific shapes.
package billing
