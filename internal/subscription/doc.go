// Package subscription holds the subscription records written by the billing
// webhook relay and read by the entitlement service, plus the plan catalog
// that maps sellable plans to billing provider price IDs.
//
// The store does not enforce uniqueness of active subscriptions per user;
// readers must tolerate zero, one, or several active rows. See the
// entitlement package for how ambiguity is resolved.
package subscription
