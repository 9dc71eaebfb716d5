// Package entitlement decides whether a user may perform a billable meme
// generation and records the consequence of having performed one.
//
// The decision rule is deliberately simple: an active subscription always
// grants access; otherwise the user draws from a free quota initialized on
// first sight. The usage counter mutation is pushed down into the store as a
// single conditional upsert so that concurrent generations for the same user
// cannot lose or double a decrement.
//
// # Usage
//
//	svc := entitlement.NewService(usageStore, subStore, entitlement.Config{FreeQuota: 5}, logger)
//
//	decision, err := svc.CheckEntitlement(ctx, userID)
//	if err != nil { ... }
//	if !decision.Allowed {
//		// direct the user to the pricing page
//	}
//
//	// after the generation succeeded, exactly once:
//	rec, err := svc.RecordGeneration(ctx, userID)
package entitlement
