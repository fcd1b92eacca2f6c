// Package ledgersvc implements the coin ledger: earn and spend append signed
// transaction records to a player's log; balance and history fold over it.
//
// Usage:
//
//	svc := ledgersvc.New(rt, logger)
//	_, _ = svc.Earn(ctx, "1001", 100)
//	_, _ = svc.Spend(ctx, "1001", 50)
//	b, _ := svc.Balance(ctx, "1001") // b.Balance == 50
package ledgersvc
