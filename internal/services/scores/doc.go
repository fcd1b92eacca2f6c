// Package scoresvc records player state snapshots and reports each player's
// best score, the maximum of a tracked numeric field (or CEL expression)
// across their snapshots.
//
// Usage:
//
//	svc := scoresvc.New(rt, logger)
//	snap, _ := rt.Validator().Snapshot([]byte(`{"player_id":"2002","coins":55}`))
//	_, _ = svc.RecordSnapshot(ctx, snap)
//	rep, _ := svc.Report(ctx, "") // rep.Scores["2002"] == 55
package scoresvc
