// Package coinlogv1 defines the coinlog.v1.LedgerService gRPC contract.
//
// Every method takes and returns a google.protobuf.Struct whose shape
// mirrors the HTTP API:
//
//	Earn, Spend      {"player_id": "1001", "amount": 100}
//	Balance, History {"player_id": "1001"}
//	RecordSnapshot   {"player_id": "2002", "coins": 55, ...}
//	BestScore        {"player_id": "2002"}
//	Report           {"namespace": "PlayerData"} (namespace optional)
//	Health           {}
package coinlogv1
