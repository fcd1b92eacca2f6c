// Package client provides the `coinlog` command-line client.
//
// Every command talks to the coinlog.v1.LedgerService gRPC endpoint. The
// address is read from COINLOG_GRPC (default 127.0.0.1:50051).
//
// Usage
//
//	coinlog player earn 1001 100
//	coinlog player spend 1001 50
//	coinlog player balance 1001
//	coinlog player history 1001
//	coinlog player snapshot 2002 --data '{"coins":55,"level":4}'
//	coinlog player best 2002
//	coinlog scores report --namespace PlayerData
//
// Responses are printed as indented JSON.
package client
