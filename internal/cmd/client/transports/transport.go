package transports

import "context"

// Document is a decoded JSON object returned by the server.
type Document = map[string]any

// LedgerTransport is the set of operations the CLI issues against a server.
type LedgerTransport interface {
	Earn(ctx context.Context, playerID string, amount int64) (Document, error)
	Spend(ctx context.Context, playerID string, amount int64) (Document, error)
	Balance(ctx context.Context, playerID string) (Document, error)
	History(ctx context.Context, playerID string) (Document, error)
	// RecordSnapshot sends fields as the snapshot body; player_id must be set.
	RecordSnapshot(ctx context.Context, fields map[string]any) (Document, error)
	BestScore(ctx context.Context, playerID string) (Document, error)
	// Report uses the server's default namespace when namespace is empty.
	Report(ctx context.Context, namespace string) (Document, error)
	Health(ctx context.Context) (Document, error)
}
