package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EngineChecker verifies the similarity engine scores a known pair correctly.
type EngineChecker interface {
	SelfTest(ctx context.Context) error
}
