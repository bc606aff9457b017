// Package dynamolocal manages the lifecycle of a locally-run
// DynamoDB-compatible emulator: it downloads and extracts the emulator
// distribution on demand, launches the Java process bound to a port, tracks
// running instances in a port-keyed registry, and stops or relaunches them.
//
// # Basic Usage
//
//	import "github.com/giantswarm/dynamolocal"
//
//	ctx := context.Background()
//
//	mgr := dynamolocal.NewManager()
//	defer mgr.Close()
//
//	inst, err := mgr.Launch(ctx, 8000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := inst.WaitReady(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Point an AWS SDK client at inst.Endpoint() ...
//
//	if err := mgr.Stop(ctx, 8000); err != nil {
//	    log.Fatal(err)
//	}
//
// # Persistence
//
// By default the emulator keeps all tables in memory. Pass WithDBPath to
// persist to a directory instead:
//
//	inst, err := mgr.Launch(ctx, 8000, dynamolocal.WithDBPath("/var/data/ddb"))
//
// # Multiple managers
//
// Managers are independent: each owns its configuration and its registry of
// instances, so parallel tests can run isolated managers with different
// install paths. Close stops every non-detached instance a manager launched.
package dynamolocal
