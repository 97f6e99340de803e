// Package mock provides test doubles for the engine package.
//
// MockEngine records every StartSearch, StopSearch and DisposeSearch call
// and replays a fixed script of events to the session's sink. CountingLoader
// is a LoadFunc source that counts how many times it was invoked and can be
// held open with a gate to simulate slow initialization.
//
// # Usage in Tests
//
//	eng := mock.NewMockEngine().WithScript(
//	    mock.Progress("s1", 1000, 3, 500, 3),
//	    mock.Result("s1", "ABCD1234", 42.5),
//	)
//	loads := mock.NewCountingLoader(eng)
//	l, _ := loader.New(loads.Load)
//
//	// ... drive the engine ...
//	eng.Wait()
//	calls := eng.Calls()
package mock
