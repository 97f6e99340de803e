// Package loader provides lazy, shared initialization of a search engine.
//
// A Loader calls its engine.LoadFunc at most once per successful
// initialization. Concurrent callers that arrive while a load is in flight
// wait on that same load instead of starting another. Once a load succeeds
// the engine is cached for the lifetime of the Loader and returned
// immediately by every later Get.
//
// A failed load is not cached. Every caller waiting on the failed attempt
// receives the loader's error unchanged, the Loader returns to the
// uninitialized state, and the next Get starts a fresh attempt. The Loader
// never retries on its own.
//
// State transitions:
//
//	Uninitialized -> Initializing -> Ready
//	Initializing  -> Uninitialized (load failed)
//
// Ready is terminal.
package loader
