package middleware

import "github.com/aretw0/libretto/pkg/ports"

// Middleware allows wrapping an OutputStore to add behavior.
type Middleware func(ports.OutputStore) ports.OutputStore

// Chain applies middlewares so the first one listed is the outermost.
func Chain(store ports.OutputStore, mws ...Middleware) ports.OutputStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
