package internal

import "context"

// Configurer is implemented by every component, envs is a flat map of
// environment variables; missing keys leave the current value alone
type Configurer interface {
	Configure(envs map[string]string) error
}

// Opener establishes long-lived resources (connections, listeners)
type Opener interface {
	Open(ctx context.Context) error
	Closer
}

type Closer interface {
	Close(ctx context.Context) error
}

// Clearer removes all of the data held by a component, it's only used
// to reset state between tests
type Clearer interface {
	Clear(ctx context.Context) error
}

// Component is the lifecycle shared by the store, logic and service
type Component interface {
	Configurer
	Opener
}
