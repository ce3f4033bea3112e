package authn

import "context"

type actorContextKey struct{}

// ContextWithActor returns a context.Context that has been augmented with
// the identity of the authenticated actor.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the identity of the authenticated actor from the
// provided context.Context and returns it.
func ActorFromContext(ctx context.Context) string {
	actor, ok := ctx.Value(actorContextKey{}).(string)
	if !ok {
		return ""
	}
	return actor
}
