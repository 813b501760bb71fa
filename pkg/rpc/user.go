package rpc

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// UserMetadataKey is the request metadata which carries the caller's user
// name. Authentication happens in front of the tracker; this is trusted.
const UserMetadataKey = "x-maint-user"

// WithUser returns a context which sends the given user with outgoing calls.
func WithUser(ctx context.Context, user string) context.Context {
	if user == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, UserMetadataKey, user)
}

// UserFromContext returns the user of an incoming call, or the empty string if
// none was sent.
func UserFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	vals := md.Get(UserMetadataKey)
	if len(vals) == 0 {
		return ""
	}

	return vals[0]
}
