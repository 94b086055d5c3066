package auth

import "context"

type contextKey string

const (
	SubjectKey   contextKey = "subject"
	NamespaceKey contextKey = "namespace"
)

// WithSubject injects the token subject into the request context
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectKey, subject) //to avoid collisions - use custom key type
}

// GetSubject retrieves the token subject from the request context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}

// WithNamespace injects the namespace taken from the request path into the context
func WithNamespace(ctx context.Context, namespace string) context.Context {
	return context.WithValue(ctx, NamespaceKey, namespace)
}

// GetNamespace retrieves the namespace from the request context
func GetNamespace(ctx context.Context) (string, bool) {
	namespace, ok := ctx.Value(NamespaceKey).(string)
	return namespace, ok
}
