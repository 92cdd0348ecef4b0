package auth

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/logging"
)

// Verifier is the part of TokenCodec the Resolver depends on.
type Verifier interface {
	Verify(token string) Result
}

// Resolver is the single authorization gate: it turns an inbound request
// into a verified Identity or an unauthenticated Result.
type Resolver struct {
	verifier Verifier
	logger   logging.Logger
}

func NewResolver(v Verifier, l logging.Logger) *Resolver {
	return &Resolver{verifier: v, logger: l.With("module", "auth_resolver")}
}

// Resolve never fails loudly. A missing cookie short-circuits without
// touching the verifier.
func (r *Resolver) Resolve(req *http.Request) Result {
	token, ok := ExtractToken(req)
	if !ok {
		return Invalid(common.ErrorUnauthorized)
	}

	res := r.verifier.Verify(token)
	if !res.OK() {
		r.logger.Debug(req.Context(), "session rejected", "reason", res.Reason())
	}
	return res
}

type ctxKey struct{}

// WithIdentity stores a verified identity on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
