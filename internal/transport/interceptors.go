package transport

import (
	"context"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Credential is the bearer token a request was sent with, plus the epoch of
// the session that issued it.
type Credential struct {
	Token string
	Epoch uint64
}

// CredentialSource supplies the current credential, if any.
type CredentialSource interface {
	Credential() (Credential, bool)
}

type contextKey int

const (
	credentialKey contextKey = iota
	requestIDKey
)

// CredentialFrom returns the credential attached by BearerAuth.
func CredentialFrom(ctx context.Context) (Credential, bool) {
	cred, ok := ctx.Value(credentialKey).(Credential)
	return cred, ok
}

// WithRequestID makes RequestID use id instead of a fresh ULID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// BearerAuth sets the Authorization header from source. Non-public requests
// without a credential fail with an unauthorized error before any network
// I/O.
func BearerAuth(source CredentialSource) RequestInterceptor {
	return func(req *http.Request, call *Request) (*http.Request, error) {
		if call.Public {
			return req, nil
		}
		cred, ok := source.Credential()
		if !ok || cred.Token == "" {
			return nil, types.UnauthorizedError("not logged in")
		}
		req.Header.Set("Authorization", "Bearer "+cred.Token)
		return req.WithContext(context.WithValue(req.Context(), credentialKey, cred)), nil
	}
}

// RequestID sets X-Request-ID on every request.
func RequestID() RequestInterceptor {
	return func(req *http.Request, call *Request) (*http.Request, error) {
		if req.Header.Get(HeaderRequestID) != "" {
			return req, nil
		}
		id, _ := req.Context().Value(requestIDKey).(string)
		if id == "" {
			id = ulid.Make().String()
		}
		req.Header.Set(HeaderRequestID, id)
		return req, nil
	}
}

// UnauthorizedHook calls handler with the request's credential whenever the
// server answers 401 to an authenticated request.
func UnauthorizedHook(handler func(Credential)) ResponseInterceptor {
	return func(resp *http.Response) {
		if resp.StatusCode != http.StatusUnauthorized || resp.Request == nil {
			return
		}
		if cred, ok := CredentialFrom(resp.Request.Context()); ok {
			handler(cred)
		}
	}
}
