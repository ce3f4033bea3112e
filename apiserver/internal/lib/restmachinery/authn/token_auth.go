package authn

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/cropline/cropline"
	"github.com/cropline/cropline/apiserver/internal/lib/crypto"
	"github.com/cropline/cropline/apiserver/internal/lib/restmachinery"
	"github.com/pkg/errors"
)

// Authentication and session management live in front of this server; the
// gateway authenticates an administrator, then forwards requests bearing a
// shared token and the administrator's identity. This filter verifies the
// token and makes the forwarded identity available to endpoint logic.
type tokenAuthFilter struct {
	hashedGatewayToken string
}

// NewTokenAuthFilter returns an implementation of the restmachinery.Filter
// interface that authenticates inbound requests using a gateway-issued
// bearer token.
func NewTokenAuthFilter(hashedGatewayToken string) restmachinery.Filter {
	return &tokenAuthFilter{
		hashedGatewayToken: hashedGatewayToken,
	}
}

func (t *tokenAuthFilter) Decorate(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headerValue := r.Header.Get("Authorization")
		if headerValue == "" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&cropline.ErrAuthentication{
					Reason: `"Authorization" header is missing.`,
				},
			)
			return
		}
		headerValueParts := strings.SplitN(headerValue, " ", 2)
		if len(headerValueParts) != 2 || headerValueParts[0] != "Bearer" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&cropline.ErrAuthentication{
					Reason: `"Authorization" header is malformed.`,
				},
			)
			return
		}
		token := headerValueParts[1]

		if crypto.ShortSHA("", token) != t.hashedGatewayToken {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&cropline.ErrAuthentication{
					Reason: "Session not found. Please log in again.",
				},
			)
			return
		}

		actor := r.Header.Get(cropline.ActorHeader)
		if actor == "" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&cropline.ErrAuthentication{
					Reason: `"` + cropline.ActorHeader + `" header is missing.`,
				},
			)
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		handle(w, r.WithContext(ctx))
	}
}

func (t *tokenAuthFilter) writeResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, err := json.Marshal(response)
	if err != nil {
		log.Println(errors.Wrap(err, "error marshaling response body"))
	}
	if _, err := w.Write(responseBody); err != nil {
		log.Println(errors.Wrap(err, "error writing response body"))
	}
}
