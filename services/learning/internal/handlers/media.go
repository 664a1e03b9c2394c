package handlers

import (
	"net/http"

	"github.com/example/learning-platform/internal/platform/api"
	"github.com/example/learning-platform/internal/platform/signing"
)

// PlaybackRedirect handles GET /media/play. It is the delivery side of the
// signed links produced at lesson open: the signature is the authorization,
// so the route carries no token middleware. Valid links redirect to the
// underlying media URL; tampered or expired ones are refused.
func PlaybackRedirect(signer *signing.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL, uid, exp, sig, err := signing.ExtractSigned(r.URL.Query())
		if err != nil {
			api.BadRequest(w, "INVALID_SIGNATURE", "missing signed params", "", nil)
			return
		}
		if !signer.Verify(rawURL, uid, exp, sig) {
			api.Forbidden(w, "INVALID_SIGNATURE", "signature invalid or expired", "")
			return
		}
		http.Redirect(w, r, rawURL, http.StatusFound)
	}
}
