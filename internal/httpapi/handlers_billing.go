package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/memeforge/memeforge/internal/subscription"
)

// maxWebhookSize bounds webhook payloads at 1 MiB.
const maxWebhookSize = 1 << 20

type checkoutRequest struct {
	Plan string `json:"plan"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}

	link, err := a.billing.CreateCheckout(r.Context(), identity.UserID, identity.Email, subscription.PlanType(req.Plan))
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse{CheckoutURL: link.URL})
}

// handleBillingWebhook passes the raw body and signature to the billing
// service. The body must reach verification unmodified, so it is read before
// any parsing.
func (a *API) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookSize))
	if err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}

	if err := a.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Paddle-Signature")); err != nil {
		respondError(w, r, a.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
