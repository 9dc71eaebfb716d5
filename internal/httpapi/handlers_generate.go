package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/memeforge/memeforge/internal/caption"
	"github.com/memeforge/memeforge/internal/subscription"
)

// maxImageSize bounds uploaded template images at 10 MiB.
const maxImageSize = 10 << 20

type generateResponse struct {
	TopText    string `json:"topText"`
	BottomText string `json:"bottomText"`
	Reason     string `json:"reason"`
	Remaining  int    `json:"remaining"`
}

type usageResponse struct {
	FreeRemaining  int                   `json:"freeRemaining"`
	TotalGenerated int                   `json:"totalGenerated"`
	Subscription   *subscriptionResponse `json:"subscription,omitempty"`
}

type subscriptionResponse struct {
	PlanType  string    `json:"planType"`
	Status    string    `json:"status"`
	PeriodEnd time.Time `json:"periodEnd"`
}

// handleUsage serves the dashboard: current counters plus subscription info.
func (a *API) handleUsage(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	rec, err := a.entitlements.Usage(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	resp := usageResponse{
		FreeRemaining:  rec.FreeRemaining,
		TotalGenerated: rec.TotalGenerated,
	}

	subs, err := a.subs.ActiveByUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}
	if len(subs) > 0 {
		active := subscription.Latest(subs)
		resp.Subscription = &subscriptionResponse{
			PlanType:  string(active.PlanType),
			Status:    string(active.Status),
			PeriodEnd: active.PeriodEnd,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleGenerate runs the full generation flow: entitlement check, caption
// generation, usage recording.
func (a *API) handleGenerate(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	image, mimeType, err := readImageUpload(r)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	decision, err := a.entitlements.CheckEntitlement(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}
	if !decision.Allowed {
		// Payment Required fits the product response: the free pool is gone
		// and a subscription lifts the cap.
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(Envelope{Error: &ErrorDetail{
			Code:    "quota_exhausted",
			Message: "You've used all your free generations. Upgrade to a paid plan for unlimited memes.",
		}})
		return
	}

	pair, err := a.captions.Generate(r.Context(), image, mimeType)
	if err != nil {
		// Caption generation failing must not block the flow; the client
		// still gets a usable meme with the default pair.
		a.log.WarnContext(r.Context(), "caption generation failed, using default pair",
			slog.Any("error", err),
		)
		pair = caption.DefaultPair
	}

	if _, err := a.entitlements.RecordGeneration(r.Context(), identity.UserID); err != nil {
		respondError(w, r, a.log, err)
		return
	}

	respondJSON(w, http.StatusOK, generateResponse{
		TopText:    pair.Top,
		BottomText: pair.Bottom,
		Reason:     string(decision.Reason),
		Remaining:  decision.RemainingAfter,
	})
}

// readImageUpload extracts the template image from a multipart form.
func readImageUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return nil, "", errBadRequest
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", errBadRequest
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		return nil, "", errBadRequest
	}
	if len(image) == 0 {
		return nil, "", errBadRequest
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	return image, mimeType, nil
}
