package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type adminUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type adminUsageResponse struct {
	UserID         string    `json:"userId"`
	FreeRemaining  int       `json:"freeRemaining"`
	TotalGenerated int       `json:"totalGenerated"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type adminSubscriptionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	PlanType      string    `json:"planType"`
	Status        string    `json:"status"`
	ProviderSubID string    `json:"providerSubId"`
	PeriodEnd     time.Time `json:"periodEnd"`
}

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	users, err := a.admin.ListUsers(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	resp := make([]adminUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, adminUserResponse{
			ID:        u.ID.String(),
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleAdminListUsage(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	records, err := a.admin.ListUsage(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	resp := make([]adminUsageResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, adminUsageResponse{
			UserID:         rec.UserID.String(),
			FreeRemaining:  rec.FreeRemaining,
			TotalGenerated: rec.TotalGenerated,
			UpdatedAt:      rec.UpdatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleAdminListSubscriptions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	subs, err := a.admin.ListSubscriptions(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	resp := make([]adminSubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, adminSubscriptionResponse{
			ID:            sub.ID.String(),
			UserID:        sub.UserID.String(),
			PlanType:      string(sub.PlanType),
			Status:        string(sub.Status),
			ProviderSubID: sub.ProviderSubID,
			PeriodEnd:     sub.PeriodEnd,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleAdminListMemes(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	memes, err := a.admin.ListMemes(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	resp := make([]memeResponse, 0, len(memes))
	for i := range memes {
		resp = append(resp, newMemeResponse(&memes[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleAdminDeleteMeme(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}

	if err := a.admin.DeleteMeme(r.Context(), id); err != nil {
		respondError(w, r, a.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
