package httpapi

import (
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/memeforge/memeforge/internal/meme"
)

type memeResponse struct {
	ID         string `json:"id"`
	ImageURL   string `json:"imageUrl"`
	TopText    string `json:"topText"`
	BottomText string `json:"bottomText"`
	CreatedAt  string `json:"createdAt"`
}

func newMemeResponse(m *meme.Meme) memeResponse {
	return memeResponse{
		ID:         m.ID.String(),
		ImageURL:   m.ImageURL,
		TopText:    m.TopText,
		BottomText: m.BottomText,
		CreatedAt:  m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// handleSaveMeme accepts the rendered meme image plus its caption texts,
// stores the image and records the artifact. A failed history insert does
// not fail the request.
func (a *API) handleSaveMeme(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	ext := path.Ext(header.Filename)
	if ext == "" {
		ext = ".png"
	}

	storagePath := fmt.Sprintf("memes/%s/%s%s", identity.UserID, uuid.New(), ext)
	imageURL, err := a.media.Save(r.Context(), file, contentType, storagePath)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	saved := a.memes.SaveArtifact(r.Context(), identity.UserID,
		imageURL,
		r.FormValue("topText"),
		r.FormValue("bottomText"),
	)
	if saved == nil {
		// History insert failed; the image itself is stored and usable.
		respondJSON(w, http.StatusCreated, memeResponse{ImageURL: imageURL,
			TopText:    r.FormValue("topText"),
			BottomText: r.FormValue("bottomText"),
		})
		return
	}

	respondJSON(w, http.StatusCreated, newMemeResponse(saved))
}

func (a *API) handleListMemes(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	memes, err := a.memes.ListByUser(r.Context(), identity.UserID)
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
