package handlers

import (
	"net/http"
	"strings"

	"github.com/nainix/marketplace-backend/internal/middleware"
)

const maxAvatarBytes = 5 << 20

var avatarContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadAvatar handles POST /api/users/me/avatar. The image is sent as the
// "avatar" (or "file") part of a multipart form.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+(1<<20))
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid upload. Images must be 5MB or smaller.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		writeMessage(w, http.StatusBadRequest, "Invalid upload. Images must be 5MB or smaller.")
		return
	}
	ct := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	if !avatarContentTypes[ct] {
		writeMessage(w, http.StatusBadRequest, "Only JPEG, PNG, WebP or GIF images are allowed.")
		return
	}

	user, err := h.Profiles.UploadAvatar(r.Context(), p.UserID, file)
	if err != nil {
		writeError(w, r, err, "Unable to upload avatar right now.")
		return
	}
	writeOK(w, envelope{"user": user, "avatarUrl": user.AvatarURL})
}
