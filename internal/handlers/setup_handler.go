package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/nuricanozturk01/setupshowroom-public/internal/services"
	"github.com/nuricanozturk01/setupshowroom-public/internal/storage"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxUploadSize caps a single setup publication request (~20MB).
const maxUploadSize = 20 << 20

// SetupHandler handles HTTP requests related to setups, likes and comments.
type SetupHandler struct {
	Service *services.SetupService
}

// NewSetupHandler creates a new instance of SetupHandler.
func NewSetupHandler(service *services.SetupService) *SetupHandler {
	return &SetupHandler{Service: service}
}

// CreateSetupHandler publishes a new setup from a multipart form with
// title/description/category fields and zero or more image files.
func (h *SetupHandler) CreateSetupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart payload", http.StatusBadRequest)
		return
	}

	form := &models.SetupForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	var images []storage.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				http.Error(w, "Failed to read uploaded image", http.StatusBadRequest)
				return
			}
			defer file.Close()

			images = append(images, storage.Upload{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Reader:      file,
			})
		}
	}

	setup, err := h.Service.CreateSetup(r.Context(), userID, form, images)
	if err != nil {
		log.WithError(err).Error("Failed to create setup")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.WithField("setupID", setup.ID.Hex()).Info("Setup published")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(setup)
}

// GetSetupHandler returns a single setup by ID.
func (h *SetupHandler) GetSetupHandler(w http.ResponseWriter, r *http.Request) {
	setupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}

	setup, err := h.Service.GetSetup(r.Context(), setupID)
	if err != nil {
		http.Error(w, "Setup not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setup)
}

// ExploreSetupsHandler returns the most recent setups across all users.
func (h *SetupHandler) ExploreSetupsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	setups, err := h.Service.ExploreSetups(r.Context(), page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch setups")
		http.Error(w, "Failed to get setups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setups)
}

// GetUserSetupsHandler returns the setups published by one user.
func (h *SetupHandler) GetUserSetupsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	page, limit := parsePagination(r)
	setups, err := h.Service.GetSetupsByUser(r.Context(), ownerID, page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch user setups")
		http.Error(w, "Failed to get setups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setups)
}

// LikeSetupHandler likes a setup on behalf of the caller.
func (h *SetupHandler) LikeSetupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	setupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.LikeSetup(r.Context(), setupID, userID); err != nil {
		log.WithError(err).Error("Failed to like setup")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Setup liked"})
}

// UnlikeSetupHandler removes the caller's like from a setup.
func (h *SetupHandler) UnlikeSetupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	setupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.UnlikeSetup(r.Context(), setupID, userID); err != nil {
		log.WithError(err).Error("Failed to unlike setup")
		http.Error(w, "Failed to unlike setup", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Setup unliked"})
}

// AddCommentHandler adds a comment to a setup.
func (h *SetupHandler) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	setupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}

	var form models.CommentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	comment, err := h.Service.AddComment(r.Context(), setupID, userID, &form)
	if err != nil {
		log.WithError(err).Error("Failed to add comment")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

// DeleteCommentHandler deletes the caller's own comment.
func (h *SetupHandler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	setupID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}
	commentID, err := primitive.ObjectIDFromHex(vars["commentId"])
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteComment(r.Context(), setupID, commentID, userID); err != nil {
		log.WithError(err).Error("Failed to delete comment")
		http.Error(w, "Failed to delete comment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Comment deleted"})
}

// LikeCommentHandler likes a comment on behalf of the caller.
func (h *SetupHandler) LikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	setupID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}
	commentID, err := primitive.ObjectIDFromHex(vars["commentId"])
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.LikeComment(r.Context(), setupID, commentID, userID); err != nil {
		log.WithError(err).Error("Failed to like comment")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Comment liked"})
}

// UnlikeCommentHandler removes the caller's like from a comment.
func (h *SetupHandler) UnlikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	setupID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid setup ID", http.StatusBadRequest)
		return
	}
	commentID, err := primitive.ObjectIDFromHex(vars["commentId"])
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.UnlikeComment(r.Context(), setupID, commentID, userID); err != nil {
		log.WithError(err).Error("Failed to unlike comment")
		http.Error(w, "Failed to unlike comment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Comment unliked"})
}
