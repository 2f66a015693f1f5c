// Package devserver is an in-memory development backend speaking the same
// REST contract the client consumes. Everything lives in process memory;
// restarting the server loses all content.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"mailmap/internal/content"
)

type storedImage struct {
	mimeType string
	data     []byte
}

type Server struct {
	secret []byte

	mu     sync.RWMutex
	items  map[string]*content.Item
	images map[string]storedImage
}

func NewServer(secret string) *Server {
	return &Server{
		secret: []byte(secret),
		items:  make(map[string]*content.Item),
		images: make(map[string]storedImage),
	}
}

// Router wires the REST surface.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health).Methods("GET")

	router.HandleFunc("/login", s.login).Methods("POST")
	router.HandleFunc("/google_callback", s.login).Methods("POST")
	router.HandleFunc("/apple_callback", s.login).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/content", s.listContent).Methods("GET")
	api.HandleFunc("/content/create", s.createContent).Methods("POST")
	api.HandleFunc("/content/{contentID}", s.getContent).Methods("GET")
	api.HandleFunc("/content/{contentID}/vote", s.vote).Methods("POST")
	api.HandleFunc("/content/{contentID}/report", s.report).Methods("POST")
	api.HandleFunc("/content/{contentID}/edit", s.editContent).Methods("PUT")
	api.HandleFunc("/content/{contentID}/delete", s.deleteContent).Methods("DELETE")
	api.HandleFunc("/content/{contentID}/approve", s.approveContent).Methods("POST")
	api.HandleFunc("/media/{imageID}", s.serveImage).Methods("GET")

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID resolves the acting user: a valid bearer token wins, then the
// X-User-ID header.
func (s *Server) callerID(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if claims, err := validToken(strings.TrimPrefix(header, "Bearer "), s.secret); err == nil {
			return claims.UserID
		}
	}
	return r.Header.Get("X-User-ID")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.UserID == "" {
		body.UserID = "user-" + uuid.NewString()[:8]
	}

	token, err := generateToken(body.UserID, s.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not mint token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"userId": body.UserID,
		"token":  token,
	})
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	caller := s.callerID(r)

	s.mu.RLock()
	items := make([]content.Item, 0, len(s.items))
	for _, item := range s.items {
		// pending posts are visible only to their author
		if item.UnderModeration() && item.UserID != caller {
			continue
		}
		items = append(items, *item)
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["contentID"]

	s.mu.RLock()
	item, ok := s.items[contentID]
	var snapshot content.Item
	if ok {
		snapshot = *item
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"content": snapshot})
}

func (s *Server) createContent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	lat, latErr := strconv.ParseFloat(r.FormValue("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		userID = "anonymous"
	}

	item := &content.Item{
		ItemID:    uuid.NewString(),
		Text:      r.FormValue("text"),
		Latitude:  lat,
		Longitude: lng,
		Timestamp: content.NewTimestamp(time.Now()),
		Status:    content.StatusForModeration,
		UserID:    userID,
	}

	if file, header, err := r.FormFile("image"); err == nil {
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "could not read image")
			return
		}
		imageID := uuid.NewString()
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		s.mu.Lock()
		s.images[imageID] = storedImage{mimeType: mimeType, data: data}
		s.mu.Unlock()
		item.ImageURL = "/api/media/" + imageID
	}

	s.mu.Lock()
	s.items[item.ItemID] = item
	s.mu.Unlock()

	log.Printf("created content %s by %s (pending moderation)", item.ItemID, userID)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"contentId": item.ItemID,
	})
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["contentID"]

	var body struct {
		Vote   int    `json:"vote"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid vote payload")
		return
	}
	if body.Vote != 1 && body.Vote != -1 {
		writeError(w, http.StatusBadRequest, "vote must be 1 or -1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[contentID]
	if !ok {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	if item.UnderModeration() {
		writeError(w, http.StatusForbidden, "post is under moderation")
		return
	}

	item.VoteCount += body.Vote
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"newVoteCount": item.VoteCount,
	})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["contentID"]

	var body struct {
		Reason string `json:"reason"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Reason) == "" {
		writeError(w, http.StatusBadRequest, "a report reason is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[contentID]
	if !ok {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}

	item.ReportedCount++
	log.Printf("content %s reported by %s: %s", contentID, body.UserID, body.Reason)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) editContent(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["contentID"]
	caller := s.callerID(r)

	var body struct {
		Text     string `json:"text"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid edit payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[contentID]
	if !ok {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	if caller == "" || item.UserID != caller {
		writeError(w, http.StatusForbidden, "not your post")
		return
	}

	item.Text = body.Text
	item.ImageURL = body.ImageURL
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) deleteContent(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["contentID"]
	caller := s.callerID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[contentID]
	if !ok {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	if caller == "" || item.UserID != caller {
		writeError(w, http.StatusForbidden, "not your post")
		return
	}

	delete(s.items, contentID)

	// The historical endpoint answered with plain text.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Deleted")
}

// approveContent publishes a pending item. There is no moderation UI here;
// tests and local demos call this directly.
func (s *Server) approveContent(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["contentID"]

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[contentID]
	if !ok {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}

	item.Status = content.StatusPublished
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["imageID"]

	s.mu.RLock()
	img, ok := s.images[imageID]
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", img.mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.data)))
	if _, err := w.Write(img.data); err != nil {
		log.Printf("error streaming image %s: %v", imageID, err)
	}
}

// Seed inserts an item directly, bypassing moderation.
func (s *Server) Seed(item content.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := item
	s.items[item.ItemID] = &copied
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
