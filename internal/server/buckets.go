package server

import (
	"net/http"
	"time"
)

// bucketItem is the bucket list entry the UI renders.
type bucketItem struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
	ObjectCount  int       `json:"objectCount"`
}

func (s *Server) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	store, err := s.storage(rec)
	if err != nil {
		s.respondError(w, err, "Bucket not found", "Failed to list buckets")
		return
	}
	defer store.Close()

	buckets, err := store.ListBuckets(r.Context())
	if err != nil {
		s.respondError(w, err, "Bucket not found", "Failed to list buckets")
		return
	}

	items := make([]bucketItem, len(buckets))
	for i, b := range buckets {
		// A failed count degrades to zero rather than failing the
		// whole listing.
		count, err := store.CountObjects(r.Context(), b.Name)
		if err != nil {
			count = 0
		}
		items[i] = bucketItem{
			Name:         b.Name,
			CreationDate: b.CreatedAt,
			ObjectCount:  count,
		}
	}

	respondList(w, items)
}

func (s *Server) handleCreateBucket(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Bucket name is required")
		return
	}

	store, err := s.storage(rec)
	if err != nil {
		s.respondError(w, err, "Bucket not found", "Failed to create bucket")
		return
	}
	defer store.Close()

	region := rec.Profile.Region
	if region == "" {
		region = "us-east-1"
	}
	if err := store.MakeBucket(r.Context(), req.Name, region); err != nil {
		s.respondError(w, err, "Bucket not found", "Failed to create bucket")
		return
	}

	respondMessage(w, http.StatusOK, "Bucket created successfully")
}

func (s *Server) handleDeleteBucket(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Bucket name is required")
		return
	}

	store, err := s.storage(rec)
	if err != nil {
		s.respondError(w, err, "Bucket not found", "Failed to delete bucket")
		return
	}
	defer store.Close()

	if err := store.RemoveBucket(r.Context(), req.Name); err != nil {
		s.respondError(w, err, "Bucket not found", "Failed to delete bucket")
		return
	}

	respondMessage(w, http.StatusOK, "Bucket deleted successfully")
}
