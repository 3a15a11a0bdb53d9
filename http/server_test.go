package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krishisetu/agri-advisor/config"
	"github.com/krishisetu/agri-advisor/db"
	"github.com/krishisetu/agri-advisor/recommend"
)

type stubStore struct {
	farmers      map[string]db.Farmer
	cropNames    []string
	feedback     []string
	historyAdded int
	updateErr    error
}

func newStubStore() *stubStore {
	return &stubStore{farmers: make(map[string]db.Farmer)}
}

func (s *stubStore) GetFarmer(ctx context.Context, farmerID string) (*db.Farmer, error) {
	f, ok := s.farmers[farmerID]
	if !ok {
		return nil, db.ErrFarmerNotFound
	}
	return &f, nil
}

func (s *stubStore) UpsertFarmer(ctx context.Context, f db.Farmer) error {
	s.farmers[f.ID] = f
	return nil
}

func (s *stubStore) UpdateFarmer(ctx context.Context, farmerID string, u db.FarmerUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	f, ok := s.farmers[farmerID]
	if !ok {
		return db.ErrFarmerNotFound
	}
	if u.Village != nil {
		f.Village = *u.Village
	}
	if u.State != nil {
		f.State = *u.State
	}
	s.farmers[farmerID] = f
	return nil
}

func (s *stubStore) DeleteFarmer(ctx context.Context, farmerID string) error {
	if _, ok := s.farmers[farmerID]; !ok {
		return db.ErrFarmerNotFound
	}
	delete(s.farmers, farmerID)
	return nil
}

func (s *stubStore) AddCropHistory(ctx context.Context, farmerID string, entry db.CropHistoryEntry) error {
	s.historyAdded++
	return nil
}

func (s *stubStore) RecentCropNames(ctx context.Context, farmerID string, limit int) ([]string, error) {
	return s.cropNames, nil
}

func (s *stubStore) InsertFeedback(ctx context.Context, farmerID, cropName string, rating int, comment *string) (string, error) {
	s.feedback = append(s.feedback, cropName)
	return "feedback-id-1", nil
}

type stubRecommender struct {
	resp        *recommend.Response
	err         error
	cached      *recommend.CacheEntry
	invalidated []string
	lastReq     recommend.Request
}

func (r *stubRecommender) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	r.lastReq = req
	if r.err != nil {
		return nil, r.err
	}
	return r.resp, nil
}

func (r *stubRecommender) InvalidateCache(ctx context.Context, farmerID string) error {
	r.invalidated = append(r.invalidated, farmerID)
	return nil
}

func (r *stubRecommender) LastCached(ctx context.Context, farmerID string) (*recommend.CacheEntry, error) {
	return r.cached, nil
}

func registeredFarmer(id string) db.Farmer {
	return db.Farmer{
		ID:       id,
		Email:    id + "@example.com",
		Name:     "Test Farmer",
		Village:  "Ludhiana",
		State:    "Punjab",
		Language: "en",
	}
}

func sampleResponse(farmerID string) *recommend.Response {
	return &recommend.Response{
		FarmerID: farmerID,
		Village:  "Ludhiana",
		State:    "Punjab",
		Recommendations: []recommend.ScoredRecommendation{
			{CropName: "Wheat", SuitabilityScore: 98},
			{CropName: "Rice", SuitabilityScore: 96},
		},
		Timestamp: time.Now().UTC(),
	}
}

func newTestServer(store *stubStore, svc *stubRecommender, tokens map[string]string) *Server {
	cfg := config.Config{Port: 8080, AuthTokens: tokens}
	return New(cfg, store, svc)
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthzSkipsAuth(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, map[string]string{"tok": "farmer-1"})
	w := doRequest(t, srv, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuthMissingToken(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, map[string]string{"tok": "farmer-1"})
	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthUnknownToken(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, map[string]string{"tok": "farmer-1"})
	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1", "wrong", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthFarmerMismatch(t *testing.T) {
	store := newStubStore()
	store.farmers["farmer-2"] = registeredFarmer("farmer-2")
	srv := newTestServer(store, &stubRecommender{}, map[string]string{"tok": "farmer-1"})

	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-2", "tok", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestGetRecommendationsHappyPath(t *testing.T) {
	store := newStubStore()
	store.farmers["farmer-1"] = registeredFarmer("farmer-1")
	store.cropNames = []string{"Wheat", "Rice"}
	svc := &stubRecommender{resp: sampleResponse("farmer-1")}
	srv := newTestServer(store, svc, map[string]string{"tok": "farmer-1"})

	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1?top_n=3&force_refresh=true", "tok", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp recommend.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recommendations) != 2 || resp.Recommendations[0].CropName != "Wheat" {
		t.Fatalf("unexpected recommendations: %+v", resp.Recommendations)
	}

	if svc.lastReq.TopN != 3 || !svc.lastReq.ForceRefresh {
		t.Errorf("query params not forwarded: %+v", svc.lastReq)
	}
	if svc.lastReq.Village != "Ludhiana" || svc.lastReq.State != "Punjab" {
		t.Errorf("profile not forwarded: %+v", svc.lastReq)
	}
	if len(svc.lastReq.PrevCrops) != 2 {
		t.Errorf("crop history not forwarded: %+v", svc.lastReq.PrevCrops)
	}
}

func TestGetRecommendationsValidation(t *testing.T) {
	store := newStubStore()
	store.farmers["farmer-1"] = registeredFarmer("farmer-1")
	srv := newTestServer(store, &stubRecommender{resp: sampleResponse("farmer-1")}, nil)

	for _, path := range []string{
		"/v1/recommendations/farmer-1?top_n=0",
		"/v1/recommendations/farmer-1?top_n=11",
		"/v1/recommendations/farmer-1?top_n=abc",
		"/v1/recommendations/farmer-1?force_refresh=maybe",
	} {
		if w := doRequest(t, srv, http.MethodGet, path, "", nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestGetRecommendationsUnknownFarmer(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, nil)
	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/ghost", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetRecommendationsIncompleteProfile(t *testing.T) {
	store := newStubStore()
	f := registeredFarmer("farmer-1")
	f.Village = ""
	store.farmers["farmer-1"] = f
	srv := newTestServer(store, &stubRecommender{}, nil)

	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetRecommendationsUnavailable(t *testing.T) {
	store := newStubStore()
	store.farmers["farmer-1"] = registeredFarmer("farmer-1")
	srv := newTestServer(store, &stubRecommender{err: recommend.ErrUnavailable}, nil)

	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestRecommendationHistoryEmpty(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, nil)
	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1/history", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "no recommendation history found" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestRecommendationHistoryLimited(t *testing.T) {
	resp := sampleResponse("farmer-1")
	svc := &stubRecommender{cached: &recommend.CacheEntry{
		FarmerID:  "farmer-1",
		Response:  *resp,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}}
	srv := newTestServer(newStubStore(), svc, nil)

	w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1/history?limit=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Recommendations []recommend.ScoredRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(body.Recommendations))
	}

	if w := doRequest(t, srv, http.MethodGet, "/v1/recommendations/farmer-1/history?limit=51", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("limit=51 status = %d, want 400", w.Code)
	}
}

func TestClearRecommendationCache(t *testing.T) {
	svc := &stubRecommender{}
	srv := newTestServer(newStubStore(), svc, nil)

	w := doRequest(t, srv, http.MethodDelete, "/v1/recommendations/farmer-1/cache", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(svc.invalidated) != 1 || svc.invalidated[0] != "farmer-1" {
		t.Fatalf("invalidations = %v", svc.invalidated)
	}
}

func TestFeedbackValidation(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(store, &stubRecommender{}, nil)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing crop", map[string]any{"rating": 4}},
		{"rating too low", map[string]any{"crop_name": "Wheat", "rating": 0}},
		{"rating too high", map[string]any{"crop_name": "Wheat", "rating": 6}},
	}
	for _, tc := range cases {
		if w := doRequest(t, srv, http.MethodPost, "/v1/recommendations/farmer-1/feedback", "", tc.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, w.Code)
		}
	}
	if len(store.feedback) != 0 {
		t.Fatalf("invalid feedback stored: %v", store.feedback)
	}

	w := doRequest(t, srv, http.MethodPost, "/v1/recommendations/farmer-1/feedback", "", map[string]any{
		"crop_name": "Wheat", "rating": 5, "comment": "good yield",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("valid feedback status = %d, want 201", w.Code)
	}
	if len(store.feedback) != 1 {
		t.Fatalf("feedback not stored: %v", store.feedback)
	}
}

func TestCreateAndGetFarmer(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(store, &stubRecommender{}, nil)

	w := doRequest(t, srv, http.MethodPost, "/v1/farmers/farmer-1", "", map[string]any{
		"email": "f@example.com", "name": "Farmer One", "village": "Ludhiana", "state": "Punjab",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(t, srv, http.MethodGet, "/v1/farmers/farmer-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doRequest(t, srv, http.MethodPost, "/v1/farmers/farmer-2", "", map[string]any{
		"email": "f@example.com", "name": "No Village",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete create status = %d, want 400", w.Code)
	}
}

func TestUpdateFarmerInvalidatesCache(t *testing.T) {
	store := newStubStore()
	store.farmers["farmer-1"] = registeredFarmer("farmer-1")
	svc := &stubRecommender{}
	srv := newTestServer(store, svc, nil)

	w := doRequest(t, srv, http.MethodPut, "/v1/farmers/farmer-1", "", map[string]any{
		"village": "Amritsar",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if store.farmers["farmer-1"].Village != "Amritsar" {
		t.Fatalf("village not updated: %+v", store.farmers["farmer-1"])
	}
	if len(svc.invalidated) != 1 {
		t.Fatalf("cache not invalidated after update: %v", svc.invalidated)
	}
}

func TestUpdateFarmerNotFound(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, nil)
	w := doRequest(t, srv, http.MethodPut, "/v1/farmers/ghost", "", map[string]any{"village": "X"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteFarmerInvalidatesCache(t *testing.T) {
	store := newStubStore()
	store.farmers["farmer-1"] = registeredFarmer("farmer-1")
	svc := &stubRecommender{}
	srv := newTestServer(store, svc, nil)

	w := doRequest(t, srv, http.MethodDelete, "/v1/farmers/farmer-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if _, ok := store.farmers["farmer-1"]; ok {
		t.Fatal("farmer not deleted")
	}
	if len(svc.invalidated) != 1 {
		t.Fatalf("cache not invalidated after delete: %v", svc.invalidated)
	}
}

func TestAddCropHistory(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(store, &stubRecommender{}, nil)

	w := doRequest(t, srv, http.MethodPost, "/v1/farmers/farmer-1/crop-history", "", map[string]any{
		"crop_name": "Wheat", "season": "Rabi", "year": 2024,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if store.historyAdded != 1 {
		t.Fatalf("history entries = %d, want 1", store.historyAdded)
	}

	w = doRequest(t, srv, http.MethodPost, "/v1/farmers/farmer-1/crop-history", "", map[string]any{
		"crop_name": "", "season": "Rabi", "year": 2024,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty crop status = %d, want 400", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubRecommender{}, map[string]string{"tok": "farmer-1"})
	w := doRequest(t, srv, http.MethodOptions, "/v1/recommendations/farmer-1", "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}
