package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"condominio-server/booking"
	"condominio-server/models"
	"condominio-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// memStore keeps reservations in memory so the booking routes can be
// exercised without a database.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]models.Reservation
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, byID: map[uint]models.Reservation{}}
}

func (s *memStore) FindBlocking(ctx context.Context, areaID uint, date string, excludeID uint) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reservation
	for _, r := range s.byID {
		if r.AreaID != areaID || r.Date != date || r.ID == excludeID {
			continue
		}
		if r.Status == models.ReservationPending || r.Status == models.ReservationConfirmed {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) Create(ctx context.Context, res *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, err := booking.NewTimeRange(res.StartTime, res.EndTime)
	if err != nil {
		return err
	}
	var existing []models.Reservation
	for _, r := range s.byID {
		if r.AreaID == res.AreaID && r.Date == res.Date {
			existing = append(existing, r)
		}
	}
	if conflict := booking.FirstConflict(existing, candidate); conflict != nil {
		return &booking.SlotConflictError{Conflict: *conflict}
	}
	res.ID = s.nextID
	s.nextID++
	s.byID[res.ID] = *res
	return nil
}

func (s *memStore) Transition(ctx context.Context, res *models.Reservation, fromState string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[res.ID]
	if !ok {
		return booking.ErrNotFound
	}
	if stored.Status != fromState {
		return booking.ErrStaleState
	}
	s.byID[res.ID] = *res
	return nil
}

type memCatalog struct{ areas map[uint]models.CommonArea }

func (c *memCatalog) GetArea(ctx context.Context, id uint) (*models.CommonArea, error) {
	a, ok := c.areas[id]
	if !ok {
		return nil, booking.ErrAreaNotFound
	}
	return &a, nil
}

func buildBookingTestApp() (*iris.Application, *memStore) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	store := newMemStore()
	catalog := &memCatalog{areas: map[uint]models.CommonArea{
		1: {ID: 1, Name: "Salón de Eventos", HourlyRate: 10, Capacity: 50, Status: models.AreaStatusActive},
	}}
	Booking = booking.NewService(store, catalog, nil, nil)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	reservation := app.Party("/api/reservation", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		reservation.Post("/", CreateReservation)
	}
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/reservations/stats", AdminReservationStats)
	}

	if err := app.Build(); err != nil {
		panic(err)
	}
	return app, store
}

func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func postJSON(app *iris.Application, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestCreateReservationRequiresToken(t *testing.T) {
	app, _ := buildBookingTestApp()

	resp := postJSON(app, "/api/reservation", "",
		`{"areaId":1,"date":"2030-05-01","startTime":"14:00","endTime":"16:00","partySize":4}`)
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected failure without token, got %d", resp.Code)
	}
}

func TestCreateReservationHappyPath(t *testing.T) {
	app, store := buildBookingTestApp()
	token := signTestToken(7, models.RoleResident)

	resp := postJSON(app, "/api/reservation", token,
		`{"areaId":1,"date":"2030-05-01","startTime":"14:00","endTime":"16:00","partySize":4,"purpose":"evento"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Data models.Reservation `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Data.Status != models.ReservationPending {
		t.Errorf("status = %s, want %s", out.Data.Status, models.ReservationPending)
	}
	if out.Data.RequesterID != 7 {
		t.Errorf("requesterID = %d, want the token's user id 7", out.Data.RequesterID)
	}
	if out.Data.TotalCost != 20.00 {
		t.Errorf("totalCost = %.2f, want 20.00", out.Data.TotalCost)
	}
	if _, ok := store.byID[out.Data.ID]; !ok {
		t.Errorf("reservation %d not persisted", out.Data.ID)
	}
}

func TestCreateReservationConflictReturns409(t *testing.T) {
	app, _ := buildBookingTestApp()
	token := signTestToken(7, models.RoleResident)

	first := postJSON(app, "/api/reservation", token,
		`{"areaId":1,"date":"2030-05-01","startTime":"14:00","endTime":"16:00","partySize":4}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d", first.Code)
	}

	second := postJSON(app, "/api/reservation", token,
		`{"areaId":1,"date":"2030-05-01","startTime":"15:00","endTime":"17:00","partySize":4}`)
	if second.Code != http.StatusConflict {
		t.Fatalf("overlapping booking: expected 409, got %d: %s", second.Code, second.Body.String())
	}

	var out struct {
		Error    string `json:"error"`
		Conflict struct {
			StartTime string `json:"startTime"`
			EndTime   string `json:"endTime"`
		} `json:"conflict"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Error != "slot_conflict" {
		t.Errorf("error = %q, want slot_conflict", out.Error)
	}
	if out.Conflict.StartTime != "14:00" || out.Conflict.EndTime != "16:00" {
		t.Errorf("conflict = %s-%s, want the existing 14:00-16:00 slot", out.Conflict.StartTime, out.Conflict.EndTime)
	}

	// back to back is fine
	third := postJSON(app, "/api/reservation", token,
		`{"areaId":1,"date":"2030-05-01","startTime":"16:00","endTime":"18:00","partySize":4}`)
	if third.Code != http.StatusCreated {
		t.Fatalf("back-to-back booking: expected 201, got %d: %s", third.Code, third.Body.String())
	}
}

func TestCreateReservationInvalidRange(t *testing.T) {
	app, _ := buildBookingTestApp()
	token := signTestToken(7, models.RoleResident)

	resp := postJSON(app, "/api/reservation", token,
		`{"areaId":1,"date":"2030-05-01","startTime":"16:00","endTime":"14:00","partySize":4}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("reversed range: expected 400, got %d", resp.Code)
	}
}

func TestAdminPartyRBAC(t *testing.T) {
	app, _ := buildBookingTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reservations/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(7, models.RoleResident))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for resident role, got %d", resp.Code)
	}
}
