package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/config"
	"github.com/luckydrawhq/luckydraw/internal/db"
	"github.com/luckydrawhq/luckydraw/internal/models"
	"gorm.io/gorm"
)

// recordingNotifier captures winner notifications on a channel so tests can
// wait for the async send.
type recordingNotifier struct {
	sent chan string
}

func (n *recordingNotifier) NotifyWinner(email, _, _ string, _ time.Time) error {
	n.sent <- email
	return nil
}

type testAPI struct {
	router   *gin.Engine
	conn     *gorm.DB
	notifier *recordingNotifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, errOpen := db.Open(filepath.Join(t.TempDir(), "api.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}

	cfg := config.Config{}
	cfg.JWT.Secret = "api-test-secret"
	cfg.JWT.ExpiryHours = 1

	notifier := &recordingNotifier{sent: make(chan string, 8)}
	router := BuildRouter(conn, cfg, notifier, rand.New(rand.NewPCG(99, 99)))
	return &testAPI{router: router, conn: conn, notifier: notifier}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), errDecode)
	}
	return out
}

// register creates an account and returns a session token for it. When
// admin is set the stored role is promoted before logging in; role changes
// are an operator action, not an API one.
func (api *testAPI) register(t *testing.T, username string, admin bool) string {
	t.Helper()
	email := username + "@example.com"
	w := api.do(t, http.MethodPost, "/v0/front/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "hunter2!",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d body=%s", username, w.Code, w.Body.String())
	}
	if admin {
		errPromote := api.conn.Model(&models.User{}).
			Where("email = ?", email).
			Update("role", models.RoleAdmin).Error
		if errPromote != nil {
			t.Fatalf("promote %s: %v", username, errPromote)
		}
	}

	w = api.do(t, http.MethodPost, "/v0/front/auth/login", "", gin.H{
		"email":    email,
		"password": "hunter2!",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", username, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", username, body)
	}
	if gotAdmin, _ := body["is_admin"].(bool); gotAdmin != admin {
		t.Fatalf("login %s: is_admin=%v, want %v", username, gotAdmin, admin)
	}
	return token
}

func (api *testAPI) createDraw(t *testing.T, adminToken, title string, date time.Time) uint64 {
	t.Helper()
	w := api.do(t, http.MethodPost, "/v0/admin/draws", adminToken, gin.H{
		"title":       title,
		"description": "test draw",
		"draw_date":   date.Format("2006-01-02"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create draw: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	id, _ := body["id"].(float64)
	if id == 0 {
		t.Fatalf("create draw: no id in %v", body)
	}
	return uint64(id)
}

func joinBody(name string) gin.H {
	return gin.H{
		"name":           name,
		"email":          name + "@example.com",
		"phone":          "555-0100",
		"payment_method": "bank",
		"bank_name":      "Test Bank",
		"amount":         "10",
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "ana", false)

	w := api.do(t, http.MethodPost, "/v0/front/auth/register", "", gin.H{
		"username": "other",
		"email":    "ANA@example.com",
		"password": "pw",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "ana", false)

	w := api.do(t, http.MethodPost, "/v0/front/auth/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.register(t, "ana", false)

	w := api.do(t, http.MethodPost, "/v0/admin/draws", userToken, gin.H{
		"title":     "Nope",
		"draw_date": "2030-01-01",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestJoinAndDashboardFlow(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.register(t, "root", true)
	userToken := api.register(t, "ana", false)

	drawID := api.createDraw(t, adminToken, "Weekly", time.Now().AddDate(0, 0, 7))

	w := api.do(t, http.MethodPost, fmt.Sprintf("/v0/front/draws/%d/join", drawID), userToken, joinBody("Ana"))
	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	// Re-join updates in place, it never duplicates.
	body := joinBody("Ana")
	body["amount"] = "25"
	w = api.do(t, http.MethodPost, fmt.Sprintf("/v0/front/draws/%d/join", drawID), userToken, body)
	if w.Code != http.StatusOK {
		t.Fatalf("re-join: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["amount"]; got != "25" {
		t.Fatalf("re-join did not update amount, got %v", got)
	}

	w = api.do(t, http.MethodGet, "/v0/front/dashboard", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	dash := decodeBody(t, w)
	if got, _ := dash["total_joined"].(float64); got != 1 {
		t.Fatalf("dashboard total_joined=%v, want 1", dash["total_joined"])
	}
	draws, _ := dash["draws"].([]any)
	if len(draws) != 1 {
		t.Fatalf("dashboard should list the open draw, got %v", dash["draws"])
	}

	w = api.do(t, http.MethodGet, fmt.Sprintf("/v0/front/draws/%d/join", drawID), userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("join form: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	form := decodeBody(t, w)
	if form["participant"] == nil {
		t.Fatalf("join form should prefill the existing registration: %v", form)
	}
}

func TestJoinValidationStatus(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.register(t, "root", true)
	userToken := api.register(t, "ana", false)
	drawID := api.createDraw(t, adminToken, "Weekly", time.Now().AddDate(0, 0, 7))

	body := joinBody("Ana")
	body["phone"] = ""
	w := api.do(t, http.MethodPost, fmt.Sprintf("/v0/front/draws/%d/join", drawID), userToken, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing phone, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestJoinUnknownDraw(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.register(t, "ana", false)

	w := api.do(t, http.MethodPost, "/v0/front/draws/9999/join", userToken, joinBody("Ana"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestSelectWinnerEndpoint(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.register(t, "root", true)
	anaToken := api.register(t, "ana", false)
	bobToken := api.register(t, "bob", false)
	drawID := api.createDraw(t, adminToken, "Grand", time.Now().AddDate(0, 0, 1))

	for name, token := range map[string]string{"Ana": anaToken, "Bob": bobToken} {
		w := api.do(t, http.MethodPost, fmt.Sprintf("/v0/front/draws/%d/join", drawID), token, joinBody(name))
		if w.Code != http.StatusOK {
			t.Fatalf("join %s: expected 200, got %d body=%s", name, w.Code, w.Body.String())
		}
	}

	w := api.do(t, http.MethodPost, fmt.Sprintf("/v0/admin/draws/%d/select-winner", drawID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("select winner: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	result := decodeBody(t, w)
	winnerEmail, _ := result["email"].(string)
	if winnerEmail != "ana@example.com" && winnerEmail != "bob@example.com" {
		t.Fatalf("winner email %q is not a participant", winnerEmail)
	}

	select {
	case sentTo := <-api.notifier.sent:
		if sentTo != winnerEmail {
			t.Fatalf("notification sent to %q, winner is %q", sentTo, winnerEmail)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("winner notification never sent")
	}

	w = api.do(t, http.MethodPost, fmt.Sprintf("/v0/admin/draws/%d/select-winner", drawID), adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second selection: expected 409, got %d body=%s", w.Code, w.Body.String())
	}

	// The decided draw moves to the past listing and the winners page.
	w = api.do(t, http.MethodGet, "/v0/admin/draws/past", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("past draws: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	past, _ := decodeBody(t, w)["draws"].([]any)
	if len(past) != 1 {
		t.Fatalf("expected 1 past draw, got %v", past)
	}

	w = api.do(t, http.MethodGet, "/v0/front/winners", anaToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("winners: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestSelectWinnerWithoutParticipants(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.register(t, "root", true)
	drawID := api.createDraw(t, adminToken, "Empty", time.Now().AddDate(0, 0, 1))

	w := api.do(t, http.MethodPost, fmt.Sprintf("/v0/admin/draws/%d/select-winner", drawID), adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty draw, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminDrawCRUDAndReport(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.register(t, "root", true)
	userToken := api.register(t, "ana", false)
	drawID := api.createDraw(t, adminToken, "Editable", time.Now().AddDate(0, 0, 3))

	w := api.do(t, http.MethodPut, fmt.Sprintf("/v0/admin/draws/%d", drawID), adminToken, gin.H{
		"title":       "Edited",
		"description": "changed",
		"draw_date":   time.Now().AddDate(0, 0, 4).Format("2006-01-02"),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["title"]; got != "Edited" {
		t.Fatalf("update title=%v", got)
	}

	if w := api.do(t, http.MethodPost, fmt.Sprintf("/v0/front/draws/%d/join", drawID), userToken, joinBody("Ana")); w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	w = api.do(t, http.MethodGet, fmt.Sprintf("/v0/admin/draws/%d/report", drawID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	report := decodeBody(t, w)
	participants, _ := report["participants"].([]any)
	if len(participants) != 1 {
		t.Fatalf("report should list 1 participant, got %v", report["participants"])
	}
	if report["winner"] != nil {
		t.Fatalf("undecided draw must report a nil winner, got %v", report["winner"])
	}

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/v0/admin/draws/%d", drawID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	w = api.do(t, http.MethodGet, fmt.Sprintf("/v0/admin/draws/%d/report", drawID), adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("report after delete: expected 404, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestPublicHomeListing(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.register(t, "root", true)
	api.createDraw(t, adminToken, "Visible", time.Now().AddDate(0, 0, 2))

	w := api.do(t, http.MethodGet, "/v0/draws", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("home: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	home := decodeBody(t, w)
	if name, _ := home["site_name"].(string); name == "" {
		t.Fatalf("home listing missing site_name: %v", home)
	}
	draws, _ := home["draws"].([]any)
	if len(draws) != 1 {
		t.Fatalf("home should list the draw, got %v", home["draws"])
	}
}

func TestProfileRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.register(t, "ana", false)

	w := api.do(t, http.MethodGet, "/v0/front/profile", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get profile: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["username"]; got != "ana" {
		t.Fatalf("profile username=%v", got)
	}

	w = api.do(t, http.MethodPut, "/v0/front/profile", userToken, gin.H{
		"username": "ana-renamed",
		"email":    "ana@example.com",
		"phone":    "555-0199",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["username"] != "ana-renamed" || body["phone"] != "555-0199" {
		t.Fatalf("profile not updated: %v", body)
	}
}
