package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/controller/handlers"
	"github.com/Freeeeeet/nurse_mentorship/internal/controller/middleware"
	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/memory"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "router-test-secret"

type testServer struct {
	router    *gin.Engine
	store     *memory.Store
	uploadDir string

	admin  *model.User
	mentor *model.User
	nurse  *model.User
	other  *model.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	logger := zap.NewNop()

	services := handlers.Services{
		Users:        service.NewUserService(store.Users, logger),
		Availability: service.NewAvailabilityService(store.Availability, store.Users, time.UTC, logger),
		Bookings:     service.NewBookingService(store.Availability, store.Bookings, store.Users, nil, "https://meet.example.com", logger),
		Payments:     service.NewPaymentService(store.Purchases, logger),
		Assessments:  service.NewAssessmentService(store.Assessments, nil, logger),
		Content:      service.NewContentService(store.Content, logger),
		Feedback:     service.NewFeedbackService(store.Bookings, store.Feedback, logger),
	}

	uploadDir := t.TempDir()
	h := handlers.NewHandlers(services, handlers.UploadConfig{Dir: uploadDir, MaxBytes: 1 << 20}, time.UTC, logger)

	s := &testServer{
		router: NewRouter(h, RouterConfig{
			JWTSecret:      testSecret,
			AllowedOrigins: []string{"*"},
			UploadDir:      uploadDir,
		}, logger),
		store:     store,
		uploadDir: uploadDir,
	}

	s.admin = s.user(t, model.RoleAdmin, "admin@example.com")
	s.mentor = s.user(t, model.RoleMentor, "mentor@example.com")
	s.nurse = s.user(t, model.RoleNurse, "nurse@example.com")
	s.other = s.user(t, model.RoleNurse, "other@example.com")
	return s
}

func (s *testServer) user(t *testing.T, role model.Role, email string) *model.User {
	t.Helper()
	u := &model.User{FullName: string(role), Email: email, Role: role, Specialization: "icu"}
	require.NoError(t, s.store.Users.Create(context.Background(), u))
	return u
}

func token(t *testing.T, u *model.User) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do выполняет запрос; as == nil - без токена
func (s *testServer) do(t *testing.T, method, path string, as *model.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, as))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	if message != "" {
		assert.Equal(t, message, body["error"])
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t)

	requireError(t, s.do(t, http.MethodGet, "/api/v1/me", nil, nil), http.StatusUnauthorized, "Authorization required")
	requireError(t, s.do(t, http.MethodGet, "/api/v1/my/mentor-bookings", nil, nil), http.StatusUnauthorized, "")

	w := s.do(t, http.MethodGet, "/api/v1/me", s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "nurse@example.com", me["email"])
	assert.NotContains(t, w.Body.String(), "telegram")

	requireError(t, s.do(t, http.MethodPost, "/api/v1/mentor/availability", s.nurse, map[string]interface{}{}), http.StatusForbidden, "")
	requireError(t, s.do(t, http.MethodPost, "/api/v1/admin/assessments", s.mentor, map[string]interface{}{}), http.StatusForbidden, "")
	requireError(t, s.do(t, http.MethodPut, "/api/v1/admin/mentor-bookings/1/complete", s.nurse, nil), http.StatusForbidden, "")
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	start := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Minute)

	w := s.do(t, http.MethodPost, "/api/v1/mentor/availability", s.mentor, map[string]interface{}{
		"startDateTime": start,
		"endDateTime":   start.Add(time.Hour),
		"maxBookings":   2,
		"price":         1999,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	slot := decode(t, w)["slot"].(map[string]interface{})
	slotID := int64(slot["id"].(float64))
	assert.Equal(t, float64(0), slot["currentBookings"])
	assert.Equal(t, "video", slot["sessionType"])

	w = s.do(t, http.MethodGet, "/api/v1/mentors/availability", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Len(t, list["slots"], 1)
	assert.Equal(t, float64(1), list["pagination"].(map[string]interface{})["total"])

	path := fmt.Sprintf("/api/v1/mentors/availability/%d/book", slotID)
	w = s.do(t, http.MethodPost, path, s.nurse, map[string]string{"notes": "Triage questions"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	booking := created["booking"].(map[string]interface{})
	assert.Equal(t, "confirmed", booking["status"])
	assert.Equal(t, float64(slotID), booking["availabilityId"])
	assert.True(t, strings.HasPrefix(booking["meetingLink"].(string), "https://meet.example.com/"))
	bookingID := int64(booking["id"].(float64))

	requireError(t, s.do(t, http.MethodPost, path, s.nurse, nil), http.StatusConflict, "you have already booked this slot")

	w = s.do(t, http.MethodPost, path, s.other, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	third := s.user(t, model.RoleNurse, "third@example.com")
	requireError(t, s.do(t, http.MethodPost, path, third, nil), http.StatusConflict, "slot is fully booked")

	// Заполненный слот пропадает из выдачи
	w = s.do(t, http.MethodGet, "/api/v1/mentors/availability", nil, nil)
	assert.Len(t, decode(t, w)["slots"], 0)

	w = s.do(t, http.MethodGet, "/api/v1/mentor/bookings?upcoming=true", s.mentor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["bookings"], 2)

	cancelPath := fmt.Sprintf("/api/v1/my/mentor-bookings/%d/cancel", bookingID)
	requireError(t, s.do(t, http.MethodPut, cancelPath, third, nil), http.StatusNotFound, "booking not found")

	w = s.do(t, http.MethodPut, cancelPath, s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decode(t, w)["booking"].(map[string]interface{})["status"])

	requireError(t, s.do(t, http.MethodPut, cancelPath, s.nurse, nil), http.StatusBadRequest, "booking is already cancelled")

	w = s.do(t, http.MethodGet, "/api/v1/mentors/availability", nil, nil)
	assert.Len(t, decode(t, w)["slots"], 1)
}

func TestCancelInsideWindow(t *testing.T) {
	s := newTestServer(t)

	slot := &model.MentorAvailability{
		MentorID:      s.mentor.ID,
		StartDateTime: time.Now().Add(3 * time.Hour),
		EndDateTime:   time.Now().Add(4 * time.Hour),
		MaxBookings:   1,
		SessionType:   model.SessionTypeVideo,
		IsActive:      true,
	}
	require.NoError(t, s.store.Availability.Create(context.Background(), slot))

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/mentors/availability/%d/book", slot.ID), s.nurse, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := int64(decode(t, w)["booking"].(map[string]interface{})["id"].(float64))

	requireError(t, s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/my/mentor-bookings/%d/cancel", bookingID), s.nurse, nil),
		http.StatusBadRequest, model.ErrCancellationWindow.Error())
}

func TestBookUnknownSlot(t *testing.T) {
	s := newTestServer(t)

	requireError(t, s.do(t, http.MethodPost, "/api/v1/mentors/availability/999/book", s.nurse, nil), http.StatusNotFound, "slot not found")
	requireError(t, s.do(t, http.MethodPost, "/api/v1/mentors/availability/abc/book", s.nurse, nil), http.StatusBadRequest, "invalid slotId")
}

func TestListPageTooLarge(t *testing.T) {
	s := newTestServer(t)
	huge := fmt.Sprintf("%d", math.MaxInt/5)

	requireError(t, s.do(t, http.MethodGet, "/api/v1/mentors/availability?page="+huge, nil, nil), http.StatusBadRequest, "page is too large")
	requireError(t, s.do(t, http.MethodGet, "/api/v1/content?page="+huge, s.nurse, nil), http.StatusBadRequest, "page is too large")
}

func TestAssessmentFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/admin/assessments", s.admin, map[string]interface{}{
		"title": "Medication safety",
		"type":  "standalone",
		"questions": []map[string]interface{}{
			{"text": "Five rights include?", "options": []string{"right patient", "right color"}, "correctAnswer": 0},
			{"text": "Max paracetamol per day?", "options": []string{"4 g", "10 g"}, "correctAnswer": 0},
			{"text": "Check ID before?", "options": []string{"never", "every dose"}, "correctAnswer": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "correctAnswer", "admin sees answers")
	id := int64(decode(t, w)["assessment"].(map[string]interface{})["id"].(float64))

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/assessments/%d", id), s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correctAnswer")

	w = s.do(t, http.MethodGet, "/api/v1/assessments?type=standalone", s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["assessments"], 1)
	assert.NotContains(t, w.Body.String(), "correctAnswer")

	submitPath := fmt.Sprintf("/api/v1/assessments/%d/submit", id)
	w = s.do(t, http.MethodPost, submitPath, s.nurse, map[string]interface{}{"answers": []int{0, 0, 0}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode(t, w)
	assert.Equal(t, 66.67, result["score"])
	assert.Equal(t, false, result["passed"])
	assert.Equal(t, float64(3), result["totalQuestions"])
	assert.Equal(t, float64(2), result["correctAnswers"])
	assert.Equal(t, "standalone", result["assessmentType"])
	attemptID := int64(result["attemptId"].(float64))

	requireError(t, s.do(t, http.MethodPost, submitPath, s.nurse, map[string]interface{}{"answers": []int{0, 0, 1}}),
		http.StatusConflict, "assessment already submitted")

	resultPath := fmt.Sprintf("/api/v1/assessments/result/%d", attemptID)
	w = s.do(t, http.MethodGet, resultPath, s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)

	requireError(t, s.do(t, http.MethodGet, resultPath, s.other, nil), http.StatusForbidden, "")

	w = s.do(t, http.MethodGet, "/api/v1/my/assessment-attempts", s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["attempts"], 1)
}

func TestCoupons(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/coupons/WELCOME100?basePrice=1999", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote := decode(t, w)["quote"].(map[string]interface{})
	assert.Equal(t, float64(1899), quote["finalPrice"])
	assert.Equal(t, float64(100), quote["discount"])

	requireError(t, s.do(t, http.MethodGet, "/api/v1/coupons/SUMMER25?basePrice=1999", nil, nil), http.StatusBadRequest, "invalid coupon code")
	requireError(t, s.do(t, http.MethodGet, "/api/v1/coupons/WELCOME100?basePrice=abc", nil, nil), http.StatusBadRequest, "")

	w = s.do(t, http.MethodPost, "/api/v1/payments/checkout", s.nurse, map[string]interface{}{
		"itemType":  "course",
		"itemId":    7,
		"basePrice": 1999,
		"code":      "welcome100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1899), decode(t, w)["purchase"].(map[string]interface{})["finalPrice"])

	w = s.do(t, http.MethodPost, "/api/v1/payments/checkout", s.nurse, map[string]interface{}{"basePrice": 10})
	requireError(t, w, http.StatusBadRequest, "")
	assert.Contains(t, decode(t, w)["error"], "itemType is required")
}

func TestMentorWeekImage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/mentors/%d/availability/week.png?date=2026-03-10", s.mentor.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)

	requireError(t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/mentors/%d/availability/week.png?date=10.03", s.mentor.ID), nil, nil),
		http.StatusBadRequest, "")
}

func TestContentVisibility(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/admin/content", s.admin, map[string]interface{}{
		"kind":  "workshop",
		"title": "IV insertion",
		"slug":  "iv-insertion",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := int64(decode(t, w)["item"].(map[string]interface{})["id"].(float64))

	requireError(t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/content/%d", id), s.nurse, nil), http.StatusNotFound, "")

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/content/%d/status", id), s.admin, map[string]interface{}{"status": "published"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/content/%d", id), s.nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/admin/content", s.admin, map[string]interface{}{
		"kind":  "workshop",
		"title": "Duplicate",
		"slug":  "iv-insertion",
	})
	requireError(t, w, http.StatusConflict, "slug is already taken")
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formType := multipartBody(t, filename, contentType, data)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Authorization", "Bearer "+token(t, s.nurse))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, img))

	// Заявленный тип и имя файла не влияют на результат
	w := s.upload(t, "avatar.exe", "application/octet-stream", pngData.Bytes())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "images", body["bucket"])

	url := body["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(s.uploadDir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngData.Bytes(), stored)

	// Загруженный файл отдаётся статикой
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w = s.upload(t, "notes.txt", "text/plain", []byte("plain text notes\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "documents", decode(t, w)["bucket"])

	w = s.upload(t, "page.html", "text/html", []byte("<!DOCTYPE html><html><body>hi</body></html>"))
	requireError(t, w, http.StatusBadRequest, "")

	big := bytes.Repeat([]byte("a"), (1<<20)+10)
	w = s.upload(t, "big.txt", "text/plain", big)
	requireError(t, w, http.StatusBadRequest, "")
}

func TestClassifyMIME(t *testing.T) {
	assert.Equal(t, handlers.BucketImages, handlers.ClassifyMIME("image/jpeg"))
	assert.Equal(t, handlers.BucketVideos, handlers.ClassifyMIME("video/mp4"))
	assert.Equal(t, handlers.BucketDocuments, handlers.ClassifyMIME("application/pdf"))
	assert.Equal(t, handlers.BucketDocuments, handlers.ClassifyMIME("text/plain; charset=utf-8"))
	assert.Equal(t, "", handlers.ClassifyMIME("text/html"))
	assert.Equal(t, "", handlers.ClassifyMIME("application/x-msdownload"))
}
