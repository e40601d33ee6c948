package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mimbar/config"
	dbpkg "mimbar/db"
	"mimbar/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWebhookTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)

	var cfg config.Configuration
	cfg.Webhook.DeviceID = "device-1"
	cfg.Webhook.GroupTrigger = "/review"
	cfg.OpenAI.Model = "gpt-4o-mini"
	SetConfigurations(cfg)
	t.Cleanup(func() { SetConfigurations(config.Configuration{}) })

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	r.GET("/webhook/ingest", WebhookHealth)
	r.POST("/webhook/ingest", WebhookIngest)
	return db, r
}

func stubExtractor(t *testing.T, out string, err error) {
	t.Helper()
	orig := extractReviews
	extractReviews = func(ctx context.Context, model string, message string) (string, error) {
		return out, err
	}
	t.Cleanup(func() { extractReviews = orig })
}

// stubReplies captures fire-and-forget dispatches on a channel.
func stubReplies(t *testing.T) chan string {
	t.Helper()
	ch := make(chan string, 8)
	orig := sendReply
	sendReply = func(ctx context.Context, target string, text string) error {
		ch <- text
		return nil
	}
	t.Cleanup(func() { sendReply = orig })
	return ch
}

func awaitReply(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case text := <-ch:
		return text
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reply dispatch, got none")
		return ""
	}
}

func assertNoReply(t *testing.T, ch chan string) {
	t.Helper()
	select {
	case text := <-ch:
		t.Fatalf("expected no reply dispatch, got %q", text)
	case <-time.After(100 * time.Millisecond):
	}
}

func postWebhook(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func countReviews(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Model(&models.Review{}).Count(&n).Error)
	return n
}

func TestWebhookHealth(t *testing.T) {
	_, r := setupWebhookTest(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/ingest", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])
}

func TestWebhookIngest_InvalidJSON(t *testing.T) {
	db, r := setupWebhookTest(t)

	w := postWebhook(r, `{"message": broken`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, OUTCOME_INVALID_JSON, decodeBody(t, w)["reason"])

	// the raw body was still captured
	var row models.WebhookLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, `{"message": broken`, row.Body)
}

func TestWebhookIngest_MissingMessage(t *testing.T) {
	_, r := setupWebhookTest(t)

	w := postWebhook(r, `{"message":"   ","device":"device-1","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, OUTCOME_MISSING_MESSAGE, decodeBody(t, w)["reason"])
}

func TestWebhookIngest_InvalidDevice(t *testing.T) {
	_, r := setupWebhookTest(t)

	w := postWebhook(r, `{"message":"halo","device":"someone-elses-device","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, OUTCOME_INVALID_DEVICE, decodeBody(t, w)["reason"])
}

func TestWebhookIngest_GroupWithoutTrigger(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)
	stubExtractor(t, `[]`, nil)

	w := postWebhook(r, `{"message":"hello everyone","device":"device-1","sender":"12036304@g.us","member":"628123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, OUTCOME_NO_TRIGGER, body["reason"])

	assert.Zero(t, countReviews(t, db))
	assertNoReply(t, replies)
}

func TestWebhookIngest_EmptyAfterStrip(t *testing.T) {
	_, r := setupWebhookTest(t)
	replies := stubReplies(t)

	w := postWebhook(r, `{"message":"/review @628999","device":"device-1","sender":"12036304@g.us","member":"628123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, OUTCOME_EMPTY_AFTER_STRIP, body["reason"])
	assertNoReply(t, replies)
}

func TestWebhookIngest_DirectMessage_FullPipeline(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)

	seedMasjid(t, db, "Masjid Al Falah", "Surabaya", models.MASJID_STATUS_APPROVED)
	sender := models.User{Name: "Fulan", Phone: "628123"}
	require.NoError(t, db.Create(&sender).Error)

	// fenced output exercises the parser end to end
	stubExtractor(t, "```json\n[{\"masjid_name\":\"Masjid Al-Falah\",\"city\":null,\"rating\":5,\"review_text\":\"bagus banget\"}]\n```", nil)

	w := postWebhook(r, `{"message":"Masjid Al-Falah bagus banget, rating 5/5","device":"device-1","sender":"628123@s.whatsapp.net","name":"Fulan"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 1.0, body["extracted"])
	assert.Equal(t, 1.0, body["created"])

	var review models.Review
	require.NoError(t, db.First(&review).Error)
	assert.Equal(t, models.REVIEW_STATUS_PENDING, review.Status)
	assert.Equal(t, models.REVIEW_SOURCE_WHATSAPP, review.Source)
	assert.Equal(t, "Fulan", review.ReviewerName)
	assert.Equal(t, "628123", review.SenderContact)
	require.NotNil(t, review.Rating)
	assert.Equal(t, 5.0, *review.Rating)
	require.NotNil(t, review.UserID)
	assert.Equal(t, sender.ID, *review.UserID)

	reply := awaitReply(t, replies)
	assert.Contains(t, reply, "Masjid Al Falah")
}

func TestWebhookIngest_GroupWithTrigger(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)

	seedMasjid(t, db, "Masjid Istiqlal", "Jakarta", models.MASJID_STATUS_APPROVED)
	stubExtractor(t, `[{"masjid_name":"Istiqlal","city":"Jakarta","rating":4,"review_text":"megah"}]`, nil)

	w := postWebhook(r, `{"message":"/REVIEW Istiqlal megah, 4/5","device":"device-1","sender":"12036304@g.us","member":"628555","name":""}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var review models.Review
	require.NoError(t, db.First(&review).Error)
	assert.Equal(t, "628555", review.SenderContact) // group member id, as-is
	assert.Equal(t, "628555", review.ReviewerName)  // no name field, member wins

	awaitReply(t, replies)
}

func TestWebhookIngest_EmptyExtraction(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)
	stubExtractor(t, `[]`, nil)

	w := postWebhook(r, `{"message":"assalamualaikum","device":"device-1","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "ai_returned_empty", body["reason"])
	assert.Equal(t, 0.0, body["extracted"])

	assert.Zero(t, countReviews(t, db))
	assert.Equal(t, guidanceReply, awaitReply(t, replies))
}

func TestWebhookIngest_NotParseable(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)
	stubExtractor(t, "Sorry, I cannot produce JSON for that.", nil)

	w := postWebhook(r, `{"message":"Masjid Al-Falah bagus","device":"device-1","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "not_parseable", body["reason"])

	assert.Zero(t, countReviews(t, db))
	assert.Equal(t, guidanceReply, awaitReply(t, replies))
}

func TestWebhookIngest_NotArray(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)
	stubExtractor(t, `{"masjid_name":"Al Falah"}`, nil)

	w := postWebhook(r, `{"message":"Masjid Al-Falah bagus","device":"device-1","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "not_array", body["reason"])

	assert.Zero(t, countReviews(t, db))
	// non-array gets the same guidance as unparseable output
	assert.Equal(t, guidanceReply, awaitReply(t, replies))
}

func TestWebhookIngest_ExtractionFailure(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)
	stubExtractor(t, "", context.DeadlineExceeded)

	w := postWebhook(r, `{"message":"Masjid Al-Falah bagus","device":"device-1","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "extract_failed", body["reason"])
	assert.NotEmpty(t, body["detail"])

	assert.Zero(t, countReviews(t, db))
	assertNoReply(t, replies)
}

func TestWebhookIngest_MixedBatch(t *testing.T) {
	db, r := setupWebhookTest(t)
	replies := stubReplies(t)

	seedMasjid(t, db, "Masjid Al Falah", "Surabaya", models.MASJID_STATUS_APPROVED)
	stubExtractor(t, `[
		{"masjid_name":"Al Falah","rating":5,"review_text":"bagus"},
		{"masjid_name":"Masjid Baiturrahman","city":"Aceh","rating":4,"review_text":"indah"}
	]`, nil)

	w := postWebhook(r, `{"message":"dua ulasan sekaligus","device":"device-1","sender":"628123@s.whatsapp.net"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 2.0, body["extracted"])
	assert.Equal(t, 1.0, body["created"])
	assert.Equal(t, []any{"Masjid Baiturrahman"}, body["unresolved"])

	assert.Equal(t, 1, countReviews(t, db))

	reply := awaitReply(t, replies)
	assert.Contains(t, reply, "Masjid Al Falah")
	assert.Contains(t, reply, "Masjid Baiturrahman")
	assert.Contains(t, reply, "menambahkannya")
}

func TestNormalizeInbound_DisplayNamePlaceholder(t *testing.T) {
	setupWebhookTest(t)

	msg, outcome := normalizeInbound(ingestPayload{
		Message: "Masjid Al-Falah bagus",
		Device:  "device-1",
		Sender:  "",
	})
	require.Empty(t, outcome)
	assert.Equal(t, fallbackReviewerName, msg.DisplayName)
}
