package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	dbpkg "mimbar/db"
	"mimbar/models"
	"mimbar/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const (
	OUTCOME_INVALID_JSON      = "invalid_json"
	OUTCOME_MISSING_MESSAGE   = "missing_message"
	OUTCOME_INVALID_DEVICE    = "invalid_device"
	OUTCOME_NO_TRIGGER        = "no_trigger"
	OUTCOME_EMPTY_AFTER_STRIP = "empty_after_strip"
)

const groupSuffix = "@g.us"
const fallbackReviewerName = "Hamba Allah"

// Indirection so tests can stub the external services.
var extractReviews = tools.ExtractReviews

var sendReply = func(ctx context.Context, target string, text string) error {
	client := tools.GatewayClient{
		BaseURL: conf.Gateway.BaseURL,
		Token:   conf.Gateway.Token,
	}
	return client.SendText(ctx, target, text)
}

type ingestPayload struct {
	Message string `json:"message"`
	Device  string `json:"device"`
	Sender  string `json:"sender"`
	Name    string `json:"name"`
	Member  string `json:"member"`
}

// normalizedMessage is the result of the channel-specific rules: who sent
// it, where the reply goes, and the text that is left for extraction.
type normalizedMessage struct {
	ReplyTarget   string
	SenderContact string
	DisplayName   string
	Text          string
	IsGroup       bool
}

var mentionPattern = regexp.MustCompile(`@\d+`)

// GET /webhook/ingest — liveness probe for the gateway, no side effects.
func WebhookHealth(c *gin.Context) {
	RespondSuccess(c, gin.H{"ok": true})
}

// POST /webhook/ingest
//
// One synchronous unit of work: log raw body, normalize, extract, match,
// persist, reply. The gateway retries on non-2xx, so everything past basic
// input validation answers 200 even when it failed — the log row carries
// the real outcome.
func WebhookIngest(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": OUTCOME_INVALID_JSON})
		return
	}

	// Raw body is captured before any validation so even malformed calls
	// stay inspectable.
	logID := openWebhookLog(db, raw)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[webhook] pipeline panic: %v", r)
			recordWebhookLog(db, logID, map[string]any{"outcome": "error", "error": fmt.Sprint(r)})
			c.JSON(http.StatusOK, gin.H{"ok": false, "reason": "internal_error", "detail": fmt.Sprint(r)})
		}
	}()

	var payload ingestPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		recordWebhookLog(db, logID, map[string]any{"outcome": OUTCOME_INVALID_JSON})
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": OUTCOME_INVALID_JSON})
		return
	}

	msg, outcome := normalizeInbound(payload)
	if outcome != "" {
		recordWebhookLog(db, logID, map[string]any{"outcome": outcome})
		switch outcome {
		case OUTCOME_MISSING_MESSAGE, OUTCOME_INVALID_DEVICE:
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": outcome})
		default:
			// Untriggered group chatter and empty-after-strip are not
			// errors; they are just not for us. No reply either.
			c.JSON(http.StatusOK, gin.H{"ok": true, "reason": outcome})
		}
		return
	}

	rawOutput, err := extractReviews(c.Request.Context(), conf.OpenAI.Model, msg.Text)
	if err != nil {
		log.Printf("[webhook] extraction failed: %v", err)
		recordWebhookLog(db, logID, map[string]any{"outcome": "extract_failed", "error": err.Error()})
		c.JSON(http.StatusOK, gin.H{"ok": false, "reason": "extract_failed", "detail": err.Error()})
		return
	}

	candidates, skipped, parseOutcome := tools.ParseCandidates(rawOutput)
	if parseOutcome != tools.PARSE_OK {
		recordWebhookLog(db, logID, map[string]any{"outcome": parseOutcome, "raw": rawOutput})
		dispatchReply(msg.ReplyTarget, guidanceReply)
		c.JSON(http.StatusOK, gin.H{"ok": false, "reason": parseOutcome})
		return
	}

	if len(candidates) == 0 {
		recordWebhookLog(db, logID, map[string]any{"outcome": "ai_returned_empty", "skipped": skipped})
		dispatchReply(msg.ReplyTarget, guidanceReply)
		c.JSON(http.StatusOK, gin.H{"ok": true, "reason": "ai_returned_empty", "extracted": 0})
		return
	}

	created, unresolved := persistCandidates(db, msg, candidates)

	recordWebhookLog(db, logID, map[string]any{
		"outcome":    "processed",
		"extracted":  len(candidates),
		"created":    created,
		"unresolved": unresolved,
		"skipped":    skipped,
	})

	if reply := composeSummaryReply(created, unresolved); reply != "" {
		dispatchReply(msg.ReplyTarget, reply)
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"extracted":  len(candidates),
		"created":    len(created),
		"unresolved": unresolved,
	})
}

// normalizeInbound applies the channel rules in order. A non-empty outcome
// short-circuits the pipeline.
func normalizeInbound(p ingestPayload) (normalizedMessage, string) {
	var msg normalizedMessage

	text := strings.TrimSpace(p.Message)
	if text == "" {
		return msg, OUTCOME_MISSING_MESSAGE
	}

	// Shared endpoint: only the provisioned device may deliver here.
	if p.Device != conf.Webhook.DeviceID {
		return msg, OUTCOME_INVALID_DEVICE
	}

	sender := strings.TrimSpace(p.Sender)
	msg.IsGroup = strings.HasSuffix(sender, groupSuffix)
	msg.ReplyTarget = sender

	if msg.IsGroup {
		trigger := conf.Webhook.GroupTrigger
		if !strings.HasPrefix(strings.ToLower(text), strings.ToLower(trigger)) {
			// Groups are noisy; chatter without the trigger is silently
			// ignored.
			return msg, OUTCOME_NO_TRIGGER
		}
		text = strings.TrimSpace(text[len(trigger):])
	}

	text = strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
	if text == "" {
		return msg, OUTCOME_EMPTY_AFTER_STRIP
	}
	msg.Text = text

	member := strings.TrimSpace(p.Member)
	if msg.IsGroup {
		msg.SenderContact = member
	} else {
		msg.SenderContact = stripServerSuffix(sender)
	}

	msg.DisplayName = strings.TrimSpace(p.Name)
	if msg.DisplayName == "" {
		if msg.IsGroup {
			msg.DisplayName = member
		} else {
			msg.DisplayName = msg.SenderContact
		}
	}
	if msg.DisplayName == "" {
		msg.DisplayName = fallbackReviewerName
	}

	return msg, ""
}

func stripServerSuffix(jid string) string {
	if idx := strings.Index(jid, "@"); idx >= 0 {
		return jid[:idx]
	}
	return jid
}

// persistCandidates resolves and stores each candidate independently. One
// failing insert must not take the rest of the batch down, so this is a
// plain loop, not a transaction.
func persistCandidates(db *gorm.DB, msg normalizedMessage, candidates []tools.ReviewCandidate) (created []string, unresolved []string) {
	userID := lookupUserID(db, msg.SenderContact)

	for _, cand := range candidates {
		masjid, err := matchMasjid(db, cand.MasjidName, cand.City)
		if err != nil {
			log.Printf("[webhook] match query failed for %q: %v", cand.MasjidName, err)
			unresolved = append(unresolved, cand.MasjidName)
			continue
		}
		if masjid == nil {
			unresolved = append(unresolved, cand.MasjidName)
			continue
		}

		review := models.Review{
			MasjidID:      masjid.ID,
			ReviewerName:  msg.DisplayName,
			Rating:        cand.Rating,
			Text:          cand.ReviewText,
			Source:        models.REVIEW_SOURCE_WHATSAPP,
			Status:        models.REVIEW_STATUS_PENDING,
			SenderContact: msg.SenderContact,
			UserID:        userID,
		}
		if err := db.Create(&review).Error; err != nil {
			log.Printf("[webhook] review insert failed for %q: %v", masjid.Name, err)
			continue
		}
		created = append(created, masjid.Name)
	}

	return created, unresolved
}

// lookupUserID links the sender to a registered account when the phone
// matches. Opportunistic: no account, no link, no error.
func lookupUserID(db *gorm.DB, contact string) *int64 {
	if db == nil || strings.TrimSpace(contact) == "" {
		return nil
	}
	var user models.User
	if err := db.Where("phone = ?", contact).First(&user).Error; err != nil {
		return nil
	}
	return &user.ID
}

// dispatchReply fires the notification and forgets it. Delivery is not part
// of the correctness contract — the reviews are already saved — so the HTTP
// response never waits on the gateway.
func dispatchReply(target string, text string) {
	if target == "" || text == "" {
		return
	}
	go func() {
		if err := sendReply(context.Background(), target, text); err != nil {
			log.Printf("[webhook] reply dispatch failed: %v", err)
		}
	}()
}
