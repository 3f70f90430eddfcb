package usecase

import (
	"math/rand"
	"strings"
	"time"

	"dayboard-backend/internal/triage/domain"
)

var (
	deadlineKeywords = []string{"deadline", "due", "urgent", "asap"}
	meetingKeywords  = []string{"meeting", "appointment", "call", "conference"}
	questionKeywords = []string{"question", "help", "clarify"}
	socialKeywords   = []string{"dinner", "party", "birthday", "celebration"}
)

var cannedReplies = map[domain.Category]string{
	domain.CategoryDeadline:    "I understand the urgency of this request. I'll prioritize this and ensure it's completed by the deadline. Thank you for the clear timeline.",
	domain.CategoryMeeting:     "Thank you for the meeting invitation. I'll check my calendar and confirm my availability shortly. Looking forward to our discussion.",
	domain.CategoryQuestion:    "Thank you for your question. I'll look into this thoroughly and provide you with a comprehensive response within the next day.",
	domain.CategorySocial:      "Thanks for the invitation! I appreciate you thinking of me. I'll check my schedule and let you know my availability soon.",
	domain.CategoryInformation: "Thank you for your email. I'll review this and get back to you soon.",
}

// Alternate phrasings used on regeneration. The information category has
// no variants and keeps its fixed template.
var replyVariants = map[domain.Category][]string{
	domain.CategoryDeadline: {
		"I acknowledge the deadline and will make this a top priority. I'll ensure everything is completed on time.",
		"Thank you for the deadline reminder. I'm already working on this and will deliver it as requested.",
		"I understand the time sensitivity. I'll focus on this immediately and keep you updated on progress.",
	},
	domain.CategoryMeeting: {
		"I've received your meeting request. Let me review my calendar and respond with my availability.",
		"Thank you for scheduling this. I'll confirm my attendance and prepare for our discussion.",
		"I appreciate the meeting invitation. I'll check my schedule and get back to you with confirmation.",
	},
	domain.CategoryQuestion: {
		"Great question! I'll research this thoroughly and provide you with detailed information.",
		"Thank you for reaching out. I'll investigate this and respond with comprehensive details.",
		"I'll look into this right away and provide you with the information you need.",
	},
	domain.CategorySocial: {
		"What a lovely invitation! I'll check my calendar and let you know if I can join.",
		"Thank you for including me! I'll review my schedule and respond with my availability.",
		"I'm honored by the invitation. Let me confirm my availability and get back to you.",
	},
}

var taskPrefixes = map[domain.Category]string{
	domain.CategoryDeadline:    "Complete: ",
	domain.CategoryMeeting:     "Prepare for: ",
	domain.CategoryQuestion:    "Respond to: ",
	domain.CategorySocial:      "RSVP for: ",
	domain.CategoryInformation: "Follow up on: ",
}

// Classify is the keyword fallback classifier. It is deterministic except
// for the regenerate path, never touches the network, and produces the
// same result shape as the model so the UI cannot tell them apart.
func Classify(subject, sender, body string, regenerate bool) *domain.ClassificationResult {
	content := strings.ToLower(subject + " " + body)

	category := domain.CategoryInformation
	priority := "medium"
	switch {
	case containsAny(content, deadlineKeywords):
		category = domain.CategoryDeadline
		priority = "high"
	case containsAny(content, meetingKeywords):
		category = domain.CategoryMeeting
	case strings.Contains(content, "?") || containsAny(content, questionKeywords):
		category = domain.CategoryQuestion
	case containsAny(content, socialKeywords):
		category = domain.CategorySocial
		priority = "low"
	}

	reply := cannedReplies[category]
	if regenerate {
		if variants, ok := replyVariants[category]; ok {
			reply = variants[rand.Intn(len(variants))]
		}
	}

	tone := "friendly"
	if strings.Contains(sender, "@company.com") {
		tone = "professional"
	}

	result := &domain.ClassificationResult{
		Reply:          reply,
		Tone:           tone,
		TaskSuggestion: taskPrefixes[category] + subject,
		Priority:       priority,
		Category:       category,
		Source:         domain.SourceHeuristic,
	}

	if category == domain.CategoryMeeting || category == domain.CategorySocial {
		result.IsEvent = true
		result.EventDetails = &domain.EventDetails{
			Title:    subject,
			Date:     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
			Time:     "14:00",
			Location: "TBD",
		}
	}

	if category == domain.CategoryDeadline {
		result.HasDeadline = true
		result.Deadline = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	}

	return result
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
