package verify

import (
	"context"
	"strings"

	"recruiterrisk/internal/trust/models"
)

// Email deliverability statuses and their verification scores. Live providers
// normalize into these statuses; unknown statuses score the neutral default.
const (
	EmailStatusValid      = "valid"
	EmailStatusAcceptAll  = "accept_all"
	EmailStatusWebmail    = "webmail"
	EmailStatusDisposable = "disposable"
	EmailStatusInvalid    = "invalid"
)

var emailStatusScores = map[string]int{
	EmailStatusValid:      90,
	EmailStatusAcceptAll:  60,
	EmailStatusWebmail:    40,
	EmailStatusDisposable: 5,
	EmailStatusInvalid:    0,
}

const emailDefaultScore = 50

// EmailStatusScore maps a deliverability status to its score. Statuses the
// mapping does not know score the neutral default.
func EmailStatusScore(status string) int {
	if score, ok := emailStatusScores[status]; ok {
		return score
	}
	return emailDefaultScore
}

// HeuristicEmailVerifier classifies by the address's domain alone. It is the
// default implementation and the fallback when a live provider degrades.
type HeuristicEmailVerifier struct {
	disposable map[string]bool
	webmail    map[string]bool
}

// NewHeuristicEmailVerifier builds the verifier with the built-in domain lists.
func NewHeuristicEmailVerifier() *HeuristicEmailVerifier {
	return &HeuristicEmailVerifier{
		disposable: map[string]bool{
			"tempmail.com":       true,
			"10minutemail.com":   true,
			"guerrillamail.com":  true,
			"mailinator.com":     true,
			"throwawaymail.com":  true,
			"getnada.com":        true,
			"temp-mail.org":      true,
			"sharklasers.com":    true,
			"dispostable.com":    true,
			"fakeinbox.com":      true,
			"trashmail.com":      true,
			"yopmail.com":        true,
			"maildrop.cc":        true,
			"mintemail.com":      true,
			"spamgourmet.com":    true,
			"mytemp.email":       true,
			"burnermail.io":      true,
			"emailondeck.com":    true,
			"tempinbox.com":      true,
			"anonymbox.com":      true,
			"mail-temporaire.fr": true,
		},
		webmail: map[string]bool{
			"gmail.com":      true,
			"yahoo.com":      true,
			"hotmail.com":    true,
			"outlook.com":    true,
			"aol.com":        true,
			"icloud.com":     true,
			"protonmail.com": true,
			"mail.com":       true,
			"gmx.com":        true,
			"zoho.com":       true,
		},
	}
}

// VerifyEmail classifies the address by domain. A disposable domain is a hard
// negative; webmail is legitimate but carries no employer signal; anything
// else is assumed to be a work address.
func (v *HeuristicEmailVerifier) VerifyEmail(_ context.Context, email string) (models.EmailVerification, error) {
	domain := emailDomain(email)
	switch {
	case domain == "":
		return models.EmailVerification{Status: EmailStatusInvalid, Score: 0}, nil
	case v.disposable[domain]:
		return models.EmailVerification{
			Status:       EmailStatusDisposable,
			Score:        5,
			IsDisposable: true,
		}, nil
	case v.webmail[domain]:
		return models.EmailVerification{
			Verified: true,
			Status:   EmailStatusWebmail,
			Score:    45,
		}, nil
	default:
		return models.EmailVerification{
			Verified: true,
			Status:   EmailStatusValid,
			Score:    85,
		}, nil
	}
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
