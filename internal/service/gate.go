package service

import (
	"fmt"
	"strings"

	api "github.com/townplan/assessment-portal/api/v1"
)

const ReasonMissingField = "missing-field"

// MissingDocumentReason builds the gate reason for one absent required
// document.
func MissingDocumentReason(documentID string) string {
	return fmt.Sprintf("missing-document:%s", documentID)
}

// ConfirmForm carries the free-text request fields checked by the gate.
type ConfirmForm struct {
	DevelopmentType string
	AdditionalInfo  string
}

// GateDecision is the outcome of the requirement gate. Reason is set only
// when the action is denied.
type GateDecision struct {
	Allowed bool
	Reason  string
}

// CanConfirmDetails decides whether the user may advance from filling in
// details to payment. Field checks run before document checks, so an empty
// development type always reports missing-field regardless of upload state.
// The same predicate runs in the UI and server-side before any write.
func CanConfirmDetails(form ConfirmForm, requiredDocumentIDs []string, documents map[string]api.DisplayStatus) GateDecision {
	if strings.TrimSpace(form.DevelopmentType) == "" {
		return GateDecision{Allowed: false, Reason: ReasonMissingField}
	}

	for _, id := range requiredDocumentIDs {
		if documents[id] != api.DisplayStatusUploaded {
			return GateDecision{Allowed: false, Reason: MissingDocumentReason(id)}
		}
	}

	return GateDecision{Allowed: true}
}
