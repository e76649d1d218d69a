// Package catalog holds the static reference data of the portal: the known
// assessment types, the document slots each job exposes, and the
// required-document sets gating each assessment submission.
package catalog

import (
	"fmt"
	"os"

	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"

	api "github.com/townplan/assessment-portal/api/v1"
)

// Descriptor describes one document slot on the documents page. Report
// descriptors are backed by an assessment sub-record instead of a plain
// upload.
type Descriptor struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Required bool   `json:"required"`
	Report   bool   `json:"report"`
}

// TypeSpec is the static configuration of one assessment type.
type TypeSpec struct {
	Type              api.AssessmentType `json:"type"`
	Title             string             `json:"title"`
	Category          string             `json:"category"`
	RequiredDocuments []string           `json:"requiredDocuments"`
}

type Catalog struct {
	types       map[api.AssessmentType]TypeSpec
	descriptors []Descriptor
}

// Well-known document slot ids.
const (
	DocumentSection107Certificate = "section-10-7-certificate"
	DocumentArchitecturalPlans    = "architectural-plans"
	DocumentSurveyPlan            = "survey-plan"
	DocumentOwnerConsent          = "owner-consent"
)

// Default returns the compiled-in catalog. The custom assessment is gated on
// the planning certificate; the waste-management assessment on the
// architectural plans; the initial assessment on the survey plan.
func Default() *Catalog {
	return &Catalog{
		types: map[api.AssessmentType]TypeSpec{
			api.AssessmentTypeCustom: {
				Type:              api.AssessmentTypeCustom,
				Title:             "Custom Assessment",
				Category:          "consultant",
				RequiredDocuments: []string{DocumentSection107Certificate},
			},
			api.AssessmentTypeWasteManagement: {
				Type:              api.AssessmentTypeWasteManagement,
				Title:             "Waste Management Assessment",
				Category:          "report",
				RequiredDocuments: []string{DocumentArchitecturalPlans},
			},
			api.AssessmentTypeInitial: {
				Type:              api.AssessmentTypeInitial,
				Title:             "Initial Assessment",
				Category:          "report",
				RequiredDocuments: []string{DocumentSurveyPlan},
			},
		},
		descriptors: []Descriptor{
			{ID: DocumentSection107Certificate, Title: "Section 10.7 Planning Certificate", Category: "supporting", Required: true},
			{ID: DocumentArchitecturalPlans, Title: "Architectural Plans", Category: "supporting", Required: true},
			{ID: DocumentSurveyPlan, Title: "Survey Plan", Category: "supporting", Required: true},
			{ID: DocumentOwnerConsent, Title: "Owner's Consent", Category: "supporting", Required: false},
			{ID: string(api.AssessmentTypeCustom), Title: "Custom Assessment", Category: "reports", Report: true},
			{ID: string(api.AssessmentTypeWasteManagement), Title: "Waste Management Assessment", Category: "reports", Report: true},
			{ID: string(api.AssessmentTypeInitial), Title: "Initial Assessment", Category: "reports", Report: true},
		},
	}
}

type catalogFile struct {
	Types       []TypeSpec   `json:"types"`
	Descriptors []Descriptor `json:"descriptors"`
}

// Load reads a catalog overlay from a YAML file. Entries replace the
// defaults by id/type; missing entries keep their compiled-in definition.
func Load(path string) (*Catalog, error) {
	c := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	for _, spec := range file.Types {
		if spec.Type == "" {
			return nil, fmt.Errorf("catalog type entry with empty type")
		}
		c.types[spec.Type] = spec
	}

	for _, d := range file.Descriptors {
		replaced := false
		for i := range c.descriptors {
			if c.descriptors[i].ID == d.ID {
				c.descriptors[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			c.descriptors = append(c.descriptors, d)
		}
	}

	return c, nil
}

// TypeSpec returns the configuration for an assessment type.
func (c *Catalog) TypeSpec(t api.AssessmentType) (TypeSpec, bool) {
	spec, ok := c.types[t]
	return spec, ok
}

// RequiredDocuments returns the document slot ids that must show uploaded
// before the given assessment can be submitted.
func (c *Catalog) RequiredDocuments(t api.AssessmentType) []string {
	if spec, ok := c.types[t]; ok {
		return spec.RequiredDocuments
	}
	return nil
}

// ReportType resolves a descriptor id to the assessment type backing it.
// Plain document slots return false.
func (c *Catalog) ReportType(descriptorID string) (api.AssessmentType, bool) {
	t := api.AssessmentType(descriptorID)
	_, ok := c.types[t]
	return t, ok
}

// Descriptor returns the descriptor with the given id.
func (c *Catalog) Descriptor(id string) (Descriptor, bool) {
	d := funk.Find(c.descriptors, func(d Descriptor) bool { return d.ID == id })
	if d == nil {
		return Descriptor{}, false
	}
	return d.(Descriptor), true
}

// Descriptors returns all document slots in display order.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Types returns the configured assessment types.
func (c *Catalog) Types() []TypeSpec {
	out := make([]TypeSpec, 0, len(c.types))
	for _, spec := range c.types {
		out = append(out, spec)
	}
	return out
}
