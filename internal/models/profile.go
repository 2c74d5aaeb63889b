package models

import "strings"

// UserProfile is the identity/consent/demographic record created at
// onboarding submission. Immutable for the rest of the session.
type UserProfile struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Age              int     `json:"age"`
	Gender           int     `json:"gender"`
	Education        int     `json:"education"`
	FamilyHistory    int     `json:"family_history"`
	Diabetes         int     `json:"diabetes"`
	Hypertension     int     `json:"hypertension"`
	Depression       int     `json:"depression"`
	HeadInjury       int     `json:"head_injury"`
	SleepQuality     float64 `json:"sleep_quality"`
	PhysicalActivity float64 `json:"physical_activity"`
	Smoking          int     `json:"smoking"`
	Language         string  `json:"language"`
	Consent          bool    `json:"consent"`
}

// Validate checks the onboarding submission field by field. The returned map
// is keyed by field name so the form can surface errors inline; an empty map
// means the profile is acceptable.
func (p *UserProfile) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(p.Name)
	if len(name) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	} else if len(name) > 120 {
		errs["name"] = "Name is too long"
	}

	if p.Age < 18 {
		errs["age"] = "Must be 18 or older"
	} else if p.Age > 120 {
		errs["age"] = "Please enter a valid age"
	}

	if p.Gender < 0 || p.Gender > 1 {
		errs["gender"] = "Invalid gender code"
	}
	if p.Education < 0 || p.Education > 3 {
		errs["education"] = "Invalid education level"
	}

	for field, v := range map[string]int{
		"family_history": p.FamilyHistory,
		"diabetes":       p.Diabetes,
		"hypertension":   p.Hypertension,
		"depression":     p.Depression,
		"head_injury":    p.HeadInjury,
		"smoking":        p.Smoking,
	} {
		if v < 0 || v > 1 {
			errs[field] = "Must be 0 or 1"
		}
	}

	if p.SleepQuality < 4 || p.SleepQuality > 10 {
		errs["sleep_quality"] = "Sleep quality is rated 4-10"
	}
	if p.PhysicalActivity < 0 || p.PhysicalActivity > 10 {
		errs["physical_activity"] = "Physical activity is rated 0-10"
	}

	if p.Language == "" {
		errs["language"] = "Select a language"
	}

	// Consent gates the whole workflow; nothing proceeds without it.
	if !p.Consent {
		errs["consent"] = "Consent is required to continue"
	}

	return errs
}
