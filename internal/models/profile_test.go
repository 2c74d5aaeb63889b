package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProfile() UserProfile {
	return UserProfile{
		Name:             "Asha Verma",
		Age:              64,
		Gender:           1,
		Education:        2,
		FamilyHistory:    1,
		SleepQuality:     7,
		PhysicalActivity: 4,
		Language:         "hi",
		Consent:          true,
	}
}

func TestValidProfilePasses(t *testing.T) {
	p := validProfile()
	assert.Empty(t, p.Validate())
}

func TestProfileFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UserProfile)
		field  string
	}{
		{"short name", func(p *UserProfile) { p.Name = "A" }, "name"},
		{"underage", func(p *UserProfile) { p.Age = 17 }, "age"},
		{"impossible age", func(p *UserProfile) { p.Age = 130 }, "age"},
		{"bad gender code", func(p *UserProfile) { p.Gender = 3 }, "gender"},
		{"bad education", func(p *UserProfile) { p.Education = 9 }, "education"},
		{"bad binary flag", func(p *UserProfile) { p.Diabetes = 2 }, "diabetes"},
		{"sleep below range", func(p *UserProfile) { p.SleepQuality = 2 }, "sleep_quality"},
		{"activity above range", func(p *UserProfile) { p.PhysicalActivity = 11 }, "physical_activity"},
		{"missing consent", func(p *UserProfile) { p.Consent = false }, "consent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			errs := p.Validate()
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestValidateReportsAllFieldsAtOnce(t *testing.T) {
	p := UserProfile{}
	errs := p.Validate()
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "age")
	assert.Contains(t, errs, "consent")
}

func TestUserPasswordHashing(t *testing.T) {
	u := &User{Email: "doc@example.org"}
	assert.NoError(t, u.SetPassword("Str0ng!Pass"))
	assert.NotEqual(t, "Str0ng!Pass", u.Password)
	assert.True(t, u.CheckPassword("Str0ng!Pass"))
	assert.False(t, u.CheckPassword("wrong"))
}
