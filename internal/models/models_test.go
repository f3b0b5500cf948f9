package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileValid(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{"canonical url", Profile{Name: "Jane Doe", CanonicalURL: "https://www.linkedin.com/in/janedoe"}, true},
		{"lead url only", Profile{Name: "Jane Doe", LeadURL: "https://www.linkedin.com/sales/lead/ACw,NAME_SEARCH"}, true},
		{"missing name", Profile{CanonicalURL: "https://www.linkedin.com/in/janedoe"}, false},
		{"missing urls", Profile{Name: "Jane Doe"}, false},
		{"non-canonical url", Profile{Name: "Jane Doe", CanonicalURL: "https://www.linkedin.com/in/janedoe?miniProfile=x"}, false},
		{"company page", Profile{Name: "Acme", CanonicalURL: "https://www.linkedin.com/company/acme"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Valid())
		})
	}
}

func TestProfileTargetURL(t *testing.T) {
	p := Profile{CanonicalURL: "https://www.linkedin.com/in/janedoe"}
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", p.TargetURL())

	// Lead URL wins when present since it carries platform context
	p.LeadURL = "https://www.linkedin.com/sales/lead/ACw,NAME_SEARCH"
	assert.Equal(t, p.LeadURL, p.TargetURL())
}

func TestProfileDedupKey(t *testing.T) {
	p := Profile{CanonicalURL: "https://www.linkedin.com/in/janedoe", LeadURL: "https://www.linkedin.com/sales/lead/x"}
	assert.Equal(t, p.CanonicalURL, p.DedupKey())

	lead := Profile{LeadURL: "https://www.linkedin.com/sales/lead/x"}
	assert.Equal(t, lead.LeadURL, lead.DedupKey())
}

func TestProfileFirstName(t *testing.T) {
	assert.Equal(t, "Jane", (&Profile{Name: "Jane Doe"}).FirstName())
	assert.Equal(t, "Jane", (&Profile{Name: "Jane"}).FirstName())
	assert.Equal(t, "there", (&Profile{}).FirstName())
}

func TestProcessedEntryCounted(t *testing.T) {
	assert.True(t, (&ProcessedEntry{Outcome: OutcomeSent}).Counted())
	assert.True(t, (&ProcessedEntry{Outcome: OutcomePossiblySent}).Counted())
	assert.False(t, (&ProcessedEntry{Outcome: OutcomeFailed}).Counted())
	assert.False(t, (&ProcessedEntry{Outcome: OutcomeSkipped}).Counted())
}
