package feedback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := Record{
		Category:     "tone",
		Comment:      "too curt",
		FeedbackType: TypeChat,
		SessionID:    "sess-1",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"missing category", func(r *Record) { r.Category = "" }},
		{"missing comment", func(r *Record) { r.Comment = "" }},
		{"bad feedback type", func(r *Record) { r.FeedbackType = "rant" }},
		{"empty feedback type", func(r *Record) { r.FeedbackType = "" }},
		{"missing session", func(r *Record) { r.SessionID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			assert.Error(t, rec.Validate())
		})
	}
}

func TestStamp(t *testing.T) {
	rec := Record{}
	rec.Stamp()
	require.NotEmpty(t, rec.SubmittedAt)
	_, err := time.Parse(time.RFC3339, rec.SubmittedAt)
	assert.NoError(t, err)

	// an existing stamp survives
	rec2 := Record{SubmittedAt: "2026-01-05T10:00:00Z"}
	rec2.Stamp()
	assert.Equal(t, "2026-01-05T10:00:00Z", rec2.SubmittedAt)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short"))

	long := strings.Repeat("x", ExcerptLimit+50)
	got := Excerpt(long)
	assert.Len(t, got, ExcerptLimit)
}
