package types

import "testing"

func TestLearningRecordValidate(t *testing.T) {
	valid := LearningRecord{
		Date:       "2024-05-01",
		Repo:       "octocat/hello-world",
		Technology: "SQLite",
		Concept:    "batch insert",
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid record, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*LearningRecord)
	}{
		{"missing repo", func(r *LearningRecord) { r.Repo = "" }},
		{"missing technology", func(r *LearningRecord) { r.Technology = "" }},
		{"missing concept", func(r *LearningRecord) { r.Concept = "" }},
		{"empty date", func(r *LearningRecord) { r.Date = "" }},
		{"prose date", func(r *LearningRecord) { r.Date = "May 1st, 2024" }},
		{"short date", func(r *LearningRecord) { r.Date = "2024-5-1" }},
		{"datetime", func(r *LearningRecord) { r.Date = "2024-05-01T00:00:00Z" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}
