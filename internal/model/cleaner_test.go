package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCleaner_JSONShape(t *testing.T) {
	c := Cleaner{ID: 1, Name: "dotnet", Directories: []string{"bin", "obj"}, Location: "/src"}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"id":1,"name":"dotnet","description":null,"directories":["bin","obj"],"location":"/src"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestCleaner_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cleaner
		wantErr string
	}{
		{
			name:  "complete",
			input: `{"id":2,"name":"n","description":"d","directories":["a"],"location":"/l"}`,
			want:  Cleaner{ID: 2, Name: "n", Description: strPtr("d"), Directories: []string{"a"}, Location: "/l"},
		},
		{
			name:  "case-insensitive keys and unknown fields",
			input: `{"Id":3,"NAME":"n","Directories":[],"Location":"/l","extra":true}`,
			want:  Cleaner{ID: 3, Name: "n", Directories: []string{}, Location: "/l"},
		},
		{
			name:  "null description",
			input: `{"id":4,"name":"n","description":null,"directories":["x"],"location":"/l"}`,
			want:  Cleaner{ID: 4, Name: "n", Directories: []string{"x"}, Location: "/l"},
		},
		{
			name:    "missing name",
			input:   `{"id":1,"directories":[],"location":"/l"}`,
			wantErr: "name",
		},
		{
			name:    "null directories",
			input:   `{"id":1,"name":"n","directories":null,"location":"/l"}`,
			wantErr: "directories",
		},
		{
			name:    "missing location",
			input:   `{"id":1,"name":"n","directories":[]}`,
			wantErr: "location",
		},
		{
			name:    "wrong type",
			input:   `{"id":"one","name":"n","directories":[],"location":"/l"}`,
			wantErr: "cannot unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Cleaner

			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCleaner_Clone(t *testing.T) {
	orig := Cleaner{ID: 1, Name: "n", Description: strPtr("d"), Directories: []string{"a", "b"}, Location: "/l"}

	clone := orig.Clone()
	clone.Directories[0] = "changed"
	*clone.Description = "changed"

	if orig.Directories[0] != "a" || *orig.Description != "d" {
		t.Errorf("Clone() shares state with the original: %+v", orig)
	}

	if empty := (Cleaner{}).Clone(); empty.Directories == nil {
		t.Error("Clone() of a cleaner without directories returned nil directories")
	}
}

func TestCleaner_Validate(t *testing.T) {
	valid := Cleaner{Name: "n", Directories: []string{"node_modules"}, Location: "/l"}

	tests := []struct {
		name  string
		edit  func(c *Cleaner)
		field string
	}{
		{name: "valid", edit: func(*Cleaner) {}},
		{name: "empty directories allowed", edit: func(c *Cleaner) { c.Directories = []string{} }},
		{name: "blank name", edit: func(c *Cleaner) { c.Name = "  " }, field: "name"},
		{name: "blank location", edit: func(c *Cleaner) { c.Location = "" }, field: "location"},
		{name: "nil directories", edit: func(c *Cleaner) { c.Directories = nil }, field: "directories"},
		{name: "path separator", edit: func(c *Cleaner) { c.Directories = []string{"a/b"} }, field: "directories"},
		{name: "backslash", edit: func(c *Cleaner) { c.Directories = []string{`a\b`} }, field: "directories"},
		{name: "dot dot", edit: func(c *Cleaner) { c.Directories = []string{".."} }, field: "directories"},
		{name: "empty entry", edit: func(c *Cleaner) { c.Directories = []string{""} }, field: "directories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid.Clone()
			tt.edit(&c)

			err := c.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("Validate() error = %v, want ValidationError on %s", err, tt.field)
			}

			if !errors.Is(err, ErrValidation) {
				t.Error("ValidationError does not match ErrValidation")
			}
		})
	}
}

func TestConfiguration_NextID(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want int
	}{
		{name: "empty", ids: nil, want: 1},
		{name: "sequential", ids: []int{1, 2}, want: 3},
		{name: "gaps", ids: []int{3, 5}, want: 6},
		{name: "unordered", ids: []int{9, 2}, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfiguration()
			for _, id := range tt.ids {
				cfg.Cleaners = append(cfg.Cleaners, Cleaner{ID: id})
			}

			if got := cfg.NextID(); got != tt.want {
				t.Errorf("NextID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfiguration_Normalize(t *testing.T) {
	cfg := &Configuration{}
	if err := cfg.Normalize(); err != nil || cfg.Cleaners == nil {
		t.Errorf("Normalize() = %v, cleaners %v", err, cfg.Cleaners)
	}

	dup := &Configuration{Cleaners: []Cleaner{{ID: 1}, {ID: 2}, {ID: 1}}}
	if err := dup.Normalize(); err == nil {
		t.Error("Normalize() accepted duplicate ids")
	}
}

func TestConfiguration_CloneAndIndexOf(t *testing.T) {
	cfg := &Configuration{Cleaners: []Cleaner{{ID: 4, Directories: []string{"a"}}, {ID: 7}}}

	clone := cfg.Clone()
	clone.Cleaners[0].Directories[0] = "z"
	clone.Cleaners = append(clone.Cleaners, Cleaner{ID: 9})

	if cfg.Cleaners[0].Directories[0] != "a" || len(cfg.Cleaners) != 2 {
		t.Errorf("Clone() shares state: %+v", cfg)
	}

	if cfg.IndexOf(7) != 1 || cfg.IndexOf(9) != -1 {
		t.Errorf("IndexOf() = %d, %d", cfg.IndexOf(7), cfg.IndexOf(9))
	}
}
