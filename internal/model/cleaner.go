package model

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
)

// Cleaner is a named profile pairing a root location with the directory
// names to purge beneath it.
type Cleaner struct {
	// ID is unique within the configuration and assigned on create
	ID int `json:"id"`

	// Name is the display name (e.g., "JavaScript Cleaner")
	Name string `json:"name"`

	// Description is optional and serialised as null when absent
	Description *string `json:"description"`

	// Directories are bare directory names matched case-insensitively
	Directories []string `json:"directories"`

	// Location is the search root; nothing outside it is ever deleted
	Location string `json:"location"`
}

// cleanerDocument mirrors Cleaner with pointer fields so a missing required
// property can be told apart from an empty one.
type cleanerDocument struct {
	ID          *int      `json:"id"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Directories *[]string `json:"directories"`
	Location    *string   `json:"location"`
}

// UnmarshalJSON rejects documents missing a required property.
func (c *Cleaner) UnmarshalJSON(data []byte) error {
	var doc cleanerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	switch {
	case doc.Name == nil:
		return errors.New("cleaner is missing required property \"name\"")
	case doc.Directories == nil || *doc.Directories == nil:
		return errors.New("cleaner is missing required property \"directories\"")
	case doc.Location == nil:
		return errors.New("cleaner is missing required property \"location\"")
	}

	*c = Cleaner{
		Name:        *doc.Name,
		Description: doc.Description,
		Directories: *doc.Directories,
		Location:    *doc.Location,
	}

	if doc.ID != nil {
		c.ID = *doc.ID
	}

	return nil
}

// DescriptionText returns the description or an empty string.
func (c Cleaner) DescriptionText() string {
	if c.Description == nil {
		return ""
	}

	return *c.Description
}

// Clone returns a deep copy of c.
func (c Cleaner) Clone() Cleaner {
	out := c
	if c.Description != nil {
		d := *c.Description
		out.Description = &d
	}

	out.Directories = slices.Clone(c.Directories)
	if out.Directories == nil {
		out.Directories = []string{}
	}

	return out
}

// Validate checks the fields required before a cleaner is persisted.
// Path existence is not checked here; that happens at scan time.
func (c Cleaner) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if strings.TrimSpace(c.Location) == "" {
		return &ValidationError{Field: "location", Reason: "must not be empty"}
	}

	if c.Directories == nil {
		return &ValidationError{Field: "directories", Reason: "must be set"}
	}

	for _, name := range c.Directories {
		if err := ValidateDirectoryName(name); err != nil {
			return err
		}
	}

	return nil
}

// ValidateDirectoryName checks that name is a bare directory name.
func ValidateDirectoryName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Field: "directories", Reason: "entries must not be empty"}
	case name == "." || name == "..":
		return &ValidationError{Field: "directories", Reason: "\"" + name + "\" is not a directory name"}
	case strings.ContainsAny(name, `/\`):
		return &ValidationError{Field: "directories", Reason: "\"" + name + "\" must be a name, not a path"}
	}

	return nil
}

// Equal reports whether two cleaners hold the same values.
func (c Cleaner) Equal(other Cleaner) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.DescriptionText() == other.DescriptionText() &&
		(c.Description == nil) == (other.Description == nil) &&
		c.Location == other.Location &&
		slices.Equal(c.Directories, other.Directories)
}
