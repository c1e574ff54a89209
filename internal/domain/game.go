package domain

import (
	"encoding/json"
	"fmt"
)

// Game is a storefront catalog entry.
type Game struct {
	ID                     int           `json:"id"`
	Name                   string        `json:"name"`
	Description            string        `json:"description,omitempty"`
	Instructions           string        `json:"instructions,omitempty"`
	FAQContent             string        `json:"faq_content,omitempty"`
	SubcategoryDescription string        `json:"subcategory_description,omitempty"`
	BannerURL              string        `json:"banner_url,omitempty"`
	LogoURL                string        `json:"logo_url,omitempty"`
	AutoSupport            bool          `json:"auto_support"`
	Enabled                bool          `json:"enabled"`
	SortOrder              int           `json:"sort_order"`
	Subcategories          []Subcategory `json:"subcategories,omitempty"`
	InputFields            []InputField  `json:"input_fields,omitempty"`
}

// Subcategory groups products within a game (region, server, ...).
// ID is zero while the subcategory exists only as a local draft; the backend
// assigns the real id on create.
type Subcategory struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
	Enabled     bool   `json:"enabled"`
}

// Persisted reports whether the subcategory has a backend-assigned id.
func (s Subcategory) Persisted() bool {
	return s.ID > 0
}

// FieldType enumerates the input widgets a game checkout form can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextarea FieldType = "textarea"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypePassword, FieldTypeNumber,
		FieldTypeSelect, FieldTypeTextarea:
		return true
	}
	return false
}

// SubcategoryRef points an input field at a subcategory that may not be
// persisted yet. It replaces the old convention of smuggling a draft's list
// position through a negative id.
//
// The zero value means "no subcategory": the field applies to the whole game.
type SubcategoryRef struct {
	kind     refKind
	id       int // persisted backend id
	draftIdx int // position in the local draft list
}

type refKind int

const (
	refNone refKind = iota
	refPersisted
	refDraft
)

// PersistedRef references a backend-assigned subcategory id.
func PersistedRef(id int) SubcategoryRef {
	return SubcategoryRef{kind: refPersisted, id: id}
}

// DraftRef references a not-yet-created subcategory by its position in the
// draft list being edited.
func DraftRef(index int) SubcategoryRef {
	return SubcategoryRef{kind: refDraft, draftIdx: index}
}

// NoRef is the "applies to all subcategories" reference.
func NoRef() SubcategoryRef {
	return SubcategoryRef{}
}

// IsZero reports whether the ref points at nothing.
func (r SubcategoryRef) IsZero() bool { return r.kind == refNone }

// PersistedID returns the backend id and true when the ref is persisted.
func (r SubcategoryRef) PersistedID() (int, bool) {
	return r.id, r.kind == refPersisted
}

// DraftIndex returns the draft list position and true when the ref is a draft.
func (r SubcategoryRef) DraftIndex() (int, bool) {
	return r.draftIdx, r.kind == refDraft
}

func (r SubcategoryRef) String() string {
	switch r.kind {
	case refPersisted:
		return fmt.Sprintf("subcategory(%d)", r.id)
	case refDraft:
		return fmt.Sprintf("draft(%d)", r.draftIdx)
	default:
		return "all"
	}
}

// MarshalJSON writes the wire form the backend understands: a positive id,
// null for "all", or the legacy -(index+1) encoding for drafts so locally
// stored admin payloads stay readable by older clients.
func (r SubcategoryRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case refPersisted:
		return json.Marshal(r.id)
	case refDraft:
		return json.Marshal(-(r.draftIdx + 1))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a positive id, or a legacy negative draft
// placeholder.
func (r *SubcategoryRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = NoRef()
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("subcategory ref: %w", err)
	}
	switch {
	case v > 0:
		*r = PersistedRef(v)
	case v < 0:
		*r = DraftRef(-v - 1)
	default:
		*r = NoRef()
	}
	return nil
}

// InputField describes one user-supplied purchase parameter a game requires
// at checkout.
type InputField struct {
	ID              int            `json:"id,omitempty"`
	Name            string         `json:"name"`
	Label           string         `json:"label"`
	Type            FieldType      `json:"type"`
	Required        bool           `json:"required"`
	Placeholder     string         `json:"placeholder,omitempty"`
	HelpText        string         `json:"help_text,omitempty"`
	Options         []string       `json:"options,omitempty"`
	ValidationRegex string         `json:"validation_regex,omitempty"`
	MinLength       int            `json:"min_length,omitempty"`
	MaxLength       int            `json:"max_length,omitempty"`
	Subcategory     SubcategoryRef `json:"subcategory_id"`
}
