package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 163840 // 160KB

// Kind distinguishes résumés from vacancies.
type Kind string

const (
	// KindResume is a job seeker's CV.
	KindResume Kind = "resume"
	// KindVacancy is a recruiter's job posting.
	KindVacancy Kind = "vacancy"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindResume, KindVacancy:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown document kind %q", s)
	}
}

// State is the publication state of a vacancy. Résumés have no state.
type State string

const (
	// StateOpen accepts applications.
	StateOpen State = "open"
	// StateClosed hides the vacancy from matching and refuses applications.
	StateClosed State = "closed"
)

// ParseState validates a vacancy state string.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateOpen, StateClosed:
		return State(s), nil
	default:
		return "", fmt.Errorf("unknown vacancy state %q", s)
	}
}

// Document is a résumé or vacancy together with its cached embedding.
// The embedding remembers the hash of the text it was computed from and the embedding
// space (provider, model, dimensions) that produced it, so a text change or a provider
// switch is detectable without a provider call.
type Document struct {
	id          string
	kind        Kind
	owner       string
	title       string
	text        string
	state       State
	vector      []float32
	vectorHash  string
	vectorSpace string
	updatedAt   time.Time
}

// New validates and creates a Document without an embedding.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Text: non-empty, max 160KB. Vacancies start open.
func New(kind Kind, id, owner, title, text string) (Document, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Document{}, err
	}
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if owner == "" {
		return Document{}, fmt.Errorf("owner is required")
	}
	if err := validateText(text); err != nil {
		return Document{}, err
	}

	var state State
	if kind == KindVacancy {
		state = StateOpen
	}

	return Document{
		id:        id,
		kind:      kind,
		owner:     owner,
		title:     title,
		text:      text,
		state:     state,
		updatedAt: time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	kind Kind, id, owner, title, text string, state State,
	vector []float32, vectorHash, vectorSpace string, updatedAt time.Time,
) Document {
	return Document{
		id: id, kind: kind, owner: owner, title: title, text: text, state: state,
		vector: vector, vectorHash: vectorHash, vectorSpace: vectorSpace, updatedAt: updatedAt,
	}
}

func validateText(text string) error {
	if text == "" {
		return fmt.Errorf("text is required")
	}
	if len(text) > MaxTextSize {
		return fmt.Errorf("text too large (max %d bytes)", MaxTextSize)
	}
	return nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Kind returns résumé or vacancy.
func (d *Document) Kind() Kind { return d.kind }

// Owner returns the identifier of the user who uploaded the document.
func (d *Document) Owner() string { return d.owner }

// Title returns the display title (file name for résumés, job title for vacancies).
func (d *Document) Title() string { return d.title }

// Text returns the raw document text.
func (d *Document) Text() string { return d.text }

// State returns the vacancy state, empty for résumés.
func (d *Document) State() State { return d.state }

// Vector returns the cached embedding, possibly stale (see NeedsEmbedding).
func (d *Document) Vector() []float32 { return d.vector }

// VectorHash returns the hash of the text the cached embedding was computed from.
func (d *Document) VectorHash() string { return d.vectorHash }

// VectorSpace returns the embedding space the cached vector belongs to, empty for legacy vectors.
func (d *Document) VectorSpace() string { return d.vectorSpace }

// UpdatedAt returns the time of the last text or state change.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }

// TextHash returns the hex SHA-256 of the current text.
func (d *Document) TextHash() string { return HashText(d.text) }

// NeedsEmbedding reports whether the cached embedding is missing, was computed from other
// text, or belongs to a different embedding space than space. An empty space skips the
// space check.
func (d *Document) NeedsEmbedding(space string) bool {
	if len(d.vector) == 0 || d.vectorHash != d.TextHash() {
		return true
	}
	return space != "" && d.vectorSpace != space
}

// IsOpen reports whether a vacancy accepts applications.
func (d *Document) IsOpen() bool { return d.kind == KindVacancy && d.state == StateOpen }

// WithText returns a copy with new text and title. The cached embedding is kept;
// NeedsEmbedding turns true only if the text actually changed.
func (d *Document) WithText(title, text string) (Document, error) {
	if err := validateText(text); err != nil {
		return Document{}, err
	}
	c := *d
	c.title = title
	c.text = text
	c.updatedAt = time.Now().UTC()
	return c, nil
}

// WithState returns a copy with a new vacancy state.
func (d *Document) WithState(s State) (Document, error) {
	if d.kind != KindVacancy {
		return Document{}, fmt.Errorf("only vacancies have a state")
	}
	c := *d
	c.state = s
	c.updatedAt = time.Now().UTC()
	return c, nil
}

// SetEmbedding stores the vector computed from the current text in space (mutation).
func (d *Document) SetEmbedding(v []float32, space string) {
	d.vector = v
	d.vectorHash = d.TextHash()
	d.vectorSpace = space
}

// HashText returns the hex SHA-256 of text. The embedding cache uses the same digest.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
