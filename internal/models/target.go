package models

// TargetType identifies the kind of entity a polymorphic reference points at.
type TargetType string

const (
	// TargetPost references a post.
	TargetPost TargetType = "post"
	// TargetComment references a comment.
	TargetComment TargetType = "comment"
	// TargetPhoto references a gallery photo.
	TargetPhoto TargetType = "photo"
	// TargetUser references a user.
	TargetUser TargetType = "user"
)

// TargetRef is a typed reference to a likeable/commentable entity. The store
// keeps the two-column (type, id) encoding; TargetRef is the in-process form.
type TargetRef struct {
	Type TargetType `json:"type"`
	ID   uint       `json:"id"`
}

// Valid reports whether the reference names a known entity kind and a
// plausible id.
func (t TargetRef) Valid() bool {
	if t.ID == 0 {
		return false
	}
	switch t.Type {
	case TargetPost, TargetComment, TargetPhoto, TargetUser:
		return true
	}
	return false
}

// Interactable reports whether the referenced kind accepts likes and comments.
func (t TargetRef) Interactable() bool {
	switch t.Type {
	case TargetPost, TargetComment, TargetPhoto:
		return t.ID != 0
	}
	return false
}
