package clipboard

import (
	"fmt"
	"time"
)

// Kind identifies what a clipboard payload holds.
type Kind string

const (
	KindText  Kind = "text"
	KindRTF   Kind = "rtf"
	KindHTML  Kind = "html"
	KindImage Kind = "image"
	KindFiles Kind = "files"
)

// ParseKind validates a kind received from a client.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindText, KindRTF, KindHTML, KindImage, KindFiles:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// HasBlobs reports whether payloads of this kind carry binary attachments.
func (k Kind) HasBlobs() bool {
	return k == KindImage || k == KindFiles
}

// Blob is a binary attachment of an image or files payload.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

func (b Blob) Size() int { return len(b.Data) }

// Payload is one clipboard entry. Blobs exist only for image and files
// kinds; the constructors are the only way to build one.
type Payload struct {
	kind   Kind
	value  string
	search string
	blobs  []Blob
}

// NewContent builds a text, rtf or html payload.
func NewContent(kind Kind, value, search string) (Payload, error) {
	if kind.HasBlobs() {
		return Payload{}, fmt.Errorf("%w: %s", ErrBlobsRequired, kind)
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Payload{}, err
	}
	return Payload{kind: kind, value: value, search: search}, nil
}

// NewAttachments builds an image or files payload. An empty blob list is allowed.
func NewAttachments(kind Kind, value, search string, blobs []Blob) (Payload, error) {
	if !kind.HasBlobs() {
		return Payload{}, fmt.Errorf("%w: %s", ErrBlobsNotAllowed, kind)
	}
	return Payload{kind: kind, value: value, search: search, blobs: blobs}, nil
}

// NewPayload dispatches on kind. Blobs sent with a non-attachment kind are dropped.
func NewPayload(kind Kind, value, search string, blobs []Blob) (Payload, error) {
	if kind.HasBlobs() {
		return NewAttachments(kind, value, search, blobs)
	}
	return NewContent(kind, value, search)
}

func (p Payload) Kind() Kind         { return p.kind }
func (p Payload) Value() string      { return p.value }
func (p Payload) SearchText() string { return p.search }

// Blobs returns the attachments, nil for content kinds.
func (p Payload) Blobs() []Blob { return p.blobs }

func (p Payload) HasBlobs() bool { return len(p.blobs) > 0 }

// Metadata is the wire form of a payload. It never carries blob bytes.
type Metadata struct {
	Type   Kind   `json:"type"`
	Value  string `json:"value"`
	Search string `json:"search,omitempty"`
	SizeMB SizeMB `json:"sizeMB"`
}

// Snapshot is the payload currently stored for a room.
type Snapshot struct {
	Token      string
	UploadedAt time.Time
	Payload    Payload
	SizeMB     SizeMB
}

func (s Snapshot) Metadata() Metadata {
	return Metadata{
		Type:   s.Payload.kind,
		Value:  s.Payload.value,
		Search: s.Payload.search,
		SizeMB: s.SizeMB,
	}
}

// HandshakeData is the body of an open event that has nothing to resume.
const HandshakeData = "hello"

// Event is one push event: an opaque id and a serialized body.
type Event struct {
	ID   string
	Data []byte
}

func (e Event) IsHandshake() bool {
	return string(e.Data) == HandshakeData
}

// ClientInfo describes a room member.
type ClientInfo struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
}

// Stream delivers events to one connected client.
// Send is called with the hub lock held and must not block or call back into the hub.
// Streams that also implement io.Closer are closed when their client leaves,
// is superseded by a newer join, or the hub shuts down.
type Stream interface {
	Send(Event) error
}
