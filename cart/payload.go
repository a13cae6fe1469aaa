package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/phanxgames/printshop/placement"
)

// Kind tags one part of a customization payload.
type Kind string

const (
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindPosition  Kind = "position"
	KindTransform Kind = "transform"
)

// Part is one element of a customization payload. The concrete types are
// Text, Image, Position, Transform and Opaque.
type Part interface {
	Kind() Kind
}

// Text is a line of overlay text.
type Text struct {
	Value string `json:"text"`
}

// Image references an uploaded overlay image.
type Image struct {
	Ref string `json:"ref"`
}

// Position is the selected print area.
type Position struct {
	Value placement.Position `json:"position"`
}

// Transform is the placement widget's last snapshot.
type Transform struct {
	placement.Transform
}

// Opaque carries a part of a kind this build does not know. Its fields are
// kept verbatim, numbers included, so that newer payloads survive a round
// trip. Raw must be a JSON object; its "kind" field, when present, must
// match Type.
type Opaque struct {
	Type Kind
	Raw  json.RawMessage
}

func (Text) Kind() Kind      { return KindText }
func (Image) Kind() Kind     { return KindImage }
func (Position) Kind() Kind  { return KindPosition }
func (Transform) Kind() Kind { return KindTransform }
func (o Opaque) Kind() Kind  { return o.Type }

// Payload is the customization attached to a cart line or saved design.
// A nil Payload means "not customized".
type Payload []Part

// TextValue returns the first text part.
func (p Payload) TextValue() (string, bool) {
	for _, part := range p {
		if t, ok := part.(Text); ok {
			return t.Value, true
		}
	}
	return "", false
}

// ImageRef returns the first image part.
func (p Payload) ImageRef() (string, bool) {
	for _, part := range p {
		if im, ok := part.(Image); ok {
			return im.Ref, true
		}
	}
	return "", false
}

// PrintPosition returns the first position part.
func (p Payload) PrintPosition() (placement.Position, bool) {
	for _, part := range p {
		if pos, ok := part.(Position); ok {
			return pos.Value, true
		}
	}
	return placement.Front, false
}

// PlacementTransform returns the first transform part.
func (p Payload) PlacementTransform() (placement.Transform, bool) {
	for _, part := range p {
		if tr, ok := part.(Transform); ok {
			return tr.Transform, true
		}
	}
	return placement.DefaultTransform(), false
}

// Validate checks every part. Transforms must already be in range; the
// widget never produces anything else.
func (p Payload) Validate() error {
	for i, part := range p {
		switch v := part.(type) {
		case Text:
		case Image:
			if v.Ref == "" {
				return invalidArgument("%s: part %d: empty image reference", ErrMsgInvalidCustomization, i)
			}
		case Position:
		case Transform:
			t := v.Transform
			if t.Scale < placement.MinScale || t.Scale > placement.MaxScale ||
				t.RotationDegrees < 0 || t.RotationDegrees >= placement.FullRotation ||
				t.RotationDegrees%placement.RotationStep != 0 ||
				t.Translation.X < 0 || t.Translation.Y < 0 {
				return invalidArgument("%s: part %d: transform out of range", ErrMsgInvalidCustomization, i)
			}
		case Opaque:
			if v.Type == "" || len(v.Raw) == 0 {
				return invalidArgument("%s: part %d: untyped opaque part", ErrMsgInvalidCustomization, i)
			}
			if knownKind(v.Type) {
				return invalidArgument("%s: part %d: opaque part uses built-in kind %q", ErrMsgInvalidCustomization, i, v.Type)
			}
			if _, err := opaqueFields(v); err != nil {
				return invalidArgument("%s: part %d: %v", ErrMsgInvalidCustomization, i, err)
			}
		default:
			return invalidArgument("%s: part %d: unsupported type %T", ErrMsgInvalidCustomization, i, part)
		}
	}
	return nil
}

// Equal reports whether two payloads serialize to the same JSON.
func (p Payload) Equal(o Payload) bool {
	if len(p) == 0 || len(o) == 0 {
		return len(p) == len(o)
	}
	a, errA := json.Marshal(p)
	b, errB := json.Marshal(o)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// --- JSON ---

// MarshalJSON encodes the payload as an array of {"kind": ...} objects.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	parts := make([]json.RawMessage, 0, len(p))
	for i, part := range p {
		b, err := marshalPart(part)
		if err != nil {
			return nil, fmt.Errorf("marshal payload part %d: %w", i, err)
		}
		parts = append(parts, b)
	}
	return json.Marshal(parts)
}

func marshalPart(part Part) ([]byte, error) {
	switch v := part.(type) {
	case Text:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Text
		}{KindText, v})
	case Image:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Image
		}{KindImage, v})
	case Position:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Position
		}{KindPosition, v})
	case Transform:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			placement.Transform
		}{KindTransform, v.Transform})
	case Opaque:
		fields, err := opaqueFields(v)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		return canonicalJSON(b)
	default:
		return nil, fmt.Errorf("unsupported part type %T", part)
	}
}

// UnmarshalJSON decodes an array of {"kind": ...} objects. Unknown kinds
// become Opaque parts.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	out := make(Payload, 0, len(raws))
	for i, raw := range raws {
		part, err := unmarshalPart(raw)
		if err != nil {
			return fmt.Errorf("unmarshal payload part %d: %w", i, err)
		}
		out = append(out, part)
	}
	*p = out
	return nil
}

func unmarshalPart(raw json.RawMessage) (Part, error) {
	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	switch head.Kind {
	case KindText:
		var v Text
		err := json.Unmarshal(raw, &v)
		return v, err
	case KindImage:
		var v Image
		err := json.Unmarshal(raw, &v)
		return v, err
	case KindPosition:
		var v Position
		err := json.Unmarshal(raw, &v)
		return v, err
	case KindTransform:
		var v placement.Transform
		err := json.Unmarshal(raw, &v)
		return Transform{v}, err
	case "":
		return nil, fmt.Errorf("missing kind")
	default:
		canon, err := canonicalJSON(raw)
		if err != nil {
			return nil, err
		}
		return Opaque{Type: head.Kind, Raw: canon}, nil
	}
}

func knownKind(k Kind) bool {
	switch k {
	case KindText, KindImage, KindPosition, KindTransform:
		return true
	}
	return false
}

// opaqueFields decodes o.Raw as an object and stamps it with o.Type.
func opaqueFields(o Opaque) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(o.Raw, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("opaque %q part is not a JSON object", o.Type)
	}
	if k, ok := fields["kind"]; ok {
		var inner Kind
		if err := json.Unmarshal(k, &inner); err != nil || inner != o.Type {
			return nil, fmt.Errorf("opaque part kind %s does not match %q", k, o.Type)
		}
	}
	kind, err := json.Marshal(o.Type)
	if err != nil {
		return nil, err
	}
	fields["kind"] = kind
	return fields, nil
}

// canonicalJSON re-encodes raw with sorted keys and no insignificant
// whitespace so that equal documents compare byte-equal. Numbers keep their
// literal text.
func canonicalJSON(raw []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
