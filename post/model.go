package post

import (
	"encoding/json"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Post is a stored blog post. ID and Date are assigned by the store on creation.
type Post struct {
	ID      string    `json:"_id"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// Payload is the request body of the post endpoints. A field that was absent from
// the body stays undefined, so stores can tell "not given" from "given as empty".
type Payload struct {
	Author  ldvalue.OptionalString `json:"author"`
	Title   ldvalue.OptionalString `json:"title"`
	Content ldvalue.OptionalString `json:"content"`
}

// UnmarshalJSON accepts any JSON value for a field. Strings are kept as sent and
// other values are kept as their JSON text. A missing or null field stays undefined.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Author  ldvalue.Value `json:"author"`
		Title   ldvalue.Value `json:"title"`
		Content ldvalue.Value `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Payload{
		Author:  fieldText(raw.Author),
		Title:   fieldText(raw.Title),
		Content: fieldText(raw.Content),
	}
	return nil
}

func fieldText(v ldvalue.Value) ldvalue.OptionalString {
	switch {
	case v.IsNull():
		return ldvalue.OptionalString{}
	case v.IsString():
		return ldvalue.NewOptionalString(v.StringValue())
	}
	return ldvalue.NewOptionalString(v.JSONString())
}

// NewPayload builds a payload with all three fields given.
func NewPayload(author, title, content string) Payload {
	return Payload{
		Author:  ldvalue.NewOptionalString(author),
		Title:   ldvalue.NewOptionalString(title),
		Content: ldvalue.NewOptionalString(content),
	}
}

// NewPost builds the record a store persists on creation. Absent fields become empty text.
func (p Payload) NewPost(id string, date time.Time) Post {
	return Post{
		ID:      id,
		Author:  p.Author.StringValue(),
		Title:   p.Title.StringValue(),
		Content: p.Content.StringValue(),
		Date:    date,
	}
}

// ApplyTo copies the given fields onto post. ID and Date are never touched.
func (p Payload) ApplyTo(post *Post) {
	if p.Author.IsDefined() {
		post.Author = p.Author.StringValue()
	}
	if p.Title.IsDefined() {
		post.Title = p.Title.StringValue()
	}
	if p.Content.IsDefined() {
		post.Content = p.Content.StringValue()
	}
}

// Matches reports whether every given field equals the corresponding field of post.
func (p Payload) Matches(post Post) bool {
	if p.Author.IsDefined() && p.Author.StringValue() != post.Author {
		return false
	}
	if p.Title.IsDefined() && p.Title.StringValue() != post.Title {
		return false
	}
	if p.Content.IsDefined() && p.Content.StringValue() != post.Content {
		return false
	}
	return true
}

// Fields returns the given fields keyed by column name, in a fixed order.
func (p Payload) Fields() []Field {
	var fields []Field
	if p.Author.IsDefined() {
		fields = append(fields, Field{Name: "author", Value: p.Author.StringValue()})
	}
	if p.Title.IsDefined() {
		fields = append(fields, Field{Name: "title", Value: p.Title.StringValue()})
	}
	if p.Content.IsDefined() {
		fields = append(fields, Field{Name: "content", Value: p.Content.StringValue()})
	}
	return fields
}

// Field is one given payload field.
type Field struct {
	Name  string
	Value string
}
