package recipe

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Section is a named set of recipes, keyed by recipe title in document order.
type Section struct {
	Title   string
	recipes *orderedmap.OrderedMap[string, *Recipe]
}

// NewSection returns an empty section.
func NewSection(title string) *Section {
	return &Section{
		Title:   title,
		recipes: orderedmap.New[string, *Recipe](),
	}
}

// Put stores a recipe under its title. A recipe with the same title
// replaces the previous one but keeps its position.
func (s *Section) Put(r *Recipe) {
	s.recipes.Set(r.Title, r)
}

// Get returns the recipe with the given title.
func (s *Section) Get(title string) (*Recipe, bool) {
	return s.recipes.Get(title)
}

// Len is the number of recipes in the section.
func (s *Section) Len() int {
	return s.recipes.Len()
}

// Recipes returns the recipes of the section in document order.
func (s *Section) Recipes() []*Recipe {
	list := make([]*Recipe, 0, s.recipes.Len())
	for pair := s.recipes.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value)
	}
	return list
}

func (s *Section) MarshalJSON() ([]byte, error) {
	return marshalObject(s.recipes)
}

func (s *Section) UnmarshalJSON(data []byte) error {
	s.recipes = orderedmap.New[string, *Recipe]()
	if err := s.recipes.UnmarshalJSON(data); err != nil {
		return err
	}
	for pair := s.recipes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			return errors.Errorf("recipe %q has no record", pair.Key)
		}
		pair.Value.Title = pair.Key
	}
	return nil
}

// Collection is the whole set of parsed recipes: section title to section,
// in document order. Sections are created when their first recipe is added.
type Collection struct {
	sections *orderedmap.OrderedMap[string, *Section]
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		sections: orderedmap.New[string, *Section](),
	}
}

// Add stores the recipe in the named section, creating the section if needed.
func (c *Collection) Add(section string, r *Recipe) {
	s, ok := c.sections.Get(section)
	if !ok {
		s = NewSection(section)
		c.sections.Set(section, s)
	}
	s.Put(r)
}

// Section returns the section with the given title.
func (c *Collection) Section(title string) (*Section, bool) {
	return c.sections.Get(title)
}

// Sections returns the sections in document order.
func (c *Collection) Sections() []*Section {
	list := make([]*Section, 0, c.sections.Len())
	for pair := c.sections.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value)
	}
	return list
}

// Len is the number of sections.
func (c *Collection) Len() int {
	return c.sections.Len()
}

// Count is the number of recipes across all sections.
func (c *Collection) Count() int {
	total := 0
	for pair := c.sections.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value.Len()
	}
	return total
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return marshalObject(c.sections)
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	c.sections = orderedmap.New[string, *Section]()
	if err := c.sections.UnmarshalJSON(data); err != nil {
		return err
	}
	for pair := c.sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			return errors.Errorf("section %q has no recipes object", pair.Key)
		}
		pair.Value.Title = pair.Key
	}
	return nil
}

// Encode returns the collection as indented JSON. LaTeX text is written as
// is: characters like & are not escaped.
func (c *Collection) Encode() ([]byte, error) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encoding collection")
	}
	return out.Bytes(), nil
}

// WriteFile writes the collection as indented JSON to fileName.
func (c *Collection) WriteFile(fileName string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(fileName, data, 0664); err != nil {
		return errors.Wrapf(err, "writing %s", fileName)
	}
	return nil
}

// Decode parses a JSON document with the shape written by Encode.
func Decode(data []byte) (*Collection, error) {
	c := NewCollection()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "decoding collection")
	}
	return c, nil
}

// ReadFile reads and decodes a JSON collection file.
func ReadFile(fileName string) (*Collection, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	return Decode(data)
}

// marshalJSON is json.Marshal without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// marshalObject writes m as a JSON object with its keys in insertion order.
func marshalObject[V any](m *orderedmap.OrderedMap[string, V]) ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if pair != m.Oldest() {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshalJSON(pair.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", pair.Key)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
