package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chongzai/jfr/errs"
)

// Element is a node of the per-chunk metadata tree. The parser builds
// the tree top-down; AddChild is the capability hook through which a
// parent absorbs a freshly parsed child. JfrClass overrides it to index
// field children, GenericElement stores them and JfrField discards them.
type Element interface {
	AddChild(child Element)
}

// GenericElement is an opaque metadata node with ordered children.
type GenericElement struct {
	Children []Element
}

// AddChild appends a child in document order.
func (e *GenericElement) AddChild(child Element) {
	e.Children = append(e.Children, child)
}

// JfrClass is a type declaration from the metadata tree. Field order is
// semantically significant: the generic constant pool reader walks
// Fields in declaration order to decode unknown pool entries.
type JfrClass struct {
	ID         int32
	Name       string
	SimpleName string
	SuperType  string
	Fields     []*JfrField
}

// AddChild indexes field children into Fields; other children carry no
// information the reader needs.
func (c *JfrClass) AddChild(child Element) {
	if f, ok := child.(*JfrField); ok {
		c.Fields = append(c.Fields, f)
	}
}

// Field returns the field named name, or nil.
func (c *JfrClass) Field(name string) *JfrField {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// JfrField is a field declaration. Type is the type id of the field's
// declared type. ConstantPool marks fields whose value on the wire is a
// 64-bit reference into a constant pool rather than an inline value.
type JfrField struct {
	Name         string
	Type         int32
	ConstantPool bool
}

// AddChild ignores children; fields are leaves as far as decoding goes.
func (f *JfrField) AddChild(Element) {}

func newJfrClass(attributes map[string]string) *JfrClass {
	id, _ := strconv.ParseInt(attributes["id"], 10, 32)
	name := attributes["name"]

	simple := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		simple = name[i+1:]
	}

	return &JfrClass{
		ID:         int32(id),
		Name:       name,
		SimpleName: simple,
		SuperType:  attributes["superType"],
	}
}

func newJfrField(attributes map[string]string) *JfrField {
	typ, _ := strconv.ParseInt(attributes["type"], 10, 32)

	return &JfrField{
		Name:         attributes["name"],
		Type:         int32(typ),
		ConstantPool: attributes["constantPool"] == "true",
	}
}

// readMeta parses the metadata record the cursor is positioned at: the
// record preamble, the per-chunk string pool, then the element tree.
// Classes register into the type registry as a side effect.
func (r *Reader) readMeta() error {
	// Record framing and timestamps; only the tree matters here.
	if _, err := r.cur.Varint(); err != nil {
		return err
	}
	if _, err := r.cur.Varint(); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if _, err := r.cur.Varlong(); err != nil {
			return err
		}
	}

	n, err := r.cur.Varint()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative metadata string count %d", errs.ErrInvalidFormat, n)
	}

	pool := make([]string, n)
	for i := range pool {
		s, _, err := r.cur.String()
		if err != nil {
			return err
		}
		pool[i] = s
	}

	_, err = r.readElement(pool)

	return err
}

func (r *Reader) readElement(pool []string) (Element, error) {
	name, err := r.poolString(pool)
	if err != nil {
		return nil, err
	}

	attrCount, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	attributes := make(map[string]string, attrCount)
	for i := int32(0); i < attrCount; i++ {
		key, err := r.poolString(pool)
		if err != nil {
			return nil, err
		}
		value, err := r.poolString(pool)
		if err != nil {
			return nil, err
		}
		attributes[key] = value
	}

	e := r.createElement(name, attributes)

	childCount, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < childCount; i++ {
		child, err := r.readElement(pool)
		if err != nil {
			return nil, err
		}
		e.AddChild(child)
	}

	return e, nil
}

func (r *Reader) createElement(name string, attributes map[string]string) Element {
	switch name {
	case "class":
		class := newJfrClass(attributes)
		if _, hasSuper := attributes["superType"]; !hasSuper {
			r.Types.Put(int64(class.ID), class)
		}
		r.TypesByName[class.Name] = class

		return class
	case "field":
		return newJfrField(attributes)
	default:
		return &GenericElement{}
	}
}

func (r *Reader) poolString(pool []string) (string, error) {
	idx, err := r.cur.Varint()
	if err != nil {
		return "", err
	}
	if idx < 0 || int(idx) >= len(pool) {
		return "", fmt.Errorf("%w: metadata string index %d out of %d", errs.ErrInvalidFormat, idx, len(pool))
	}

	return pool[idx], nil
}
