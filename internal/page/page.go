// Package page holds the in-memory document the UI bridge renders into.
// Elements are addressed by stable identifiers and looked up on every call.
package page

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Element identifiers used by the Lethe front page.
const (
	IDName         = "name"
	IDContainers   = "containers"
	IDResult       = "result"
	IDInputFolder  = "input_folder"
	IDOutputFolder = "output_folder"
	IDThreadsInput = "threads-number-input"
	IDThreadsLabel = "threads-number"
)

// Kind describes what an element holds.
type Kind int

const (
	KindInput Kind = iota
	KindList
	KindText
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindList:
		return "list"
	case KindText:
		return "text"
	case KindRange:
		return "range"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrNoElement    = errors.New("no such element")
	ErrWrongKind    = errors.New("element kind does not support operation")
	ErrInvalidValue = errors.New("invalid element value")
)

type element struct {
	kind  Kind
	value string
	rows  []string
	min   int
	max   int
}

// Document is a flat set of elements. It is not safe for concurrent use;
// the UI event loop is its only writer.
type Document struct {
	elements map[string]*element
	order    []string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{elements: make(map[string]*element)}
}

// New returns the Lethe front page with every element present. threads seeds
// the range input and its label; maxThreads bounds the range.
func New(threads, maxThreads int) *Document {
	if maxThreads < 1 {
		maxThreads = 1
	}
	threads = clamp(threads, 1, maxThreads)
	d := NewDocument()
	d.AddInput(IDName, "")
	d.AddList(IDContainers)
	d.AddText(IDResult, "")
	d.AddInput(IDInputFolder, "")
	d.AddInput(IDOutputFolder, "")
	d.AddRange(IDThreadsInput, threads, 1, maxThreads)
	d.AddText(IDThreadsLabel, strconv.Itoa(threads))
	return d
}

func (d *Document) add(id string, el *element) {
	if _, exists := d.elements[id]; !exists {
		d.order = append(d.order, id)
	}
	d.elements[id] = el
}

// AddInput registers a text input.
func (d *Document) AddInput(id, value string) {
	d.add(id, &element{kind: KindInput, value: value})
}

// AddList registers an empty list.
func (d *Document) AddList(id string) {
	d.add(id, &element{kind: KindList})
}

// AddText registers a text element.
func (d *Document) AddText(id, text string) {
	d.add(id, &element{kind: KindText, value: text})
}

// AddRange registers a numeric range input bounded by [min, max].
func (d *Document) AddRange(id string, value, min, max int) {
	if max < min {
		max = min
	}
	d.add(id, &element{kind: KindRange, value: strconv.Itoa(clamp(value, min, max)), min: min, max: max})
}

// KindOf reports the kind of element id, if present.
func (d *Document) KindOf(id string) (Kind, bool) {
	el, ok := d.elements[id]
	if !ok {
		return 0, false
	}
	return el.kind, true
}

// IDs returns element identifiers in registration order.
func (d *Document) IDs() []string {
	return append([]string(nil), d.order...)
}

func (d *Document) lookup(id string, kinds ...Kind) (*element, error) {
	el, ok := d.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoElement, id)
	}
	for _, k := range kinds {
		if el.kind == k {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is a %s", ErrWrongKind, id, el.kind)
}

// SetText replaces the content of a text element.
func (d *Document) SetText(id, text string) error {
	el, err := d.lookup(id, KindText)
	if err != nil {
		return err
	}
	el.value = text
	return nil
}

// AppendRow adds a row to the end of a list.
func (d *Document) AppendRow(id, text string) error {
	el, err := d.lookup(id, KindList)
	if err != nil {
		return err
	}
	el.rows = append(el.rows, text)
	return nil
}

// ClearRows removes every row from a list.
func (d *Document) ClearRows(id string) error {
	el, err := d.lookup(id, KindList)
	if err != nil {
		return err
	}
	el.rows = nil
	return nil
}

// ReadValue returns the value of an input or range element.
func (d *Document) ReadValue(id string) (string, bool) {
	el, err := d.lookup(id, KindInput, KindRange)
	if err != nil {
		return "", false
	}
	return el.value, true
}

// WriteValue sets the value of an input or range element. Range values must
// be integers and are clamped to the element bounds.
func (d *Document) WriteValue(id, value string) error {
	el, err := d.lookup(id, KindInput, KindRange)
	if err != nil {
		return err
	}
	if el.kind == KindRange {
		n, convErr := strconv.Atoi(strings.TrimSpace(value))
		if convErr != nil {
			return fmt.Errorf("%w: %q for %q", ErrInvalidValue, value, id)
		}
		el.value = strconv.Itoa(clamp(n, el.min, el.max))
		return nil
	}
	el.value = value
	return nil
}

// Step moves a range element by delta, clamped, and returns the new value.
func (d *Document) Step(id string, delta int) (string, error) {
	el, err := d.lookup(id, KindRange)
	if err != nil {
		return "", err
	}
	n, _ := strconv.Atoi(el.value)
	el.value = strconv.Itoa(clamp(n+delta, el.min, el.max))
	return el.value, nil
}

// Bounds returns the limits of a range element.
func (d *Document) Bounds(id string) (min, max int, ok bool) {
	el, err := d.lookup(id, KindRange)
	if err != nil {
		return 0, 0, false
	}
	return el.min, el.max, true
}

// Text returns the content of a text element, or "" when it does not exist.
func (d *Document) Text(id string) string {
	el, err := d.lookup(id, KindText)
	if err != nil {
		return ""
	}
	return el.value
}

// Rows returns a copy of the rows of a list.
func (d *Document) Rows(id string) []string {
	el, err := d.lookup(id, KindList)
	if err != nil {
		return nil
	}
	return append([]string(nil), el.rows...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
