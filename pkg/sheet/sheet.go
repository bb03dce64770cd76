// Package sheet defines the summary sheet data model.
//
// A sheet starts as a flat [FieldMap] of form values keyed by the names the
// web form posts (Topic, Option2Pros, Action3, ...). [Build] resolves it
// once into an immutable [Document] holding the seven top fields, the options
// table, the final decision and the numbered actions. Missing keys resolve
// to the empty string; they are never an error.
package sheet

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/topicsheet/pkg/render/layout"
)

// Dimensions of the sheet.
const (
	OptionCount = 3
	ActionCount = 5
)

// Keys of the non-repeated fields.
const (
	KeyTopic          = "Topic"
	KeyPointPerson    = "PointPerson"
	KeyRole           = "Role"
	KeySponsor        = "Sponsor"
	KeyProblem        = "Problem"
	KeyOutcome        = "Outcome"
	KeyRecommendation = "Recommendation"
	KeyDecision       = "Decision"
)

// Section headings drawn by the composer.
const (
	OptionsHeading  = "Options Table"
	DecisionLabel   = "Final Decision"
	ActionsHeading  = "Key Actions:"
	DefaultFilename = "Strategic_Topic_Summary"
)

// FieldSpec pairs a form key with the label printed above its box.
type FieldSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TopFields are printed on page 1 in this order.
var TopFields = []FieldSpec{
	{KeyTopic, "Topic"},
	{KeyPointPerson, "Point Person"},
	{KeyRole, "Role of Executive Team"},
	{KeySponsor, "Executive Sponsor"},
	{KeyProblem, "Problem Definition"},
	{KeyOutcome, "Outcome Description"},
	{KeyRecommendation, "Primary Recommendation"},
}

// OptionAspects are the table rows. Each aspect is also the key suffix of
// its cells: Option1Pros, Option2Pros, ...
var OptionAspects = []string{"Description", "Pros", "Cons", "Benefits/Revenue", "Obstacles"}

// OptionKey returns the form key of option n (1-based) for aspect.
func OptionKey(n int, aspect string) string {
	return fmt.Sprintf("Option%d%s", n, aspect)
}

// OptionHeader returns the table header of option n (1-based).
func OptionHeader(n int) string {
	return fmt.Sprintf("Option %d", n)
}

// ActionKey returns the form key of action n (1-based).
func ActionKey(n int) string {
	return fmt.Sprintf("Action%d", n)
}

// Keys returns every key the sheet reads, in document order.
func Keys() []string {
	keys := make([]string, 0, len(TopFields)+OptionCount*len(OptionAspects)+1+ActionCount)
	for _, f := range TopFields {
		keys = append(keys, f.Key)
	}
	for _, aspect := range OptionAspects {
		for n := 1; n <= OptionCount; n++ {
			keys = append(keys, OptionKey(n, aspect))
		}
	}
	keys = append(keys, KeyDecision)
	for n := 1; n <= ActionCount; n++ {
		keys = append(keys, ActionKey(n))
	}
	return keys
}

// IsKey reports whether key is read by the sheet.
func IsKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

var knownKeys = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, k := range Keys() {
		m[k] = struct{}{}
	}
	return m
}()

// FieldMap is the flat key/value form of a sheet.
type FieldMap map[string]string

// Get returns the normalised value of key, or "" when it is absent.
func (m FieldMap) Get(key string) string {
	return clean(m[key])
}

// Normalize returns a copy holding only sheet keys with non-empty
// normalised values. Form plumbing such as "action" and "draft_name" is
// dropped.
func (m FieldMap) Normalize() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		if !IsKey(k) {
			continue
		}
		if v = clean(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// SortedKeys returns the keys of m in sorted order.
func (m FieldMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Field is a labelled value. An empty value still gets a box.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Document is the resolved content of one sheet.
type Document struct {
	TopFields []Field          `json:"top_fields"`
	Table     layout.TableSpec `json:"table"`
	Decision  Field            `json:"decision"`
	Actions   []string         `json:"actions"`
}

// Build resolves a field map into a document.
func Build(m FieldMap) Document {
	doc := Document{
		TopFields: make([]Field, len(TopFields)),
		Decision:  Field{Label: DecisionLabel, Value: m.Get(KeyDecision)},
		Actions:   make([]string, ActionCount),
	}
	for i, f := range TopFields {
		doc.TopFields[i] = Field{Label: f.Label, Value: m.Get(f.Key)}
	}

	for n := 1; n <= OptionCount; n++ {
		doc.Table.Headers = append(doc.Table.Headers, OptionHeader(n))
	}
	for _, aspect := range OptionAspects {
		row := layout.TableRow{Label: aspect, Cells: make([]string, OptionCount)}
		for n := 1; n <= OptionCount; n++ {
			row.Cells[n-1] = m.Get(OptionKey(n, aspect))
		}
		doc.Table.Rows = append(doc.Table.Rows, row)
	}

	for n := 1; n <= ActionCount; n++ {
		doc.Actions[n-1] = m.Get(ActionKey(n))
	}
	return doc
}

// Filename returns "{name}.{ext}", falling back to the default name when
// name is blank.
func Filename(name, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFilename
	}
	return name + "." + ext
}
