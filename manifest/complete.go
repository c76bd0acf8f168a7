package manifest

import (
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"
)

// CompletionKind groups completion candidates.
type CompletionKind uint8

const (
	CompleteInstruction CompletionKind = iota
	CompleteObject
	CompleteEnum
	CompleteVariable
)

func (k CompletionKind) String() string {
	switch k {
	case CompleteInstruction:
		return "instruction"
	case CompleteObject:
		return "object"
	case CompleteEnum:
		return "enum"
	case CompleteVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k CompletionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Completion is a candidate for the word being typed.
type Completion struct {
	Label string         `json:"label"  yaml:"label"`
	Kind  CompletionKind `json:"kind"   yaml:"kind"`
	// Insert is the text that replaces the word, which is the catalog hint
	// when one exists.
	Insert string `json:"insert" yaml:"insert"`
	// Matched holds the byte indexes of Label that matched the word.
	Matched []int `json:"-" yaml:"-"`
}

// candidates is the list [Complete] ranks. It implements fuzzy.Source.
type candidates []Completion

func (c candidates) String(i int) string { return c[i].Label }

func (c candidates) Len() int { return len(c) }

// Candidates returns every completion offered for vars, unranked.
// Instructions come first, then objects, enum variants and variables.
func Candidates(vars VariableMap) []Completion {
	var list candidates

	for spec := range Instructions() {
		insert := spec.Hint
		if insert == "" {
			insert = spec.Name
		}

		list = append(list, Completion{
			Label:  spec.Name,
			Kind:   CompleteInstruction,
			Insert: insert,
		})
	}

	for _, obj := range objects {
		list = append(list, Completion{
			Label:  obj.Name,
			Kind:   CompleteObject,
			Insert: obj.Hint,
		})
	}

	for _, variant := range enumVariants {
		list = append(list, Completion{
			Label:  variant,
			Kind:   CompleteEnum,
			Insert: variant,
		})
	}

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		list = append(list, Completion{
			Label:  "$" + name,
			Kind:   CompleteVariable,
			Insert: "$" + name,
		})
	}

	return list
}

// Complete ranks the candidates for vars against word, best match first.
// An empty word matches nothing.
func Complete(word string, vars VariableMap) []Completion {
	if word == "" {
		return nil
	}

	list := candidates(Candidates(vars))
	matches := fuzzy.FindFrom(word, list)

	out := make([]Completion, len(matches))
	for i, m := range matches {
		out[i] = list[m.Index]
		out[i].Matched = m.MatchedIndexes
	}

	return out
}
