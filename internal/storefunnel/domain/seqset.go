package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// SeqSet is an unordered set of store seqs.
type SeqSet map[string]struct{}

func NewSeqSet(seqs ...string) SeqSet {
	set := make(SeqSet, len(seqs))
	for _, seq := range seqs {
		set.Add(seq)
	}
	return set
}

// Add inserts seq after trimming. Empty seqs are ignored.
func (s SeqSet) Add(seq string) {
	seq = strings.TrimSpace(seq)
	if seq == "" {
		return
	}
	s[seq] = struct{}{}
}

func (s SeqSet) Has(seq string) bool {
	if seq == "" {
		return false
	}
	_, ok := s[seq]
	return ok
}

func (s SeqSet) Union(other SeqSet) {
	for seq := range other {
		s[seq] = struct{}{}
	}
}

func (s SeqSet) Len() int { return len(s) }

// Sorted returns the members in ascending order, for queries and encoding.
func (s SeqSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for seq := range s {
		out = append(out, seq)
	}
	sort.Strings(out)
	return out
}

func (s SeqSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// DecodeSeqSet reads a JSON array column. Numeric members are accepted since
// older snapshots stored seqs as numbers.
func DecodeSeqSet(raw []byte) (SeqSet, error) {
	set := SeqSet{}
	if len(raw) == 0 || string(raw) == "null" {
		return set, nil
	}
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	for _, value := range values {
		var str string
		if err := json.Unmarshal(value, &str); err == nil {
			set.Add(str)
			continue
		}
		var num json.Number
		if err := json.Unmarshal(value, &num); err == nil {
			set.Add(num.String())
		}
	}
	return set, nil
}
