// SPDX-License-Identifier: MIT

package panel

import "fmt"

// RatingLabels is the default credit-rating scale, best to worst.
var RatingLabels = []string{"AAA", "AA", "A", "BBB", "BB", "B", "CCC", "D"}

// LabelEncoder maps labels to states [0, n) in vocabulary order.
type LabelEncoder struct {
	labels []string
	index  map[string]int
}

// NewLabelEncoder builds an encoder over labels.
//
// Errors: ErrNoLabels, ErrDuplicateLabel.
func NewLabelEncoder(labels []string) (*LabelEncoder, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	e := &LabelEncoder{
		labels: append([]string(nil), labels...),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		if _, dup := e.index[l]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		e.index[l] = i
	}

	return e, nil
}

// Len returns the number of states.
func (e *LabelEncoder) Len() int { return len(e.labels) }

// Labels returns a copy of the vocabulary.
func (e *LabelEncoder) Labels() []string { return append([]string(nil), e.labels...) }

// Encode returns the state of label.
func (e *LabelEncoder) Encode(label string) (int, error) {
	s, ok := e.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	return s, nil
}

// Decode returns the label of state s.
func (e *LabelEncoder) Decode(s int) (string, error) {
	if s < 0 || s >= len(e.labels) {
		return "", fmt.Errorf("%w: %d", ErrUnknownState, s)
	}

	return e.labels[s], nil
}
