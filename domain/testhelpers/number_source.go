package testhelpers

import "fmt"

// SequenceNumberSource returns a fixed sequence of values, letting tests
// script exactly which tickets win each place
type SequenceNumberSource struct {
	Values []int64
	next   int
}

func (s *SequenceNumberSource) Int64N(max int64) (int64, error) {
	if s.next >= len(s.Values) {
		return 0, fmt.Errorf("number sequence exhausted after %d draws", s.next)
	}
	v := s.Values[s.next]
	s.next++
	if v >= max {
		return 0, fmt.Errorf("scripted value %d out of range [0, %d)", v, max)
	}
	return v, nil
}

// Draws reports how many values have been consumed
func (s *SequenceNumberSource) Draws() int {
	return s.next
}
