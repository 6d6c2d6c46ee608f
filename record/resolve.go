package record

import (
	"fmt"
	"strings"

	"github.com/c360/semfwd/errors"
)

// PathSeparator separates segments of a nested member path.
const PathSeparator = "."

// MemberNotFoundError reports a member path that could not be resolved.
// Segment is the first segment that failed; Prefix is the portion of the
// path resolved before it (empty when the first segment failed).
type MemberNotFoundError struct {
	Path    string
	Segment string
	Prefix  string
}

func (e *MemberNotFoundError) Error() string {
	if e.Prefix == "" {
		return fmt.Sprintf("input member not found in sample: %s (no member %q at top level)", e.Path, e.Segment)
	}
	return fmt.Sprintf("input member not found in sample: %s (no member %q under %q)", e.Path, e.Segment, e.Prefix)
}

func (e *MemberNotFoundError) Unwrap() error { return errors.ErrMemberNotFound }

// Resolve walks a dotted member path through type metadata and returns the
// type of the leaf member. The leaf may itself be a container.
func Resolve(root Type, path string) (Type, error) {
	segments := strings.Split(path, PathSeparator)
	current := root
	for i, seg := range segments {
		if current == nil {
			return nil, notFound(path, segments, i)
		}
		next, ok := current.Member(seg)
		if !ok {
			return nil, notFound(path, segments, i)
		}
		current = next
	}
	return current, nil
}

// Lookup walks a dotted member path through a record instance and returns
// the kind and value of the leaf member.
func Lookup(rec Record, path string) (Kind, any, error) {
	segments := strings.Split(path, PathSeparator)
	current := rec
	for i, seg := range segments {
		if current == nil || !current.MemberExists(seg) {
			return KindInvalid, nil, notFound(path, segments, i)
		}
		if i == len(segments)-1 {
			kind, err := current.MemberKind(seg)
			if err != nil {
				return KindInvalid, nil, err
			}
			value, err := current.Value(seg)
			if err != nil {
				return KindInvalid, nil, err
			}
			return kind, value, nil
		}
		value, err := current.Value(seg)
		if err != nil {
			return KindInvalid, nil, err
		}
		nested, ok := value.(Record)
		if !ok {
			return KindInvalid, nil, notFound(path, segments, i+1)
		}
		current = nested
	}
	return KindInvalid, nil, notFound(path, segments, 0)
}

func notFound(path string, segments []string, i int) error {
	return &MemberNotFoundError{
		Path:    path,
		Segment: segments[i],
		Prefix:  strings.Join(segments[:i], PathSeparator),
	}
}
