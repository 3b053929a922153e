package models

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Group is a named set of users that shared expenses are attributed to.
type Group struct {
	// ID is assigned by the store on insert.
	ID int64

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// Members always contains CreatedBy.
	Members MemberSet

	// CreatedBy is the user who created the group.
	CreatedBy int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// MemberSet is an ordered, duplicate-free set of user ids.
type MemberSet []int64

// NewMemberSet builds a set from ids, dropping duplicates and sorting
// ascending.
func NewMemberSet(ids ...int64) MemberSet {
	set := slices.Clone(ids)
	slices.Sort(set)
	return MemberSet(slices.Compact(set))
}

// With returns a new set that also contains id.
func (m MemberSet) With(id int64) MemberSet {
	return NewMemberSet(append(slices.Clone(m), id)...)
}

// Contains reports whether id is a member.
func (m MemberSet) Contains(id int64) bool {
	_, found := slices.BinarySearch(m, id)
	return found
}

// String encodes the set as a comma-separated list, e.g. "1,2,3".
func (m MemberSet) String() string {
	parts := make([]string, len(m))
	for i, id := range m {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// LogValue renders the set in its delimited form.
func (m MemberSet) LogValue() slog.Value {
	return slog.StringValue(m.String())
}
