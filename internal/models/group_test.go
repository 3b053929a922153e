package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMemberSet(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want MemberSet
	}{
		{name: "duplicates collapse", ids: []int64{1, 2, 2, 3}, want: MemberSet{1, 2, 3}},
		{name: "unsorted input is sorted", ids: []int64{9, 4, 7, 4}, want: MemberSet{4, 7, 9}},
		{name: "empty", ids: nil, want: MemberSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMemberSet(tt.ids...)
			assert.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestMemberSet_WithAndContains(t *testing.T) {
	set := NewMemberSet(2, 3).With(1).With(3)

	assert.Equal(t, "1,2,3", set.String())
	assert.True(t, set.Contains(1))
	assert.False(t, set.Contains(4))
}
