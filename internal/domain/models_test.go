package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	post := &Post{AuthorID: "user-1"}
	comment := &Comment{AuthorID: "user-2"}

	assert.True(t, CanMutate("user-1", post))
	assert.False(t, CanMutate("user-2", post))
	assert.True(t, CanMutate("user-2", comment))
	assert.False(t, CanMutate("user-1", comment))

	// Anonymous users can never mutate, even against a blank author.
	assert.False(t, CanMutate("", post))
	assert.False(t, CanMutate("", &Post{}))
}
